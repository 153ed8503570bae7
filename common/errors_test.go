package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Is(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("fetching nodes: %w", NewError(ErrorKindNetworkUnavailable, cause, "GET %s", "/v1/files"))

	if !errors.Is(err, ErrNetworkUnavailable) {
		t.Errorf("errors.Is(%v, ErrNetworkUnavailable) = false, want true", err)
	}
	if errors.Is(err, ErrInvalidCredential) {
		t.Errorf("errors.Is(%v, ErrInvalidCredential) = true, want false", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(%v, cause) = false, want true", err)
	}
	kind, ok := KindOf(err)
	if !ok || kind != ErrorKindNetworkUnavailable {
		t.Errorf("KindOf() = %v, %v, want %v, true", kind, ok, ErrorKindNetworkUnavailable)
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"sentinel", ErrNoCompiledPage, "no-compiled-page"},
		{"with message", NewError(ErrorKindNoTemplateFound, nil, "directory %q is empty", "tpl"), `no-template-found: directory "tpl" is empty`},
		{"with cause", NewError(ErrorKindResourceNotFound, errors.New("404"), "node 1:2"), "resource-not-found: node 1:2: 404"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLayerKind_FileName(t *testing.T) {
	if got := LayerKindDownloadedAssets.FileName(); got != "downloaded-assets.domx-nodes.json" {
		t.Errorf("FileName() = %q", got)
	}
	if got := LayerKindAi.FileName(); got != "ai.domx-nodes.json" {
		t.Errorf("FileName() = %q", got)
	}
}

func TestParseImageFormat(t *testing.T) {
	f, err := ParseImageFormat("png")
	if err != nil || f != ImageFormatPng {
		t.Fatalf("ParseImageFormat(png) = %v, %v", f, err)
	}
	if f.Ext() != ".png" {
		t.Errorf("Ext() = %q, want .png", f.Ext())
	}
	if _, err := ParseImageFormat("bmp"); !errors.Is(err, ErrInvalidImageFormat) {
		t.Errorf("ParseImageFormat(bmp) error = %v", err)
	}
}
