package figma

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"domx/common"
	"domx/config"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(&config.FigmaConfig{APIURL: srv.URL, Token: "tok"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c, srv
}

func TestClient_FetchNodes(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Figma-Token") != "tok" {
			t.Errorf("token header = %q", r.Header.Get("X-Figma-Token"))
		}
		if r.URL.Path != "/v1/files/KEY/nodes" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("ids") != "1:2" || r.URL.Query().Get("geometry") != "paths" {
			t.Errorf("query = %v", r.URL.Query())
		}
		w.Write([]byte(`{
			"name": "Landing",
			"lastModified": "2024-05-01T10:00:00Z",
			"nodes": {"1:2": {"document": {"id": "1:2", "name": "Hero", "type": "FRAME",
				"absoluteBoundingBox": {"x": 0, "y": 0, "width": 100, "height": 50},
				"relativeTransform": [[1, 0, 5], [0, 1, 7]],
				"fills": [{"type": "SOLID", "color": {"r": 1, "g": 0, "b": 0, "a": 1}, "visible": false}],
				"children": [{"id": "1:3", "name": "Title", "type": "TEXT", "characters": "Hi"}]}}}
		}`))
	})

	resp, err := c.FetchNodes(context.Background(), "KEY", []string{"1:2"}, "paths")
	if err != nil {
		t.Fatalf("FetchNodes() error = %v", err)
	}
	if resp.Name != "Landing" || resp.LastModified.Year() != 2024 {
		t.Errorf("response meta = %q %v", resp.Name, resp.LastModified)
	}
	doc := resp.Nodes["1:2"].Document
	if doc.Name != "Hero" || len(doc.Children) != 1 || doc.Children[0].Characters != "Hi" {
		t.Errorf("document = %+v", doc)
	}
	if doc.RelativeTransform[0][2] != 5 || doc.RelativeTransform[1][2] != 7 {
		t.Errorf("relativeTransform = %v", doc.RelativeTransform)
	}
	if doc.Fills[0].IsVisible() {
		t.Error("paint with visible=false reported visible")
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"forbidden", http.StatusForbidden, `{"status":403,"err":"Invalid token"}`, common.ErrInvalidCredential},
		{"unauthorized", http.StatusUnauthorized, `{}`, common.ErrInvalidCredential},
		{"not found", http.StatusNotFound, `{"status":404,"err":"Not found"}`, common.ErrResourceNotFound},
		{"null node", http.StatusOK, `{"name":"x","nodes":{"1:2":null}}`, common.ErrResourceNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := c.FetchNodes(context.Background(), "KEY", []string{"1:2"}, "")
			if !errors.Is(err, tt.want) {
				t.Errorf("FetchNodes() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClient_NetworkUnavailable(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := c.ImageFills(context.Background(), "KEY")
	if !errors.Is(err, common.ErrNetworkUnavailable) {
		t.Errorf("ImageFills() error = %v, want network unavailable", err)
	}
}

func TestClient_ImageExports(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("format") != "svg" || q.Get("scale") != "2" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"err": null, "images": {"1:2": "https://cdn/a", "1:3": ""}}`))
	})

	res, err := c.ImageExports(context.Background(), "KEY", []string{"1:2", "1:3"}, common.ImageFormatSvg, 2)
	if err != nil {
		t.Fatalf("ImageExports() error = %v", err)
	}
	if len(res) != 1 || res["1:2"] != "https://cdn/a" {
		t.Errorf("ImageExports() = %v", res)
	}
}

func TestClient_ImageFills(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/files/KEY/images" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"error": false, "status": 200, "meta": {"images": {"ref1": "https://cdn/ref1"}}}`))
	})

	res, err := c.ImageFills(context.Background(), "KEY")
	if err != nil {
		t.Fatalf("ImageFills() error = %v", err)
	}
	if res["ref1"] != "https://cdn/ref1" {
		t.Errorf("ImageFills() = %v", res)
	}
}

func TestClient_ExportsURL(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	got := c.ExportsURL("KEY", []string{"1:2", "3:4"})
	if !strings.HasPrefix(got, srv.URL+"/v1/images/KEY?ids=") || !strings.Contains(got, "1%3A2%2C3%3A4") {
		t.Errorf("ExportsURL() = %q", got)
	}
}

func TestClient_Download(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("PNGDATA"))
	})
	var buf bytes.Buffer
	ct, err := c.Download(context.Background(), srv.URL+"/img", &buf)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if ct != "image/png" || buf.String() != "PNGDATA" {
		t.Errorf("Download() = %q, %q", ct, buf.String())
	}
}
