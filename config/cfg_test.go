package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rupor-github/gencfg"

	"domx/common"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Figma.APIURL != "https://api.figma.com" {
		t.Errorf("APIURL = %q", cfg.Figma.APIURL)
	}
	if cfg.Figma.MaxBatch != 50 {
		t.Errorf("MaxBatch = %d, want 50", cfg.Figma.MaxBatch)
	}
	if cfg.Assets.PollInterval != 100*time.Millisecond {
		t.Errorf("PollInterval = %v, want 100ms", cfg.Assets.PollInterval)
	}
	if cfg.Assets.Concurrency != 0 {
		t.Errorf("Concurrency = %d, want 0 (unlimited)", cfg.Assets.Concurrency)
	}
	if cfg.NodeImage.Format != common.ImageFormatPng {
		t.Errorf("NodeImage.Format = %v, want png", cfg.NodeImage.Format)
	}
	if len(cfg.Templates.Extensions) == 0 {
		t.Error("Templates.Extensions is empty")
	}
}

func TestLoadConfiguration_TokenFromEnvironment(t *testing.T) {
	t.Setenv("FIGMA_TOKEN", "figd_secret")

	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Figma.Token != "figd_secret" {
		t.Errorf("Token = %q, want value from environment", cfg.Figma.Token)
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if strings.Contains(string(data), "figd_secret") {
		t.Error("Dump() leaked token value")
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
figma:
  api_url: http://localhost:8080
  url_length_budget: 500
  max_batch: 10
storage:
  data_dir: ` + filepath.Join(tmpDir, "data") + `
assets:
  concurrency: 4
  poll_interval: 50ms
  prefix: /static
node_image:
  format: svg
  scale: 2
logging:
  console:
    level: debug
  file:
    level: normal
    destination: ` + filepath.Join(tmpDir, "test.log") + `
    mode: append
reporting:
  destination: ` + filepath.Join(tmpDir, "report.zip") + `
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Figma.APIURL != "http://localhost:8080" {
		t.Errorf("APIURL = %q", cfg.Figma.APIURL)
	}
	if cfg.Figma.URLLengthBudget != 500 || cfg.Figma.MaxBatch != 10 {
		t.Errorf("budget/batch = %d/%d, want 500/10", cfg.Figma.URLLengthBudget, cfg.Figma.MaxBatch)
	}
	if cfg.Assets.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", cfg.Assets.Concurrency)
	}
	if cfg.Assets.PollInterval != 50*time.Millisecond {
		t.Errorf("PollInterval = %v, want 50ms", cfg.Assets.PollInterval)
	}
	if cfg.Assets.Prefix != "/static" {
		t.Errorf("Prefix = %q", cfg.Assets.Prefix)
	}
	if cfg.NodeImage.Format != common.ImageFormatSvg || cfg.NodeImage.Scale != 2 {
		t.Errorf("NodeImage = %+v", cfg.NodeImage)
	}
	// untouched values keep defaults
	if cfg.Assets.WaitTimeout != time.Minute {
		t.Errorf("WaitTimeout = %v, want default 1m", cfg.Assets.WaitTimeout)
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	_, err := LoadConfiguration("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `version: 1
figma:
  api_url: http://localhost
  invalid indent
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadConfiguration(configPath)
	if err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadConfiguration_UnknownFields(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "unknown.yaml")

	configWithUnknown := `version: 1
unknown_field: value
`

	if err := os.WriteFile(configPath, []byte(configWithUnknown), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadConfiguration(configPath)
	if err == nil {
		t.Error("Expected error for unknown fields")
	}
}

func TestLoadConfiguration_ValidationError(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"version", "version: 2\n"},
		{"batch too large", "version: 1\nfigma:\n  max_batch: 51\n"},
		{"batch too small", "version: 1\nfigma:\n  max_batch: 0\n"},
		{"bad extension", "version: 1\ntemplates:\n  extensions: [\"tmpl\"]\n"},
		{"bad image format", "version: 1\nnode_image:\n  format: bmp\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid_values.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {
		// Options are opaque, just test that we can pass them
	}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if len(data) == 0 {
		t.Error("Prepare() returned empty data")
	}

	// Verify it's valid YAML by trying to unmarshal
	cfg := &Config{}
	_, err = unmarshalConfig(data, cfg, true)
	if err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	if len(data) == 0 {
		t.Error("Dump() returned empty data")
	}

	// Verify we can load it back
	cfg2 := &Config{}
	_, err = unmarshalConfig(data, cfg2, false)
	if err != nil {
		t.Errorf("Dumped config cannot be loaded: %v", err)
	}

	if cfg2.Version != cfg.Version {
		t.Errorf("Version mismatch after dump/load: got %d, want %d", cfg2.Version, cfg.Version)
	}
	if cfg2.Assets.PollInterval != cfg.Assets.PollInterval {
		t.Errorf("PollInterval mismatch after dump/load: got %v, want %v", cfg2.Assets.PollInterval, cfg.Assets.PollInterval)
	}
	if cfg2.NodeImage.Format != cfg.NodeImage.Format {
		t.Errorf("NodeImage.Format mismatch after dump/load: got %v, want %v", cfg2.NodeImage.Format, cfg.NodeImage.Format)
	}
}
