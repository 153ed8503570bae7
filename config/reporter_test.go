package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readReport(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer zr.Close()

	res := make(map[string]string)
	for _, f := range zr.File {
		r, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		res[f.Name] = string(data)
	}
	return res
}

func TestReport(t *testing.T) {
	reportPath := filepath.Join(t.TempDir(), "report.zip")
	r, err := (&ReporterConfig{Destination: reportPath}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if r.Name() != reportPath {
		t.Errorf("Name() = %s, want %s", r.Name(), reportPath)
	}

	pageDir := t.TempDir()
	doc := filepath.Join(pageDir, "document.json")
	if err := os.WriteFile(doc, []byte(`{"v":1}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(pageDir, "assets"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pageDir, "assets", "a.svg"), []byte("<svg/>"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := r.StoreCopy("before", pageDir); err != nil {
		t.Fatalf("StoreCopy() error = %v", err)
	}
	snapshot := r.snapshots[0]
	r.Store("page", pageDir)
	r.Store("page", pageDir)
	r.StoreData("dump.txt", []byte("tree"))

	// Store is read on close, StoreCopy is not
	if err := os.WriteFile(doc, []byte(`{"v":2}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(snapshot); !os.IsNotExist(err) {
		t.Errorf("snapshot survived Close: %v", err)
	}

	files := readReport(t, reportPath)
	for name, want := range map[string]string{
		"before/document.json": `{"v":1}`,
		"before/assets/a.svg":  "<svg/>",
		"page/document.json":   `{"v":2}`,
		"dump.txt":             "tree",
	} {
		if files[name] != want {
			t.Errorf("%s = %q, want %q", name, files[name], want)
		}
	}
	manifest := files["MANIFEST"]
	if lines := strings.Count(manifest, "\n"); lines != 3 {
		t.Errorf("MANIFEST has %d lines, want 3:\n%s", lines, manifest)
	}
	if strings.Index(manifest, "\tbefore\t") > strings.Index(manifest, "\tpage\t") {
		t.Errorf("MANIFEST is not sorted:\n%s", manifest)
	}
}

func TestReportConflicts(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("page", "/a")

	defer func() {
		if recover() == nil {
			t.Errorf("Store() with different path did not panic")
		}
	}()
	r.Store("page", "/b")
}

func TestReportVersionsNames(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	defer r.Close()
	src := filepath.Join(t.TempDir(), "response.json")
	if err := os.WriteFile(src, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	for range 2 {
		if err := r.StoreCopy("response.json", src); err != nil {
			t.Fatalf("StoreCopy() error = %v", err)
		}
	}
	r.StoreData("response.json", nil)
	if len(r.entries) != 3 {
		t.Errorf("entries = %d, want 3", len(r.entries))
	}
	if err := r.StoreCopy("missing", filepath.Join(t.TempDir(), "none")); err == nil {
		t.Errorf("StoreCopy() of missing path succeeded")
	}
}

func TestReportNil(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close() on nil report = %v", err)
	}
	r.Store("x", "y")
	r.StoreData("x", nil)
	if err := r.StoreCopy("x", "y"); err != nil {
		t.Errorf("StoreCopy() on nil report = %v", err)
	}
	if r.Name() != "" {
		t.Errorf("Name() on nil report = %q", r.Name())
	}
	if err := (&Report{entries: make(map[string]entry)}).Close(); err != nil {
		t.Errorf("Close() without file = %v", err)
	}
}
