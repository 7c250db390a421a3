package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReport(t *testing.T) {
	dir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}

	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if r.Name() != conf.Destination {
		t.Errorf("Name() = %q, want %q", r.Name(), conf.Destination)
	}

	logPath := filepath.Join(dir, "test.log")
	if err := os.WriteFile(logPath, []byte("log line\n"), 0644); err != nil {
		t.Fatal(err)
	}
	r.Store("final.log", logPath)
	r.Store("missing.db", filepath.Join(dir, "missing.db"))
	r.StoreData("config/config.yaml", []byte("version: 1\n"))
	if err := r.StoreYAML("session.yaml", map[string]any{"index": 3, "completed": []int{1, 2}}); err != nil {
		t.Fatal(err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	zr, err := zip.OpenReader(conf.Destination)
	if err != nil {
		t.Fatalf("report is not a zip archive: %v", err)
	}
	defer zr.Close()

	files := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		files[f.Name] = string(data)
	}

	for _, name := range []string{"MANIFEST", "final.log", "config/config.yaml", "session.yaml"} {
		if _, ok := files[name]; !ok {
			t.Errorf("report misses %s, has %v", name, files)
		}
	}
	if _, ok := files["missing.db"]; ok {
		t.Error("absent file was put into report")
	}
	if !strings.Contains(files["session.yaml"], "index: 3") {
		t.Errorf("session.yaml = %q", files["session.yaml"])
	}
	if !strings.Contains(files["MANIFEST"], "missing.db") {
		t.Error("manifest does not list absent file")
	}
}

func TestReport_StoreDataTwicePanics(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.StoreData("a", []byte("1"))

	defer func() {
		if recover() == nil {
			t.Error("StoreData() with duplicate name did not panic")
		}
	}()
	r.StoreData("a", []byte("2"))
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	// all methods are safe on nil report
	r.Store("x", "y")
	r.StoreData("x", nil)
	if err := r.StoreYAML("x", 1); err != nil {
		t.Error(err)
	}
	if r.Name() != "" {
		t.Error("nil report has a name")
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
