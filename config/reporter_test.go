package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestReport_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	conf := &ReporterConfig{Destination: filepath.Join(dir, "report.zip")}

	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	if r.Name() == "" {
		t.Fatal("Name() returned empty string")
	}

	stored := filepath.Join(dir, "artifact.json")
	if err := os.WriteFile(stored, []byte(`{"x":1}`), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	r.Store("guides/artifact.json", stored)
	r.StoreData("config/config.yaml", []byte("version: 1\n"))
	// absent files are ignored during finalize
	r.Store("guides/missing.json", filepath.Join(dir, "missing.json"))

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	zr, err := zip.OpenReader(conf.Destination)
	if err != nil {
		t.Fatalf("unable to open report archive: %v", err)
	}
	defer zr.Close()

	found := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open archive entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read archive entry %s: %v", f.Name, err)
		}
		found[f.Name] = string(data)
	}

	if _, ok := found["MANIFEST"]; !ok {
		t.Error("report is missing MANIFEST")
	}
	if found["guides/artifact.json"] != `{"x":1}` {
		t.Errorf("wrong stored file content: %q", found["guides/artifact.json"])
	}
	if found["config/config.yaml"] != "version: 1\n" {
		t.Errorf("wrong stored data content: %q", found["config/config.yaml"])
	}
	if _, ok := found["guides/missing.json"]; ok {
		t.Error("absent file should not be in the report")
	}
}

func TestReport_NilSafe(t *testing.T) {
	var r *Report

	// all operations must be no-ops on a nil report
	r.Store("name", "path")
	r.StoreData("name", []byte("data"))
	if err := r.Close(); err != nil {
		t.Errorf("Close() on nil report error: %v", err)
	}
	if r.Name() != "" {
		t.Errorf("Name() on nil report = %q", r.Name())
	}
}

func TestReport_DuplicateStorePanics(t *testing.T) {
	dir := t.TempDir()
	conf := &ReporterConfig{Destination: filepath.Join(dir, "report.zip")}

	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	defer r.Close()

	defer func() {
		if recover() == nil {
			t.Error("expected panic on conflicting store")
		}
	}()
	r.Store("same", "one")
	r.Store("same", "two")
}
