package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func createTestArchive(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("unable to create archive: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, data := range entries {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("unable to create entry %s: %v", name, err)
		}
		if _, err := entry.Write([]byte(data)); err != nil {
			t.Fatalf("unable to write entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unable to finish archive: %v", err)
	}
	return path
}

func TestWalk(t *testing.T) {
	path := createTestArchive(t, map[string]string{
		"word/document.xml": "<doc/>",
		"word/styles.xml":   "<styles/>",
		"docProps/app.xml":  "<app/>",
	})

	t.Run("prefix_match", func(t *testing.T) {
		var seen []string
		err := Walk(path, "word/", func(_ string, f *zip.File) error {
			seen = append(seen, f.FileHeader.Name)
			return nil
		})
		if err != nil {
			t.Fatalf("walk failed: %v", err)
		}
		if len(seen) != 2 {
			t.Fatalf("expected 2 entries, got %v", seen)
		}
	})

	t.Run("missing_archive", func(t *testing.T) {
		err := Walk(filepath.Join(t.TempDir(), "none.zip"), "", func(_ string, _ *zip.File) error { return nil })
		if err == nil {
			t.Fatalf("expected error for missing archive")
		}
	})
}

func TestReadFile(t *testing.T) {
	path := createTestArchive(t, map[string]string{
		"word/document.xml": "<doc/>",
	})

	t.Run("existing_entry", func(t *testing.T) {
		data, err := ReadFile(path, "word/document.xml")
		if err != nil {
			t.Fatalf("unable to read entry: %v", err)
		}
		if string(data) != "<doc/>" {
			t.Fatalf("wrong content: %q", string(data))
		}
	})

	t.Run("missing_entry", func(t *testing.T) {
		if _, err := ReadFile(path, "word/missing.xml"); err == nil {
			t.Fatalf("expected error for missing entry")
		}
	})
}

func TestIsSafePath(t *testing.T) {
	safe := []string{"word/document.xml", "a/b/c.txt", "plain.txt"}
	for _, name := range safe {
		if !isSafePath(name) {
			t.Fatalf("path %q should be safe", name)
		}
	}
	unsafe := []string{"/etc/passwd", "../escape.txt", "a/../../escape.txt", `\windows\path`}
	for _, name := range unsafe {
		if isSafePath(name) {
			t.Fatalf("path %q should be rejected", name)
		}
	}
}
