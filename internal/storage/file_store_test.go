package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStoreSaveAndDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	path, err := store.Save("chunk-1", "scene.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("saved content = %q", data)
	}

	if err := store.Delete("chunk-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(path)); !os.IsNotExist(err) {
		t.Fatalf("chunk dir should be removed, stat err = %v", err)
	}

	if err := store.Delete("chunk-missing"); err != nil {
		t.Fatalf("deleting missing chunk should be a no-op: %v", err)
	}
}

func TestFileStoreSanitizesFilename(t *testing.T) {
	base := t.TempDir()
	store, err := NewFileStore(base)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	path, err := store.Save("chunk-2", "../../escape.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		t.Fatalf("file escaped base dir: %s", path)
	}
}

func TestDocumentKey(t *testing.T) {
	if got := DocumentKey("doc-1", "Pride and Prejudice.TXT"); got != "documents/doc-1.txt" {
		t.Fatalf("DocumentKey = %q", got)
	}
}
