package storage

import (
	"io"
	"strings"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := store.Put("docs/abc123.pdf", strings.NewReader("%PDF-1.4 payload")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !store.Exists("docs/abc123.pdf") {
		t.Error("Expected object to exist after Put")
	}

	rc, err := store.Get("docs/abc123.pdf")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "%PDF-1.4 payload" {
		t.Errorf("Unexpected payload %q", data)
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	store.Put("doc.pdf", strings.NewReader("old"))
	if err := store.Put("doc.pdf", strings.NewReader("new")); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	rc, _ := store.Get("doc.pdf")
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "new" {
		t.Errorf("Expected overwrite to replace content, got %q", data)
	}
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	store.Put("doc.pdf", strings.NewReader("payload"))
	if err := store.Delete("doc.pdf"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if store.Exists("doc.pdf") {
		t.Error("Expected object gone after Delete")
	}

	// Deleting a missing object is not an error.
	if err := store.Delete("doc.pdf"); err != nil {
		t.Errorf("Expected idempotent delete, got %v", err)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	for _, key := range []string{"../escape.pdf", "/etc/passwd", ""} {
		if err := store.Put(key, strings.NewReader("x")); err == nil {
			t.Errorf("Expected key %q to be rejected", key)
		}
		if _, err := store.Get(key); err == nil {
			t.Errorf("Expected Get(%q) to be rejected", key)
		}
	}
}
