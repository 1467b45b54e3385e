package storage

import (
	"bytes"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *MediaStore {
	t.Helper()

	store, err := NewMediaStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewMediaStore error: %v", err)
	}
	return store
}

func TestMediaStore_SaveOriginalRoundTrip(t *testing.T) {
	store := newTestStore(t)

	data := []byte("fake image bytes")
	path, err := store.SaveOriginal("photo.PNG", data)
	if err != nil {
		t.Fatalf("SaveOriginal error: %v", err)
	}
	if !strings.HasPrefix(path, "uploads/") {
		t.Errorf("expected path under uploads/, got %q", path)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("expected lowercased extension, got %q", path)
	}

	read, err := store.Read(path)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if !bytes.Equal(read, data) {
		t.Errorf("read bytes differ from written bytes")
	}
}

func TestMediaStore_SaveOriginal_UniqueNames(t *testing.T) {
	store := newTestStore(t)

	first, err := store.SaveOriginal("a.jpg", []byte("one"))
	if err != nil {
		t.Fatalf("SaveOriginal #1 error: %v", err)
	}
	second, err := store.SaveOriginal("a.jpg", []byte("two"))
	if err != nil {
		t.Fatalf("SaveOriginal #2 error: %v", err)
	}
	if first == second {
		t.Fatalf("expected unique paths for identical filenames, both %q", first)
	}
}

func TestMediaStore_SavePreview(t *testing.T) {
	store := newTestStore(t)

	path, err := store.SavePreview([]byte("jpeg bytes"))
	if err != nil {
		t.Fatalf("SavePreview error: %v", err)
	}
	if !strings.HasPrefix(path, "snapshots/") || !strings.HasSuffix(path, ".jpg") {
		t.Errorf("expected snapshots/<uuid>.jpg, got %q", path)
	}
}

func TestMediaStore_DeleteIdempotent(t *testing.T) {
	store := newTestStore(t)

	path, err := store.SaveOriginal("a.gif", []byte("data"))
	if err != nil {
		t.Fatalf("SaveOriginal error: %v", err)
	}
	if err := store.Delete(path); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	// Second delete of the same path must not fail.
	if err := store.Delete(path); err != nil {
		t.Fatalf("Delete (second) error: %v", err)
	}
	if _, err := store.Read(path); err == nil {
		t.Fatal("expected Read to fail after delete")
	}
}

func TestMediaStore_RejectsEscapingPaths(t *testing.T) {
	store := newTestStore(t)

	for _, path := range []string{"../outside.txt", "uploads/../../etc/passwd", "/etc/passwd"} {
		if _, err := store.Read(path); err == nil {
			t.Errorf("expected error reading %q", path)
		}
	}
}
