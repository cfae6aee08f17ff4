package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestStoreSave(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if store.Count() != 0 {
		t.Error("Expected initial count to be 0")
	}

	data := []byte("fake image bytes")
	name, dup, err := store.Save(data)
	if err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if dup {
		t.Error("Expected first save not to be a duplicate")
	}

	expectedName := Digest(data) + ".jpg"
	if name != expectedName {
		t.Errorf("Expected name %s, got %s", expectedName, name)
	}

	content, err := os.ReadFile(filepath.Join(tempDir, name))
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if !bytes.Equal(content, data) {
		t.Error("File content does not match saved data")
	}
}

func TestStoreContentAddressedIdempotence(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	data := []byte("identical payload")

	if _, dup, err := store.Save(data); err != nil || dup {
		t.Fatalf("First save: dup=%v err=%v", dup, err)
	}
	if _, dup, err := store.Save(data); err != nil {
		t.Fatalf("Second save failed: %v", err)
	} else if !dup {
		t.Error("Expected second save of identical bytes to report duplicate")
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("Failed to read store dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected exactly one file after duplicate save, got %d", len(entries))
	}
	if store.Count() != 1 {
		t.Errorf("Expected count 1, got %d", store.Count())
	}
}

func TestStoreScanExisting(t *testing.T) {
	tempDir := t.TempDir()

	data := []byte("pre-existing blob")
	name := Digest(data) + ".jpg"
	if err := os.WriteFile(filepath.Join(tempDir, name), data, 0644); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}
	// Non-image files are not indexed
	if err := os.WriteFile(filepath.Join(tempDir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	store, err := NewStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if store.Count() != 1 {
		t.Errorf("Expected count 1 after scan, got %d", store.Count())
	}
	if !store.Contains(Digest(data)) {
		t.Error("Expected pre-existing digest to be known")
	}

	if _, dup, err := store.Save(data); err != nil {
		t.Fatalf("Save failed: %v", err)
	} else if !dup {
		t.Error("Expected cross-run duplicate to be detected")
	}
}

func TestStoreList(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	store.Save([]byte("one"))
	store.Save([]byte("two"))

	paths, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(paths) != 2 {
		t.Errorf("Expected 2 paths, got %d", len(paths))
	}
	for _, p := range paths {
		if !filepath.IsAbs(p) && filepath.Dir(p) != tempDir {
			t.Errorf("Expected path under %s, got %s", tempDir, p)
		}
	}
}
