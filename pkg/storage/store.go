package storage

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// imageExt is the fixed extension for stored blobs, kept regardless of the
// actual encoded format so filenames stay a pure function of content.
const imageExt = ".jpg"

// Store persists image blobs under content-addressed names: the MD5 hex
// digest of the bytes plus a fixed extension. Byte-identical payloads
// collapse to one file by construction.
type Store struct {
	dir   string
	known map[string]bool // digest -> present
	mu    sync.RWMutex
}

// NewStore creates the store directory if absent and indexes existing files
// so duplicate detection survives restarts.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &Store{
		dir:   dir,
		known: make(map[string]bool),
	}

	if err := s.scanExisting(); err != nil {
		return nil, fmt.Errorf("failed to scan store directory: %w", err)
	}

	return s, nil
}

func (s *Store) scanExisting() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != imageExt {
			continue
		}
		digest := entry.Name()[:len(entry.Name())-len(imageExt)]
		s.known[digest] = true
	}

	return nil
}

// Digest returns the content address for a payload.
func Digest(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// Save writes the payload under its content address. It reports the stored
// filename and whether an identical payload was already present. Saving a
// duplicate rewrites the same file, which is idempotent by construction.
func (s *Store) Save(data []byte) (name string, dup bool, err error) {
	digest := Digest(data)
	name = digest + imageExt
	filename := filepath.Join(s.dir, name)

	s.mu.RLock()
	dup = s.known[digest]
	s.mu.RUnlock()

	// Write via a temp file and rename so readers never observe a torn blob.
	tempFile := filename + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return "", false, fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, writeErr := out.Write(data)
	closeErr := out.Close()

	if writeErr != nil {
		os.Remove(tempFile)
		return "", false, fmt.Errorf("failed to write image data: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return "", false, fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return "", false, fmt.Errorf("failed to rename temporary file: %w", err)
	}

	s.mu.Lock()
	s.known[digest] = true
	s.mu.Unlock()

	return name, dup, nil
}

// Contains reports whether a payload with the given digest is stored.
func (s *Store) Contains(digest string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.known[digest] {
		return true
	}

	// Double-check the filesystem in case another process wrote the file.
	if _, err := os.Stat(filepath.Join(s.dir, digest+imageExt)); err == nil {
		s.mu.RUnlock()
		s.mu.Lock()
		s.known[digest] = true
		s.mu.Unlock()
		s.mu.RLock()
		return true
	}

	return false
}

// Count returns the number of stored images.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.known)
}

// List returns the absolute paths of all stored files in name order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Dir returns the store directory path.
func (s *Store) Dir() string {
	return s.dir
}
