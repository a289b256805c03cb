// Package markerfile persists the last-seen Notion edit marker as a
// single scalar file. A marker that cannot be read degrades to "absent"
// so the worst corruption outcome is one redundant fetch, never a crash.
package markerfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store reads and writes the marker file.
type Store struct {
	path string
}

// NewStore creates a store at path. The parent directory must exist.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the stored marker, or "" when the file is missing, empty
// or unreadable.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", nil
	}
	return strings.TrimSpace(string(data)), nil
}

// Store writes the marker with a temp-file-then-rename so a crash
// mid-write can never leave a half-written marker behind.
func (s *Store) Store(marker string) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".marker-*")
	if err != nil {
		return fmt.Errorf("create marker temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(marker + "\n"); err != nil {
		tmp.Close()
		return fmt.Errorf("write marker: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close marker temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace marker file: %w", err)
	}
	return nil
}
