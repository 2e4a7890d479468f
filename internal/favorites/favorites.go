// Package favorites persists the user's favorite directories as a
// newline-delimited path list.
package favorites

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chmouel/lazytree/internal/utils"
)

// Store holds an ordered list of favorite paths backed by a file. The
// zero value is an empty in-memory list.
type Store struct {
	path    string
	entries []string
}

// Load reads the favorites file at path. A missing file yields an empty
// store.
func Load(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			s.entries = append(s.entries, line)
		}
	}
	return s, nil
}

// Save writes the list back to disk, creating the parent directory as
// needed.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), utils.DefaultDirPerms); err != nil {
		return err
	}
	content := strings.Join(s.entries, "\n")
	return os.WriteFile(s.path, []byte(content), utils.DefaultFilePerms)
}

// Add appends path if absent and reports whether it was added.
func (s *Store) Add(path string) bool {
	if s.Contains(path) {
		return false
	}
	s.entries = append(s.entries, path)
	return true
}

// Remove drops the entry at index and reports whether it existed.
func (s *Store) Remove(index int) bool {
	if index < 0 || index >= len(s.entries) {
		return false
	}
	s.entries = slices.Delete(s.entries, index, index+1)
	return true
}

// Toggle adds path if absent or removes it if present, reporting whether
// it is now a favorite.
func (s *Store) Toggle(path string) bool {
	if i := slices.Index(s.entries, path); i >= 0 {
		s.entries = slices.Delete(s.entries, i, i+1)
		return false
	}
	s.entries = append(s.entries, path)
	return true
}

// Contains reports whether path is in the list.
func (s *Store) Contains(path string) bool {
	return slices.Contains(s.entries, path)
}

// Get returns the entry at index.
func (s *Store) Get(index int) (string, bool) {
	if index < 0 || index >= len(s.entries) {
		return "", false
	}
	return s.entries[index], true
}

// List returns a copy of the entries in insertion order.
func (s *Store) List() []string {
	return slices.Clone(s.entries)
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	return len(s.entries)
}
