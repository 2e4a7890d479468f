// Package models defines the data objects shared across lazytree packages.
package models

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry represents one visible row in the file tree.
type Entry struct {
	Path          string
	Name          string
	Depth         int // nesting level below the current root; root's direct children are 0
	IsDir         bool
	IsSymlink     bool
	SymlinkTarget string
	Expanded      bool // directories only
	Size          int64
	ModTime       time.Time
	Ignored       bool // VCS-ignored
	Status        FileStatus
}

// NewEntry builds an Entry from the filesystem. Symlink information comes
// from the unfollowed lstat; size and directory-ness come from the followed
// stat so symlinked directories behave like directories. A dangling symlink
// is kept as a zero-size non-directory entry rather than an error.
func NewEntry(path string, depth int) (*Entry, error) {
	lst, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}

	e := &Entry{
		Path:    path,
		Name:    filepath.Base(path),
		Depth:   depth,
		ModTime: lst.ModTime(),
	}

	if lst.Mode()&os.ModeSymlink != 0 {
		e.IsSymlink = true
		if target, err := os.Readlink(path); err == nil {
			e.SymlinkTarget = target
		}
	}

	if st, err := os.Stat(path); err == nil {
		e.IsDir = st.IsDir()
		e.Size = st.Size()
		e.ModTime = st.ModTime()
	}

	return e, nil
}

// IsHidden reports whether the entry is a dotfile.
func (e *Entry) IsHidden() bool {
	return strings.HasPrefix(e.Name, ".")
}

// Clone returns a copy of the entry. Used by tests and by callers that need
// a snapshot unaffected by later tree mutations.
func (e *Entry) Clone() *Entry {
	c := *e
	return &c
}

// RepoInfo summarizes the repository containing the current root.
type RepoInfo struct {
	Branch         string // empty when detached, unborn, or outside a repository
	Ahead          int
	Behind         int
	StagedCount    int
	ModifiedCount  int
	UntrackedCount int
}

// HasRepo reports whether the summary describes an actual repository.
func (r RepoInfo) HasRepo() bool {
	return r.Branch != "" || r.Ahead > 0 || r.Behind > 0 ||
		r.StagedCount > 0 || r.ModifiedCount > 0 || r.UntrackedCount > 0
}

// Commit is one entry of a file's recent history.
type Commit struct {
	Hash    string // abbreviated
	Author  string
	Date    string // human-relative, e.g. "2h ago"
	Message string // subject line only
}
