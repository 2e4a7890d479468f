// Package tree maintains the flat, depth-indexed entry list backing the
// explorer view. Entries form a pre-order forest: children follow their
// parent directly, tagged with a depth one greater, so expand and collapse
// are contiguous splices and an entry's parent is found by scanning
// backward for raising depth.
package tree

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chmouel/lazytree/internal/models"
)

// StatusProvider answers the version-control queries the tree needs. It is
// the single status source shared with the status bar and preview history.
type StatusProvider interface {
	FindToplevel(ctx context.Context, dir string) (string, error)
	StatusMap(ctx context.Context, dir string) (map[string]models.FileStatus, models.RepoInfo)
	IgnoredPaths(ctx context.Context, dir string, candidates []string) map[string]bool
}

// Store owns the visible forest rooted at one directory. All mutation
// happens on the caller's goroutine; indexes held across a structural
// operation must be revalidated against the new list.
type Store struct {
	root       string
	entries    []*models.Entry
	showHidden bool
	statuses   map[string]models.FileStatus
	info       models.RepoInfo
	inRepo     bool
	vcs        StatusProvider
}

// NewStore builds an empty store. A nil provider behaves like a directory
// outside any repository. Call Open to load a root.
func NewStore(vcs StatusProvider, showHidden bool) *Store {
	return &Store{
		showHidden: showHidden,
		statuses:   map[string]models.FileStatus{},
		vcs:        vcs,
	}
}

// Root returns the current root directory.
func (s *Store) Root() string {
	return s.root
}

// Entries exposes the ordered entry list. Callers must treat it as
// read-only and must not hold it across structural operations.
func (s *Store) Entries() []*models.Entry {
	return s.entries
}

// Len returns the number of visible entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// At returns the entry at index, or nil when out of range.
func (s *Store) At(index int) *models.Entry {
	if index < 0 || index >= len(s.entries) {
		return nil
	}
	return s.entries[index]
}

// Info returns the repository summary from the last status refresh.
func (s *Store) Info() models.RepoInfo {
	return s.info
}

// ShowHidden reports whether dotfiles are listed.
func (s *Store) ShowHidden() bool {
	return s.showHidden
}

// Open roots the store at dir and loads its immediate children. An
// unreadable dir yields an empty list, not an error.
func (s *Store) Open(ctx context.Context, dir string) {
	s.root = dir
	s.refreshStatus(ctx)
	s.entries = s.listChildren(ctx, dir, 0)
	s.propagateStatus()
}

// ToggleExpand expands or collapses the directory at index. Out-of-range
// indexes and plain files are ignored.
func (s *Store) ToggleExpand(ctx context.Context, index int) {
	if index < 0 || index >= len(s.entries) || !s.entries[index].IsDir {
		return
	}
	if s.entries[index].Expanded {
		s.collapse(index)
	} else {
		s.expand(ctx, index)
	}
	s.propagateStatus()
}

func (s *Store) expand(ctx context.Context, index int) {
	entry := s.entries[index]
	entry.Expanded = true
	children := s.listChildren(ctx, entry.Path, entry.Depth+1)
	if len(children) > 0 {
		s.entries = insertAfter(s.entries, index, children)
	}
}

// collapse removes the maximal run of entries after index whose depth
// exceeds the collapsed directory's depth. The run length is never cached,
// it is recomputed by scanning until the depth drops back.
func (s *Store) collapse(index int) {
	entry := s.entries[index]
	entry.Expanded = false

	end := index + 1
	for end < len(s.entries) && s.entries[end].Depth > entry.Depth {
		end++
	}
	s.entries = append(s.entries[:index+1], s.entries[end:]...)
}

// ToggleHidden flips dotfile visibility and reloads, keeping expansion.
func (s *Store) ToggleHidden(ctx context.Context) {
	s.showHidden = !s.showHidden
	s.Reload(ctx)
}

// Reload re-queries status and rebuilds the list from disk, restoring the
// previously expanded directories. The restore is a single forward walk:
// children inserted for one directory are themselves visited later in the
// same walk, so nested expansion comes back without recursion.
func (s *Store) Reload(ctx context.Context) {
	expanded := s.expandedPaths()
	s.refreshStatus(ctx)
	s.entries = s.listChildren(ctx, s.root, 0)
	s.restoreExpansion(ctx, expanded)
	s.propagateStatus()
}

// EnterDir re-roots the store into the directory at index. Expansion state
// does not survive re-rooting.
func (s *Store) EnterDir(ctx context.Context, index int) {
	if index < 0 || index >= len(s.entries) || !s.entries[index].IsDir {
		return
	}
	s.Open(ctx, s.entries[index].Path)
}

// NavigateTo jumps to an arbitrary path. Directories become the new root;
// for a file the parent becomes the root and the file's path is returned
// so the caller can place the cursor on it. Unreachable paths are ignored.
func (s *Store) NavigateTo(ctx context.Context, path string) string {
	fi, err := os.Stat(path)
	if err != nil {
		return ""
	}
	if fi.IsDir() {
		s.Open(ctx, path)
		return ""
	}
	s.Open(ctx, filepath.Dir(path))
	return path
}

// GoParent re-roots at the filesystem parent and returns the previous root
// so the caller can keep the cursor on it. The previous root is forced
// expanded, revealing where the user came from; every other directory that
// was expanded before the move is re-expanded too. At the filesystem root
// this is a no-op returning "".
func (s *Store) GoParent(ctx context.Context) string {
	parent := filepath.Dir(s.root)
	if parent == s.root {
		return ""
	}

	oldRoot := s.root
	expanded := s.expandedPaths()
	expanded[oldRoot] = true

	s.root = parent
	s.refreshStatus(ctx)
	s.entries = s.listChildren(ctx, parent, 0)
	s.restoreExpansion(ctx, expanded)
	s.propagateStatus()
	return oldRoot
}

// FindParentIndex returns the index of the parent directory of the entry
// at index, or -1 for depth-0 entries and out-of-range indexes.
func (s *Store) FindParentIndex(index int) int {
	if index < 0 || index >= len(s.entries) {
		return -1
	}
	depth := s.entries[index].Depth
	if depth == 0 {
		return -1
	}
	for j := index - 1; j >= 0; j-- {
		if s.entries[j].IsDir && s.entries[j].Depth == depth-1 {
			return j
		}
	}
	return -1
}

func (s *Store) expandedPaths() map[string]bool {
	expanded := make(map[string]bool)
	for _, e := range s.entries {
		if e.IsDir && e.Expanded {
			expanded[e.Path] = true
		}
	}
	return expanded
}

func (s *Store) restoreExpansion(ctx context.Context, expanded map[string]bool) {
	for i := 0; i < len(s.entries); i++ {
		e := s.entries[i]
		if e.IsDir && !e.Expanded && expanded[e.Path] {
			s.expand(ctx, i)
		}
	}
}

func (s *Store) refreshStatus(ctx context.Context) {
	if s.vcs == nil {
		s.inRepo = false
		s.statuses = map[string]models.FileStatus{}
		s.info = models.RepoInfo{}
		return
	}
	_, err := s.vcs.FindToplevel(ctx, s.root)
	s.inRepo = err == nil
	if !s.inRepo {
		s.statuses = map[string]models.FileStatus{}
		s.info = models.RepoInfo{}
		return
	}
	s.statuses, s.info = s.vcs.StatusMap(ctx, s.root)
}

// listChildren reads one directory level, filtered by the hidden policy,
// sorted directories-first then case-insensitive, with ignore flags and
// status merged in. Read failures yield an empty list.
func (s *Store) listChildren(ctx context.Context, dir string, depth int) []*models.Entry {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	children := make([]*models.Entry, 0, len(dirents))
	for _, de := range dirents {
		entry, err := models.NewEntry(filepath.Join(dir, de.Name()), depth)
		if err != nil {
			continue
		}
		if !s.showHidden && entry.IsHidden() {
			continue
		}
		children = append(children, entry)
	}

	sort.Slice(children, func(i, j int) bool {
		a, b := children[i], children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})

	s.markIgnored(ctx, dir, children)
	s.markStatus(children)
	return children
}

func (s *Store) markIgnored(ctx context.Context, dir string, children []*models.Entry) {
	if s.vcs == nil || !s.inRepo || len(children) == 0 {
		return
	}
	candidates := make([]string, len(children))
	for i, c := range children {
		candidates[i] = c.Path
	}
	ignored := s.vcs.IgnoredPaths(ctx, dir, candidates)
	for _, c := range children {
		c.Ignored = ignored[c.Path]
	}
}

func (s *Store) markStatus(children []*models.Entry) {
	if len(s.statuses) == 0 {
		return
	}
	for _, child := range children {
		st, ok := s.statuses[child.Path]
		if !ok {
			// The status map keys resolved paths; a symlinked component in
			// the root (/tmp on macOS) makes the literal path miss.
			if resolved, err := filepath.EvalSymlinks(child.Path); err == nil {
				st, ok = s.statuses[resolved]
			}
		}
		if ok {
			child.Status = st
		}
	}
}

// propagateStatus pushes every non-clean entry's status up its ancestor
// chain with a severity-max merge. Walking backward from a child, a
// directory counts as the next ancestor only while its depth is below the
// shallowest depth merged so far; the walk ends after a depth-0 ancestor.
// A single pass is not self-stabilizing across multi-level inserts, so
// this runs in full after every structural change.
func (s *Store) propagateStatus() {
	for i, e := range s.entries {
		if e.Depth == 0 || e.Status.IsClean() {
			continue
		}
		childStatus := e.Status
		tracked := e.Depth
		for j := i - 1; j >= 0; j-- {
			p := s.entries[j]
			if !p.IsDir || p.Depth >= tracked {
				continue
			}
			p.Status = p.Status.Merge(childStatus)
			tracked = p.Depth
			if p.Depth == 0 {
				break
			}
		}
	}
}

func insertAfter(entries []*models.Entry, index int, children []*models.Entry) []*models.Entry {
	out := make([]*models.Entry, 0, len(entries)+len(children))
	out = append(out, entries[:index+1]...)
	out = append(out, children...)
	out = append(out, entries[index+1:]...)
	return out
}
