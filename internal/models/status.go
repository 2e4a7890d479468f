package models

// StatusCode classifies one side (staged or unstaged) of a file's
// version-control state. The zero value means "no change".
type StatusCode uint8

const (
	StatusNone StatusCode = iota
	StatusAdded
	StatusRenamed
	StatusDeleted
	StatusModified
	StatusUntracked
	StatusConflicted
)

// Severity ranks codes for ancestor propagation. Added and Renamed share a
// rank; Conflicted outranks everything.
func (c StatusCode) Severity() int {
	switch c {
	case StatusAdded, StatusRenamed:
		return 1
	case StatusDeleted:
		return 2
	case StatusModified:
		return 3
	case StatusUntracked:
		return 4
	case StatusConflicted:
		return 5
	default:
		return 0
	}
}

func (c StatusCode) String() string {
	switch c {
	case StatusAdded:
		return "added"
	case StatusRenamed:
		return "renamed"
	case StatusDeleted:
		return "deleted"
	case StatusModified:
		return "modified"
	case StatusUntracked:
		return "untracked"
	case StatusConflicted:
		return "conflicted"
	default:
		return "none"
	}
}

// Rune returns the single-character marker used in the tree pane.
func (c StatusCode) Rune() rune {
	switch c {
	case StatusAdded:
		return 'A'
	case StatusRenamed:
		return 'R'
	case StatusDeleted:
		return 'D'
	case StatusModified:
		return 'M'
	case StatusUntracked:
		return '?'
	case StatusConflicted:
		return 'C'
	default:
		return ' '
	}
}

// FileStatus holds the two independent sides of a file's git state.
type FileStatus struct {
	Staged   StatusCode
	Unstaged StatusCode
}

// IsClean reports whether both sides are unchanged.
func (s FileStatus) IsClean() bool {
	return s.Staged == StatusNone && s.Unstaged == StatusNone
}

// Merge combines two statuses, keeping the higher-severity code per side.
// Merging a status into itself is a no-op; Conflicted absorbs everything.
func (s FileStatus) Merge(other FileStatus) FileStatus {
	return FileStatus{
		Staged:   maxSeverity(s.Staged, other.Staged),
		Unstaged: maxSeverity(s.Unstaged, other.Unstaged),
	}
}

func maxSeverity(a, b StatusCode) StatusCode {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}
