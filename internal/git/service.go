// Package git wraps the git commands lazytree relies on for status
// overlays, ignore checks, and per-file history.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	log "github.com/chmouel/lazytree/internal/log"
	"github.com/chmouel/lazytree/internal/models"
)

// LookupPath is used to find executables in PATH. It's exposed as a package
// variable so tests can mock it and avoid depending on system binaries.
var LookupPath = exec.LookPath

// NotifyFn receives ongoing notifications.
type NotifyFn func(message string, severity string)

// NotifyOnceFn reports deduplicated notification messages.
type NotifyOnceFn func(key string, message string, severity string)

// Service orchestrates git subprocesses for the UI. It is the single status
// source: the tree overlay, the status bar, and preview commit lists all go
// through it.
type Service struct {
	notify     NotifyFn
	notifyOnce NotifyOnceFn
	semaphore  chan struct{}
}

// NewService constructs a Service and sets up concurrency limits.
func NewService(notify NotifyFn, notifyOnce NotifyOnceFn) *Service {
	limit := runtime.NumCPU() * 2
	if limit < 4 {
		limit = 4
	}
	if limit > 32 {
		limit = 32
	}

	// Counting semaphore: the channel starts full, acquireSemaphore takes a
	// token and releaseSemaphore returns it, bounding concurrent git
	// subprocesses.
	semaphore := make(chan struct{}, limit)
	for i := 0; i < limit; i++ {
		semaphore <- struct{}{}
	}

	if notify == nil {
		notify = func(string, string) {}
	}
	if notifyOnce == nil {
		notifyOnce = func(string, string, string) {}
	}

	return &Service{
		notify:     notify,
		notifyOnce: notifyOnce,
		semaphore:  semaphore,
	}
}

func (s *Service) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

func (s *Service) acquireSemaphore() {
	<-s.semaphore
}

func (s *Service) releaseSemaphore() {
	s.semaphore <- struct{}{}
}

// prepareGitCommand resolves the git binary through LookupPath so tests can
// substitute their own resolver.
func prepareGitCommand(ctx context.Context, cwd string, args ...string) (*exec.Cmd, error) {
	binary, err := LookupPath("git")
	if err != nil {
		return nil, fmt.Errorf("git not found in PATH: %w", err)
	}
	// #nosec G204 -- arguments come from internal logic and are not shell interpolated
	cmd := exec.CommandContext(ctx, binary, args...)
	if cwd != "" {
		cmd.Dir = cwd
	}
	return cmd, nil
}

// RunGit executes a git command and optionally trims its output. Exit codes
// listed in okReturncodes are not reported as failures; silent suppresses
// user-facing notifications for the rest.
func (s *Service) RunGit(ctx context.Context, args []string, cwd string, okReturncodes []int, strip, silent bool) string {
	command := "git " + strings.Join(args, " ")
	s.debugf("run: %s (cwd=%s)", command, cwd)

	cmd, err := prepareGitCommand(ctx, cwd, args...)
	if err != nil {
		if !silent {
			s.notifyOnce("git_missing", "Command not found: git", "error")
		}
		s.debugf("error: %v", err)
		return ""
	}

	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			returnCode := exitError.ExitCode()
			if !slices.Contains(okReturncodes, returnCode) {
				if silent {
					s.debugf("error: %s (exit %d, silenced)", command, returnCode)
					return ""
				}
				stderr := strings.TrimSpace(string(exitError.Stderr))
				suffix := fmt.Sprintf(" (exit %d)", returnCode)
				if stderr != "" {
					suffix = ": " + stderr
				}
				key := fmt.Sprintf("git_fail:%s:%s", cwd, command)
				s.notifyOnce(key, fmt.Sprintf("Command failed: %s%s", command, suffix), "error")
				s.debugf("error: %s%s", command, suffix)
				return ""
			}
		} else {
			if !silent {
				s.notifyOnce("git_fail:"+command, fmt.Sprintf("Command failed: %s: %v", command, err), "error")
			}
			s.debugf("error: %s: %v", command, err)
			return ""
		}
	}

	out := string(output)
	if strip {
		out = strings.TrimSpace(out)
	}
	s.debugf("ok: %s", command)
	return out
}

// runGitInput is RunGit with data piped to stdin, used by batch queries.
func (s *Service) runGitInput(ctx context.Context, args []string, cwd, input string, okReturncodes []int) string {
	command := "git " + strings.Join(args, " ")
	s.debugf("run: %s (cwd=%s, stdin=%d bytes)", command, cwd, len(input))

	cmd, err := prepareGitCommand(ctx, cwd, args...)
	if err != nil {
		s.debugf("error: %v", err)
		return ""
	}
	cmd.Stdin = strings.NewReader(input)

	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			if !slices.Contains(okReturncodes, exitError.ExitCode()) {
				s.debugf("error: %s (exit %d)", command, exitError.ExitCode())
				return ""
			}
		} else {
			s.debugf("error: %s: %v", command, err)
			return ""
		}
	}
	return string(output)
}

// FindToplevel returns the working-copy root containing dir, or an error
// when dir is not inside a repository.
func (s *Service) FindToplevel(ctx context.Context, dir string) (string, error) {
	out := s.RunGit(ctx, []string{"rev-parse", "--show-toplevel"}, dir, []int{0}, true, true)
	if out == "" {
		return "", fmt.Errorf("no repository at %s", dir)
	}
	return out, nil
}

// StatusMap queries working-tree status for the repository containing dir.
// It returns a map from absolute path to status plus the repository summary.
// Outside a repository both results are empty; this is not an error.
func (s *Service) StatusMap(ctx context.Context, dir string) (map[string]models.FileStatus, models.RepoInfo) {
	toplevel, err := s.FindToplevel(ctx, dir)
	if err != nil {
		return map[string]models.FileStatus{}, models.RepoInfo{}
	}

	raw := s.RunGit(ctx, []string{"status", "--porcelain=v2", "--branch"}, dir, []int{0}, false, true)
	if raw == "" {
		// With --branch a successful run always prints headers, so an empty
		// result means the command failed (index.lock contention and such).
		s.notify(fmt.Sprintf("git status failed in %s", dir), "warn")
		return map[string]models.FileStatus{}, models.RepoInfo{}
	}
	return parsePorcelainStatus(raw, toplevel)
}

// parsePorcelainStatus turns `git status --porcelain=v2 --branch` output
// into the path -> status map and the repository summary. Paths in the
// output are relative to the working-copy root.
func parsePorcelainStatus(raw, toplevel string) (map[string]models.FileStatus, models.RepoInfo) {
	statuses := make(map[string]models.FileStatus)
	info := models.RepoInfo{}
	unborn := false

	for _, line := range strings.Split(raw, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "# branch.oid "):
			unborn = strings.TrimPrefix(line, "# branch.oid ") == "(initial)"
		case strings.HasPrefix(line, "# branch.head "):
			head := strings.TrimPrefix(line, "# branch.head ")
			if head != "(detached)" {
				info.Branch = head
			}
		case strings.HasPrefix(line, "# branch.ab "):
			// Only present when an upstream is configured.
			parts := strings.Fields(line)
			if len(parts) >= 4 {
				info.Ahead, _ = strconv.Atoi(strings.TrimPrefix(parts[2], "+"))
				info.Behind, _ = strconv.Atoi(strings.TrimPrefix(parts[3], "-"))
			}
		case strings.HasPrefix(line, "? "):
			path := strings.TrimPrefix(line, "? ")
			statuses[joinRepoPath(toplevel, path)] = models.FileStatus{Unstaged: models.StatusUntracked}
		case strings.HasPrefix(line, "1 "):
			// 1 XY sub mH mI mW hH hI path
			parts := strings.SplitN(line, " ", 9)
			if len(parts) == 9 {
				statuses[joinRepoPath(toplevel, parts[8])] = statusFromXY(parts[1])
			}
		case strings.HasPrefix(line, "2 "):
			// 2 XY sub mH mI mW hH hI Xscore path<TAB>origPath
			parts := strings.SplitN(line, " ", 10)
			if len(parts) == 10 {
				path := parts[9]
				if tab := strings.IndexByte(path, '\t'); tab >= 0 {
					path = path[:tab]
				}
				statuses[joinRepoPath(toplevel, path)] = statusFromXY(parts[1])
			}
		case strings.HasPrefix(line, "u "):
			// u XY sub m1 m2 m3 mW h1 h2 h3 path
			parts := strings.SplitN(line, " ", 11)
			if len(parts) == 11 {
				statuses[joinRepoPath(toplevel, parts[10])] = models.FileStatus{
					Staged:   models.StatusConflicted,
					Unstaged: models.StatusConflicted,
				}
			}
		}
	}

	if unborn {
		info.Branch = ""
	}

	for _, st := range statuses {
		if st.Staged != models.StatusNone && st.Staged != models.StatusUntracked {
			info.StagedCount++
		}
		if st.Unstaged == models.StatusModified {
			info.ModifiedCount++
		}
		if st.Unstaged == models.StatusUntracked {
			info.UntrackedCount++
		}
	}

	return statuses, info
}

// statusFromXY converts a porcelain v2 XY pair into the two-sided status.
// The staged side comes from X (index vs HEAD), the unstaged side from Y
// (worktree vs index), independently. Matching add/add or delete/delete
// pairs are treated as conflicts.
func statusFromXY(xy string) models.FileStatus {
	if len(xy) < 2 {
		return models.FileStatus{}
	}
	x, y := xy[0], xy[1]
	if (x == 'A' && y == 'A') || (x == 'D' && y == 'D') || x == 'U' || y == 'U' {
		return models.FileStatus{Staged: models.StatusConflicted, Unstaged: models.StatusConflicted}
	}
	return models.FileStatus{Staged: codeFromByte(x), Unstaged: codeFromByte(y)}
}

func codeFromByte(b byte) models.StatusCode {
	switch b {
	case 'A':
		return models.StatusAdded
	case 'M':
		return models.StatusModified
	case 'D':
		return models.StatusDeleted
	case 'R', 'C':
		return models.StatusRenamed
	case 'T':
		return models.StatusModified
	default:
		return models.StatusNone
	}
}

// joinRepoPath builds the absolute map key. Untracked directories come out
// of porcelain with a trailing slash; strip it so lookups by entry path hit.
func joinRepoPath(toplevel, rel string) string {
	rel = strings.TrimSuffix(rel, "/")
	if toplevel == "" {
		return rel
	}
	return toplevel + "/" + rel
}

// IgnoredPaths runs one check-ignore batch over the candidates and returns
// the set that git ignores. Any failure degrades to "nothing ignored".
func (s *Service) IgnoredPaths(ctx context.Context, dir string, candidates []string) map[string]bool {
	ignored := make(map[string]bool)
	if len(candidates) == 0 {
		return ignored
	}

	input := strings.Join(candidates, "\x00") + "\x00"
	// Exit 1 means no candidate is ignored; that is a normal outcome.
	out := s.runGitInput(ctx, []string{"check-ignore", "--stdin", "-z"}, dir, input, []int{0, 1})
	for _, path := range strings.Split(out, "\x00") {
		if path != "" {
			ignored[path] = true
		}
	}
	return ignored
}

// FileCommits returns up to limit recent commits touching path, newest
// first. Failures degrade to an empty list.
func (s *Service) FileCommits(ctx context.Context, path string, limit int) []models.Commit {
	if limit <= 0 {
		return nil
	}

	s.acquireSemaphore()
	defer s.releaseSemaphore()

	dir := filepath.Dir(path)

	// Unit separator framing keeps subjects with spaces intact.
	format := "--pretty=format:%h\x1f%an\x1f%at\x1f%s"
	raw := s.RunGit(ctx, []string{"log", "--follow", "-n", strconv.Itoa(limit), format, "--", path}, dir, []int{0}, false, true)
	if raw == "" {
		return nil
	}

	var commits []models.Commit
	for _, line := range strings.Split(raw, "\n") {
		fields := strings.Split(line, "\x1f")
		if len(fields) != 4 {
			continue
		}
		ts, err := strconv.ParseInt(fields[2], 10, 64)
		date := ""
		if err == nil {
			date = FormatRelativeTime(time.Unix(ts, 0))
		}
		commits = append(commits, models.Commit{
			Hash:    fields[0],
			Author:  fields[1],
			Date:    date,
			Message: fields[3],
		})
	}
	return commits
}

// FormatRelativeTime renders a timestamp as a short age like "2h ago".
func FormatRelativeTime(t time.Time) string {
	secs := int64(time.Since(t).Seconds())
	if secs < 0 {
		secs = 0
	}
	switch {
	case secs < 60:
		return "now"
	case secs < 3600:
		return fmt.Sprintf("%dm ago", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%dh ago", secs/3600)
	case secs < 604800:
		return fmt.Sprintf("%dd ago", secs/86400)
	case secs < 2592000:
		return fmt.Sprintf("%dw ago", secs/604800)
	case secs < 31536000:
		return fmt.Sprintf("%dmo ago", secs/2592000)
	default:
		return fmt.Sprintf("%dy ago", secs/31536000)
	}
}
