// Package preview loads and caches the content shown in the preview pane.
// Loading never blocks the UI loop: repeat requests are debounced, finished
// content sits in a small LRU-bounded cache, and slow work (image headers,
// per-file history) runs on worker goroutines whose one-slot result channels
// are polled once per tick. The Scheduler itself is confined to the UI
// goroutine; workers only ever send on their own channel.
package preview

import (
	"context"
	"time"

	"github.com/chmouel/lazytree/internal/models"
)

// Kind classifies what the preview pane is showing.
type Kind uint8

const (
	KindText Kind = iota
	KindImage
	KindBinary
	KindDirectory
	KindArchive
	KindEmpty
	KindTooLarge
	KindError
	KindLoading
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindBinary:
		return "binary"
	case KindDirectory:
		return "directory"
	case KindArchive:
		return "archive"
	case KindEmpty:
		return "empty"
	case KindTooLarge:
		return "too large"
	case KindError:
		return "error"
	case KindLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Content is one finished (or placeholder) preview. Lines carries whatever
// the loader rendered; LineCount is the logical total, which can exceed
// len(Lines) when a loader truncates.
type Content struct {
	Kind      Kind
	Lines     []string
	LineCount int
	Size      int64
	Extension string
	Err       string
	Meta      *FileMeta
	Image     *ImageMeta
	Commits   []models.Commit
}

// CommitLister fetches the recent commits touching a single path.
type CommitLister interface {
	FileCommits(ctx context.Context, path string, limit int) []models.Commit
}

// Options tunes the scheduler. Zero fields fall back to the documented
// defaults, so Options{} is usable as-is.
type Options struct {
	// Debounce is the window in which a repeat request for the same path
	// is dropped.
	Debounce time.Duration
	// CacheSize bounds how many finished previews are kept.
	CacheSize int
	// MaxTextBytes is the size cutoff above which files are not rendered
	// as text.
	MaxTextBytes int64
	// MaxTextLines caps how many lines of a text file are rendered.
	MaxTextLines int
	// MaxHexBytes caps how much of a binary file the hex dump covers.
	MaxHexBytes int
	// CommitCount is how many recent commits to fetch per file.
	CommitCount int
	// ArchiveMembers caps how many archive members are listed.
	ArchiveMembers int
}

func (o Options) normalized() Options {
	if o.Debounce <= 0 {
		o.Debounce = 80 * time.Millisecond
	}
	if o.CacheSize <= 0 {
		o.CacheSize = 10
	}
	if o.MaxTextBytes <= 0 {
		o.MaxTextBytes = 1 << 20
	}
	if o.MaxTextLines <= 0 {
		o.MaxTextLines = 1000
	}
	if o.MaxHexBytes <= 0 {
		o.MaxHexBytes = 4096
	}
	if o.CommitCount <= 0 {
		o.CommitCount = 5
	}
	if o.ArchiveMembers <= 0 {
		o.ArchiveMembers = 200
	}
	return o
}

type imageResult struct {
	path    string
	content *Content
}

type commitsResult struct {
	path    string
	commits []models.Commit
}

// Scheduler owns the preview lifecycle for the pane: it decides when a
// request actually loads, keeps recently shown content cached, and collects
// background results.
type Scheduler struct {
	opts    Options
	commits CommitLister

	current string
	scroll  int

	cache map[string]*Content
	order []string

	lastPath string
	lastAt   time.Time

	imageRx   chan imageResult
	commitsRx chan commitsResult
}

// NewScheduler builds a scheduler. commits may be nil, in which case
// previews carry no history.
func NewScheduler(opts Options, commits CommitLister) *Scheduler {
	return &Scheduler{
		opts:    opts.normalized(),
		commits: commits,
		cache:   make(map[string]*Content),
	}
}

// Request schedules the preview for path. A repeat request for the same path
// inside the debounce window is dropped without touching any state; a
// request for the path already on screen keeps scroll and content as they
// are. Anything else resets the pane, abandons in-flight background work,
// and either serves from cache or loads. An empty path clears the pane.
func (s *Scheduler) Request(ctx context.Context, path string) {
	now := time.Now()
	if s.lastPath == path && now.Sub(s.lastAt) < s.opts.Debounce {
		return
	}
	s.lastPath = path
	s.lastAt = now

	if path == s.current {
		return
	}

	s.scroll = 0
	s.imageRx = nil
	s.commitsRx = nil
	s.current = path

	if path == "" {
		return
	}

	if c, ok := s.cache[path]; ok {
		s.touch(path)
		// A cached placeholder means the decode meant to replace it was
		// superseded before it finished. Kick it off again.
		if c.Kind == KindLoading {
			s.dispatchImage(path)
			if len(c.Commits) == 0 {
				s.dispatchCommits(ctx, path)
			}
		}
		return
	}

	s.load(ctx, path)
}

func (s *Scheduler) load(ctx context.Context, path string) {
	kind, err := detect(path, s.opts.MaxTextBytes)

	var c *Content
	switch kind {
	case KindDirectory:
		c = loadDirectory(path)
	case KindText:
		c = loadText(path, s.opts.MaxTextLines)
	case KindBinary:
		c = loadBinary(path, s.opts.MaxHexBytes)
	case KindArchive:
		c = loadArchive(path, s.opts.ArchiveMembers)
	case KindImage:
		c = loadingPlaceholder(path)
	case KindEmpty:
		c = &Content{Kind: KindEmpty, Extension: pathExtension(path), Meta: readMeta(path)}
	case KindTooLarge:
		c = tooLargeContent(path)
	default:
		c = &Content{Kind: KindError, Err: err.Error()}
	}
	s.insertCache(path, c)

	switch kind {
	case KindImage:
		s.dispatchImage(path)
		s.dispatchCommits(ctx, path)
	case KindText, KindBinary:
		s.dispatchCommits(ctx, path)
	}
}

func tooLargeContent(path string) *Content {
	c := &Content{Kind: KindTooLarge, Extension: pathExtension(path), Meta: readMeta(path)}
	if c.Meta != nil {
		c.Size = c.Meta.Size
	}
	return c
}

func loadingPlaceholder(path string) *Content {
	c := &Content{
		Kind:      KindLoading,
		Lines:     []string{" Loading image..."},
		Extension: pathExtension(path),
		Meta:      readMeta(path),
	}
	if c.Meta != nil {
		c.Size = c.Meta.Size
	}
	return c
}

// dispatchImage decodes the image header off the UI goroutine. The channel
// is buffered so an abandoned worker never blocks on send.
func (s *Scheduler) dispatchImage(path string) {
	rx := make(chan imageResult, 1)
	s.imageRx = rx
	go func() {
		rx <- imageResult{path: path, content: loadImage(path)}
	}()
}

func (s *Scheduler) dispatchCommits(ctx context.Context, path string) {
	if s.commits == nil {
		return
	}
	rx := make(chan commitsResult, 1)
	s.commitsRx = rx
	limit := s.opts.CommitCount
	go func() {
		rx <- commitsResult{path: path, commits: s.commits.FileCommits(ctx, path, limit)}
	}()
}

// insertCache stores content under path, evicting the stalest entry once the
// cache is full. Re-inserting an existing path replaces its content and
// refreshes its recency.
func (s *Scheduler) insertCache(path string, c *Content) {
	if _, ok := s.cache[path]; ok {
		s.cache[path] = c
		s.touch(path)
		return
	}
	if len(s.cache) >= s.opts.CacheSize && len(s.order) > 0 {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.cache, oldest)
	}
	s.cache[path] = c
	s.order = append(s.order, path)
}

func (s *Scheduler) touch(path string) {
	for i, p := range s.order {
		if p == path {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.order = append(s.order, path)
}

// Content returns what the pane should draw, nil before the first finished
// load.
func (s *Scheduler) Content() *Content {
	if s.current == "" {
		return nil
	}
	return s.cache[s.current]
}

// CurrentPath returns the path the pane is previewing.
func (s *Scheduler) CurrentPath() string {
	return s.current
}

// Scroll returns the current scroll offset in lines.
func (s *Scheduler) Scroll() int {
	return s.scroll
}

func (s *Scheduler) ScrollUp(n int) {
	s.scroll -= n
	if s.scroll < 0 {
		s.scroll = 0
	}
}

func (s *Scheduler) ScrollDown(n int) {
	c := s.Content()
	if c == nil {
		return
	}
	max := len(c.Lines) - 1
	if max < 0 {
		max = 0
	}
	s.scroll += n
	if s.scroll > max {
		s.scroll = max
	}
}

// CheckBackground collects any finished background work. Call once per UI
// tick; the return value says whether the pane needs a redraw. Results for
// paths no longer cached or current are dropped.
func (s *Scheduler) CheckBackground() bool {
	changed := false
	if s.imageRx != nil {
		select {
		case res := <-s.imageRx:
			s.imageRx = nil
			_, cached := s.cache[res.path]
			if cached || res.path == s.current {
				// History may have landed while the decode ran; keep it.
				if old := s.cache[res.path]; old != nil && len(res.content.Commits) == 0 {
					res.content.Commits = old.Commits
				}
				s.insertCache(res.path, res.content)
				changed = true
			}
		default:
		}
	}
	if s.commitsRx != nil {
		select {
		case res := <-s.commitsRx:
			s.commitsRx = nil
			if c, ok := s.cache[res.path]; ok {
				c.Commits = res.commits
				if len(res.commits) > 0 {
					changed = true
				}
			}
		default:
		}
	}
	return changed
}

// Invalidate drops all cached content and the current path. The next
// Request reloads from disk, even for the path that was just showing.
func (s *Scheduler) Invalidate() {
	s.cache = make(map[string]*Content)
	s.order = nil
	s.current = ""
	s.scroll = 0
	s.lastPath = ""
	s.lastAt = time.Time{}
	s.imageRx = nil
	s.commitsRx = nil
}
