// Package app wires the tree store, preview scheduler, favorites, and the
// filesystem watcher into the Bubble Tea model that drives the explorer.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazytree/internal/app/services"
	"github.com/chmouel/lazytree/internal/config"
	"github.com/chmouel/lazytree/internal/favorites"
	"github.com/chmouel/lazytree/internal/git"
	"github.com/chmouel/lazytree/internal/log"
	"github.com/chmouel/lazytree/internal/models"
	"github.com/chmouel/lazytree/internal/preview"
	"github.com/chmouel/lazytree/internal/theme"
	"github.com/chmouel/lazytree/internal/tree"
)

// Message types for the Bubble Tea app
type (
	tickMsg           time.Time
	editorFinishedMsg struct{ err error }
)

type inputMode int

const (
	modeNormal inputMode = iota
	modeFilter
	modePrompt
	modeConfirm
	modeFavorites
	modeHelp
)

type promptKind int

const (
	promptNone promptKind = iota
	promptNewFile
	promptNewDir
	promptRename
)

type clipboardOp int

const (
	clipNone clipboardOp = iota
	clipCopy
	clipCut
)

// clipboardState is the app-internal cut/copy buffer, distinct from the
// system clipboard that yank writes to.
type clipboardState struct {
	paths []string
	op    clipboardOp
}

const (
	keyEnter = "enter"
	keyEsc   = "esc"

	tickInterval  = 100 * time.Millisecond
	watchDebounce = 500 * time.Millisecond

	// Status messages stay visible for this many ticks (~2s).
	statusVisibleTicks = 20

	treeRatioMin  = 15
	treeRatioMax  = 60
	treeRatioStep = 5
)

// Model is the main application model
type Model struct {
	// Configuration
	config *config.AppConfig
	theme  *theme.Theme

	// Services
	git     *git.Service
	tree    *tree.Store
	preview *preview.Scheduler
	watcher *services.WatchService
	favs    *favorites.Store

	// UI Components
	filterInput textinput.Model
	promptInput textinput.Model
	helpView    viewport.Model

	// State
	mode          inputMode
	cursor        int
	scrollOffset  int
	treeRatio     int
	filterQuery   string
	preFilterPath string
	favCursor     int
	clipboard     clipboardState
	statusMessage string
	statusTicks   int
	windowWidth   int
	windowHeight  int

	// Prompt and confirm callbacks
	prompt         promptKind
	promptTitle    string
	promptSubmit   func(string) (tea.Cmd, bool)
	confirmAction  func() tea.Cmd
	confirmMessage string

	// Context
	ctx    context.Context
	cancel context.CancelFunc

	// Exit
	selectedPath string
	quitting     bool
}

// New creates the application model rooted at startDir. The root is read
// eagerly so the first frame already has entries and a preview.
func New(cfg *config.AppConfig, startDir string) (*Model, error) {
	ctx, cancel := context.WithCancel(context.Background())

	notify := func(msg string, severity string) {
		log.Printf("git [%s]: %s", severity, msg)
	}
	notifyOnce := func(key string, msg string, severity string) {
		log.Printf("git [%s] %s: %s", severity, key, msg)
	}
	gitService := git.NewService(notify, notifyOnce)

	fi, err := os.Stat(startDir)
	if err != nil {
		cancel()
		return nil, err
	}
	if !fi.IsDir() {
		cancel()
		return nil, fmt.Errorf("not a directory: %s", startDir)
	}
	store := tree.NewStore(gitService, cfg.ShowHidden)
	store.Open(ctx, startDir)

	scheduler := preview.NewScheduler(preview.Options{
		Debounce:     time.Duration(cfg.PreviewDebounceMs) * time.Millisecond,
		CacheSize:    cfg.PreviewCacheSize,
		MaxTextBytes: int64(cfg.MaxPreviewBytes),
		MaxTextLines: cfg.MaxPreviewLines,
		MaxHexBytes:  cfg.MaxHexBytes,
		CommitCount:  cfg.CommitCount,
	}, gitService)

	favs, err := favorites.Load(cfg.FavoritesPath())
	if err != nil {
		// The store still carries its path, so saves keep working.
		log.Printf("load favorites: %v", err)
	}

	var watcher *services.WatchService
	if cfg.Watch {
		watcher = services.NewWatchService(watchDebounce, log.Printf)
		if _, err := watcher.Start(store.Root()); err != nil {
			log.Printf("watch start failed: %v", err)
			watcher = nil
		}
	}

	filterInput := textinput.New()
	filterInput.Placeholder = "name..."
	filterInput.Prompt = "/"
	filterInput.Width = 40

	promptInput := textinput.New()
	promptInput.Width = 40

	m := &Model{
		config:      cfg,
		theme:       theme.GetTheme(cfg.Theme),
		git:         gitService,
		tree:        store,
		preview:     scheduler,
		watcher:     watcher,
		favs:        favs,
		filterInput: filterInput,
		promptInput: promptInput,
		helpView:    viewport.New(40, 20),
		treeRatio:   cfg.TreeRatio,
		ctx:         ctx,
		cancel:      cancel,
	}
	m.requestPreview()
	return m, nil
}

// Init starts the tick loop
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setWindowSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeFilter:
			return m.handleFilterKey(msg)
		case modePrompt:
			return m.handlePromptKey(msg)
		case modeConfirm:
			return m.handleConfirmKey(msg)
		case modeFavorites:
			return m.handleFavoritesKey(msg)
		case modeHelp:
			return m.handleHelpKey(msg)
		default:
			return m.handleNormalKey(msg)
		}

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tickMsg:
		return m, m.handleTick(time.Time(msg))

	case editorFinishedMsg:
		m.handleEditorFinished(msg.err)
		return m, nil
	}

	return m, nil
}

// handleTick drains background work once per interval: finished preview
// loads, watcher events, and the status message countdown.
func (m *Model) handleTick(now time.Time) tea.Cmd {
	m.preview.CheckBackground()

	if m.watcher != nil && m.watcher.TryEvent(now) {
		m.reloadTree()
		m.preview.Invalidate()
		m.requestPreview()
	}

	if m.statusTicks > 0 {
		m.statusTicks--
		if m.statusTicks == 0 {
			m.statusMessage = ""
		}
	}

	return tickCmd()
}

func (m *Model) handleEditorFinished(err error) {
	if err != nil {
		m.setStatus("Editor failed: " + err.Error())
	}
	m.reloadTree()
	m.preview.Invalidate()
	m.requestPreview()
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.selectedPath = m.tree.Root()
	if m.watcher != nil {
		m.watcher.Stop()
	}
	m.cancel()
	return tea.Quit
}

// GetSelectedPath returns the directory the explorer was rooted at on exit,
// for shell integration.
func (m *Model) GetSelectedPath() string {
	return m.selectedPath
}

// Close releases background resources. Safe to call after the program has
// exited, including when quit already stopped them.
func (m *Model) Close() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
	m.cancel()
}

func (m *Model) setStatus(msg string) {
	m.statusMessage = msg
	m.statusTicks = statusVisibleTicks
}

// visibleEntries returns the tree indexes the filter lets through. With no
// filter active it is the identity list; the cursor always addresses this
// filtered list, never the tree directly.
func (m *Model) visibleEntries() []int {
	entries := m.tree.Entries()
	if m.filterQuery == "" {
		indexes := make([]int, len(entries))
		for i := range entries {
			indexes[i] = i
		}
		return indexes
	}
	query := strings.ToLower(m.filterQuery)
	indexes := make([]int, 0, len(entries))
	for i, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Name), query) {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

// selectedIndex maps the cursor back to a tree index, or -1 when the
// filtered view is empty.
func (m *Model) selectedIndex() int {
	vis := m.visibleEntries()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return -1
	}
	return vis[m.cursor]
}

func (m *Model) selectedEntry() *models.Entry {
	idx := m.selectedIndex()
	if idx < 0 {
		return nil
	}
	return m.tree.At(idx)
}

// currentDir is where file operations land: the selected directory itself,
// a file's parent, or the root when nothing is selected.
func (m *Model) currentDir() string {
	entry := m.selectedEntry()
	if entry == nil {
		return m.tree.Root()
	}
	if entry.IsDir {
		return entry.Path
	}
	return filepath.Dir(entry.Path)
}

func (m *Model) requestPreview() {
	entry := m.selectedEntry()
	if entry == nil {
		m.preview.Request(m.ctx, "")
		return
	}
	m.preview.Request(m.ctx, entry.Path)
}

func (m *Model) clampCursor() {
	vis := m.visibleEntries()
	if len(vis) == 0 {
		m.cursor = 0
		m.scrollOffset = 0
		return
	}
	if m.cursor >= len(vis) {
		m.cursor = len(vis) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.adjustScroll()
}

// adjustScroll keeps the cursor inside the visible window of the tree pane.
func (m *Model) adjustScroll() {
	visible := m.treeVisibleRows()
	if visible <= 0 {
		return
	}
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	} else if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// repositionCursorTo points the cursor at the entry with the given path.
// Paths survive reloads where raw indexes do not.
func (m *Model) repositionCursorTo(path string) {
	if path == "" {
		m.clampCursor()
		return
	}
	for pos, idx := range m.visibleEntries() {
		if m.tree.At(idx).Path == path {
			m.cursor = pos
			m.adjustScroll()
			return
		}
	}
	m.clampCursor()
}

func (m *Model) reloadTree() {
	entry := m.selectedEntry()
	keep := ""
	if entry != nil {
		keep = entry.Path
	}
	m.tree.Reload(m.ctx)
	m.repositionCursorTo(keep)
}

func (m *Model) clearFilter() {
	m.filterQuery = ""
	m.filterInput.SetValue("")
	m.preFilterPath = ""
}
