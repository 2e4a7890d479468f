// Package services holds the background helpers the app model drives from
// its tick loop.
package services

import (
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchService watches the tree's current root directory and coalesces
// filesystem activity into a single pending signal. The UI never blocks on
// it: the run goroutine fills a one-slot channel and the tick loop drains
// it through TryEvent.
type WatchService struct {
	Started     bool
	Root        string
	Events      chan struct{}
	Done        chan struct{}
	Mu          sync.Mutex
	Watcher     *fsnotify.Watcher
	LastRefresh time.Time
	debounce    time.Duration
	logf        func(string, ...any)
}

// NewWatchService creates a stopped watch service. debounce is the minimum
// gap between two refreshes triggered by watcher activity.
func NewWatchService(debounce time.Duration, logf func(string, ...any)) *WatchService {
	return &WatchService{
		debounce: debounce,
		logf:     logf,
	}
}

// Start begins watching root. Watching is flat: only the root itself is
// registered, which is enough because a reload re-reads every expanded
// level anyway. Returns false without error when already started.
func (w *WatchService) Start(root string) (bool, error) {
	if w.Started {
		return false, nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return false, err
	}

	w.Started = true
	w.Watcher = watcher
	w.Events = make(chan struct{}, 1)
	w.Done = make(chan struct{})
	w.addWatchDir(root)

	go w.run()
	return true, nil
}

// Stop stops the watcher and closes channels.
func (w *WatchService) Stop() {
	if !w.Started {
		return
	}
	close(w.Done)
	w.Started = false
	if w.Watcher != nil {
		_ = w.Watcher.Close()
	}
}

// Rewatch moves the watch to a new root after navigation. The old root is
// dropped first so events from the abandoned directory stop arriving.
func (w *WatchService) Rewatch(root string) {
	if !w.Started || root == w.Root {
		return
	}
	w.Mu.Lock()
	if w.Root != "" {
		if err := w.Watcher.Remove(w.Root); err != nil {
			w.debugf("watcher remove failed for %s: %v", w.Root, err)
		}
		w.Root = ""
	}
	w.Mu.Unlock()
	w.addWatchDir(root)
}

// Signal records pending activity. Non-blocking: when a signal is already
// pending the new one coalesces into it.
func (w *WatchService) Signal() {
	select {
	case <-w.Done:
		return
	default:
	}
	select {
	case w.Events <- struct{}{}:
	default:
	}
}

// TryEvent drains the pending signal if one is due. Inside the debounce
// window the signal is re-armed rather than consumed, so a burst of events
// still ends in exactly one refresh once the window passes.
func (w *WatchService) TryEvent(now time.Time) bool {
	if !w.Started {
		return false
	}
	select {
	case <-w.Events:
	default:
		return false
	}
	if !w.LastRefresh.IsZero() && now.Sub(w.LastRefresh) < w.debounce {
		w.Signal()
		return false
	}
	w.LastRefresh = now
	return true
}

func (w *WatchService) run() {
	for {
		select {
		case <-w.Done:
			return
		case event, ok := <-w.Watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.Signal()
		case err, ok := <-w.Watcher.Errors:
			if !ok {
				return
			}
			w.debugf("watcher error: %v", err)
		}
	}
}

func (w *WatchService) addWatchDir(path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	w.Mu.Lock()
	defer w.Mu.Unlock()

	if err := w.Watcher.Add(path); err != nil {
		w.debugf("watcher add failed for %s: %v", path, err)
		return
	}
	w.Root = path
}

func (w *WatchService) debugf(format string, args ...any) {
	if w.logf == nil {
		return
	}
	w.logf(format, args...)
}
