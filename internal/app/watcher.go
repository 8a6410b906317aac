package app

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	defaultDebounceMs   = 500
	defaultPollInterval = 30 * time.Second

	// ownWriteGrace is how long after one of our own saves fsnotify events
	// are attributed to us rather than to an external writer.
	ownWriteGrace = 2 * time.Second
)

// StoreChangedParams is the payload for notifications/store_changed.
type StoreChangedParams struct {
	ChangedFiles []string `json:"changed_files"`
}

// Watcher watches the data directory for writes to the JSON store files made
// by someone other than this process (hand edits, the cloud-sync exporter)
// and pushes a store_changed notification so the UI can reload. It is an
// observer only: it is not part of the durability contract.
type Watcher struct {
	dir          string
	isStoreFile  func(name string) bool
	pushFunc     func(method string, params any) error
	logger       *log.Logger
	debounceMs   int
	pollInterval time.Duration

	mu            sync.Mutex
	pending       map[string]bool
	lastOwnWrite  time.Time
	lastPollScan  map[string]time.Time
	debounceTimer *time.Timer
	watcher       *fsnotify.Watcher
	useFsnotify   bool
	stopCh        chan struct{}
	doneCh        chan struct{}
	pushMu        sync.Mutex // serializes flush to prevent duplicate pushes
}

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithWatcherPollInterval sets the fallback poll interval.
func WithWatcherPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.pollInterval = d }
}

// NewWatcher creates a watcher over dir. isStoreFile decides which file
// names count as store content (section files and the monolith); pushFunc is
// called with method "notifications/store_changed".
func NewWatcher(dir string, isStoreFile func(name string) bool, pushFunc func(method string, params any) error, logger *log.Logger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		dir:          dir,
		isStoreFile:  isStoreFile,
		pushFunc:     pushFunc,
		logger:       logger,
		debounceMs:   defaultDebounceMs,
		pollInterval: defaultPollInterval,
		pending:      make(map[string]bool),
		lastPollScan: make(map[string]time.Time),
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Start starts the file watcher and fallback poll. Returns when ctx is
// cancelled. If fsnotify fails to initialize, falls back to poll-only mode.
func (w *Watcher) Start(ctx context.Context) {
	defer close(w.doneCh)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Printf("Watcher: fsnotify init failed (%v), using poll-only", err)
		w.useFsnotify = false
	} else {
		w.watcher = watcher
		w.useFsnotify = true
		if err := watcher.Add(w.dir); err != nil {
			w.logger.Printf("Watcher: fsnotify add %s failed (%v), using poll-only", w.dir, err)
			_ = watcher.Close()
			w.watcher = nil
			w.useFsnotify = false
		}
	}

	if w.useFsnotify {
		defer w.watcher.Close()
		go w.watchLoop(ctx)
	}

	w.pollLoop(ctx)
}

// Stop signals the watcher to stop. Call after cancelling the context passed to Start.
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

// Trigger implements Triggerable. The service pokes it after every write so
// the watcher can attribute the following fsnotify events to this process
// instead of reporting our own saves back to the UI.
func (w *Watcher) Trigger() {
	w.mu.Lock()
	w.lastOwnWrite = time.Now()
	w.pending = make(map[string]bool)
	w.mu.Unlock()
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name := filepath.Base(event.Name)
			if strings.HasSuffix(name, ".tmp") || !w.isStoreFile(name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.noteChange(name)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) noteChange(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if time.Since(w.lastOwnWrite) < ownWriteGrace {
		return
	}
	w.pending[name] = true
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(time.Duration(w.debounceMs)*time.Millisecond, w.flush)
}

func (w *Watcher) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			if !w.useFsnotify {
				w.scan()
			}
			w.flush()
		}
	}
}

// scan is the poll-only fallback: compare store-file mtimes against the
// previous pass and note anything that moved.
func (w *Watcher) scan() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || !w.isStoreFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		w.mu.Lock()
		prev, seen := w.lastPollScan[e.Name()]
		w.lastPollScan[e.Name()] = info.ModTime()
		w.mu.Unlock()
		if seen && info.ModTime().After(prev) {
			w.noteChange(e.Name())
		}
	}
}

func (w *Watcher) flush() {
	w.pushMu.Lock()
	defer w.pushMu.Unlock()

	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	changed := make([]string, 0, len(w.pending))
	for name := range w.pending {
		changed = append(changed, name)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	if w.pushFunc == nil {
		return
	}
	if err := w.pushFunc("notifications/store_changed", StoreChangedParams{ChangedFiles: changed}); err != nil {
		w.logger.Printf("Watcher: push store_changed failed: %v", err)
	}
}
