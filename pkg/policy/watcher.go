package policy

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig contains configuration for the threshold file watcher.
type WatcherConfig struct {
	// Path is the threshold document to watch.
	Path string

	// DebounceInterval is the quiet period required after a change before a
	// reload is triggered, preventing reload storms from editors that write
	// in multiple passes.
	// Default: 200ms
	DebounceInterval time.Duration
}

// DefaultWatcherConfig returns the default watcher configuration for the
// given path.
func DefaultWatcherConfig(path string) *WatcherConfig {
	return &WatcherConfig{
		Path:             path,
		DebounceInterval: 200 * time.Millisecond,
	}
}

// Watcher reloads the store when the threshold document changes on disk.
// A failed reload keeps the previous configuration active; the watcher keeps
// running and retries on the next change.
type Watcher struct {
	store   *Store
	config  *WatcherConfig
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	mu      sync.Mutex
	pending *time.Timer
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher bound to the store.
func NewWatcher(store *Store, config *WatcherConfig) (*Watcher, error) {
	if config == nil || config.Path == "" {
		return nil, fmt.Errorf("watcher config with a path is required")
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 200 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		store:   store,
		config:  config,
		watcher: fsw,
		logger:  slog.Default().With("component", "policy.watcher"),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start begins watching the threshold document. It returns immediately; the
// watch loop runs until Stop is called or the context is cancelled.
//
// The parent directory is watched rather than the file itself so that
// atomic-rename writes (the common editor and deploy pattern) are observed.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.config.Path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.logger.Info("threshold watcher started",
		"path", w.config.Path,
		"debounce", w.config.DebounceInterval,
	)

	go w.loop(ctx)
	return nil
}

// loop consumes fsnotify events until shutdown.
func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)

	target := filepath.Clean(w.config.Path)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// scheduleReload (re)arms the debounce timer.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.config.DebounceInterval, func() {
		if err := w.store.ReloadFromFile(w.config.Path); err != nil {
			// Already logged by the store; nothing else to do, the
			// previous config stays active.
			return
		}
	})
}

// Stop shuts down the watcher. It is safe to call once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	if w.pending != nil {
		w.pending.Stop()
	}
	w.mu.Unlock()

	close(w.stopCh)
	err := w.watcher.Close()
	<-w.doneCh

	w.logger.Info("threshold watcher stopped")
	return err
}
