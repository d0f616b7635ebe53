// Package watcher re-runs a callback when any of a set of files changes.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is zero.
const DefaultDebounce = 200 * time.Millisecond

// ErrAlreadyRunning is returned when Watch is called on a running watcher.
var ErrAlreadyRunning = errors.New("watcher already running")

// Config controls which files are watched and how events are coalesced.
type Config struct {
	// Paths are the files to watch. Their parent directories are watched so
	// that editors replacing a file by rename are still seen.
	Paths []string

	// Debounce is the quiet period after the last event before the callback runs.
	Debounce time.Duration
}

// =============================================================================
// Watcher
// =============================================================================

// Watcher watches a fixed set of files.
type Watcher struct {
	fsw      *fsnotify.Watcher
	logger   *slog.Logger
	files    map[string]bool
	dirs     []string
	debounce *Debouncer

	mu      sync.Mutex
	running bool
}

// New creates a watcher for cfg.Paths.
func New(cfg Config, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if len(cfg.Paths) == 0 {
		return nil, errors.New("no paths to watch")
	}

	files := make(map[string]bool, len(cfg.Paths))
	dirSet := make(map[string]bool)
	var dirs []string
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", p, err)
		}
		files[abs] = true
		if dir := filepath.Dir(abs); !dirSet[dir] {
			dirSet[dir] = true
			dirs = append(dirs, dir)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsw:      fsw,
		logger:   logger,
		files:    files,
		dirs:     dirs,
		debounce: NewDebouncer(cfg.Debounce),
	}, nil
}

// Watch blocks until ctx is cancelled, calling onChange after each burst of
// writes, creates, renames or removals of a watched file. The watcher is
// closed when Watch returns.
func (w *Watcher) Watch(ctx context.Context, onChange func()) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return ErrAlreadyRunning
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.debounce.Stop()
		if err := w.fsw.Close(); err != nil {
			w.logger.Error("failed to close watcher", "error", err)
		}
	}()

	for _, dir := range w.dirs {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %q: %w", dir, err)
		}
	}

	w.logger.Info("watching parameter files", "files", len(w.files), "directories", len(w.dirs))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file event", "path", event.Name, "op", event.Op.String())
			w.debounce.Trigger(onChange)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

// =============================================================================
// Debouncer
// =============================================================================

// Debouncer coalesces rapid triggers and runs only the latest callback once
// the interval has passed without another trigger.
type Debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	stopped  bool
}

// NewDebouncer creates a new debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger (re)starts the quiet period; callback runs when it elapses.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			callback()
		}
	})
}

// Stop cancels any pending callback. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
