// Package watch notifies when a document file is rewritten on disk, for
// example by the simulator or another editor.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for a burst of events to
// settle before notifying.
const DefaultDebounce = 150 * time.Millisecond

// Handler is called with the watched path once changes have settled.
type Handler func(path string)

// Watcher watches a single file. It watches the containing directory so
// that editors which replace the file by rename are still observed.
type Watcher struct {
	path     string
	debounce time.Duration
	handler  Handler
	log      *slog.Logger

	watcher   *fsnotify.Watcher
	closeOnce sync.Once
}

// New creates a watcher for path. Call Run to start delivering changes.
func New(path string, debounce time.Duration, handler Handler, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{path: abs, debounce: debounce, handler: handler, log: logger, watcher: fw}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Run delivers debounced change notifications until ctx is cancelled or
// the watcher is closed. The handler is always called from this goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	// fire is nil while nothing is pending; a nil channel never delivers.
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("file event", "path", event.Name, "op", event.Op.String())
			fire = time.After(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "path", w.path, "err", err)
		case <-fire:
			fire = nil
			w.handler(w.path)
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
