// Package watcher reports settled changes to a single file.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors one file for changes.
//
// The parent directory is watched rather than the file itself so that
// editors which save by writing a temp file and renaming it over the
// original keep being observed.
type Watcher struct {
	logger  *slog.Logger
	opts    Options
	path    string
	watcher *fsnotify.Watcher

	mu    sync.Mutex // protects timer
	timer *time.Timer

	events chan Event
	errors chan error
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// New creates a watcher for path. The file's directory must exist; the file
// itself may appear later.
func New(logger *slog.Logger, path string, opts Options) (*Watcher, error) {
	opts.setDefaults()
	path = filepath.Clean(path)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	return &Watcher{
		logger:  logger,
		opts:    opts,
		path:    path,
		watcher: fw,
		events:  make(chan Event, 10),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Start processes file system notifications until ctx is canceled or Stop
// is called. It blocks.
func (w *Watcher) Start(ctx context.Context) error {
	w.wg.Add(1)
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.done:
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.logger.Debug("watched file touched", "path", w.path, "op", event.Op.String())
				w.startSettling()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			select {
			case w.errors <- err:
			default:
				w.logger.Warn("dropping watcher error", "error", err)
			}
		}
	}
}

// startSettling (re)arms the settle timer.
func (w *Watcher) startSettling() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.SettleDelay, w.settled)
}

// settled emits the file's state once no change arrived for SettleDelay.
func (w *Watcher) settled() {
	event := Event{Type: EventRemoved, Path: w.path}
	if info, err := os.Stat(w.path); err == nil {
		event = Event{
			Type:    EventChanged,
			Path:    w.path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
	}

	select {
	case w.events <- event:
	case <-w.done:
	}
}

// Events returns the channel for receiving settled events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel for receiving watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stop stops the watcher and releases resources. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.once.Do(func() {
		close(w.done)

		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()

		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
