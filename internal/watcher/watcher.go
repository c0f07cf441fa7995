// Package watcher notifies when the state file changes on disk, so the
// watch command can re-render the dashboard after another process (or
// another terminal) mutates the collection.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a single file for changes
type Watcher struct {
	filePath  string
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	stopCh    chan struct{}
}

// New creates a watcher for the given file. The parent directory is
// watched rather than the file itself, since atomic rewrites replace the
// inode and would silently detach a direct watch.
func New(filePath string, debounceMs int) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		filePath:  filePath,
		watcher:   fsWatcher,
		debouncer: NewDebouncer(debounceMs),
		stopCh:    make(chan struct{}),
	}, nil
}

// Start begins watching
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.filePath)); err != nil {
		return err
	}

	go w.processEvents(ctx)

	slog.Info("watching state file", "path", w.filePath)
	return nil
}

// Events returns the channel of debounced change notifications
func (w *Watcher) Events() <-chan time.Time {
	return w.debouncer.Events()
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	close(w.stopCh)
	w.debouncer.Stop()
	return w.watcher.Close()
}

func (w *Watcher) processEvents(ctx context.Context) {
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
			if filepath.Clean(event.Name) != filepath.Clean(w.filePath) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.debouncer.Trigger()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}
