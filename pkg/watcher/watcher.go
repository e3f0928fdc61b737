package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher calls OnChange after a file has been written, created or
// replaced. It watches the parent directory so editors that save through a
// rename are still seen.
type FileWatcher struct {
	path      string
	onChange  func(path string)
	debouncer *Debouncer
	fs        *fsnotify.Watcher
	log       *slog.Logger
}

// NewFileWatcher starts watching path. Changes within debounce of each
// other produce one OnChange call.
func NewFileWatcher(path string, debounce time.Duration, onChange func(path string), log *slog.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if log == nil {
		log = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &FileWatcher{
		path:      abs,
		onChange:  onChange,
		debouncer: NewDebouncer(debounce),
		fs:        fw,
		log:       log,
	}, nil
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string {
	return w.path
}

// Run delivers change notifications until ctx is done or the watcher is
// closed. It closes the underlying watcher on return.
func (w *FileWatcher) Run(ctx context.Context) error {
	defer w.fs.Close()
	defer w.debouncer.Cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.log.Debug("config changed", "path", w.path, "op", ev.Op.String())
				w.debouncer.Trigger(func() { w.onChange(w.path) })
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "path", w.path, "error", err)
		}
	}
}

// Close stops the watcher without a context.
func (w *FileWatcher) Close() error {
	w.debouncer.Cancel()
	return w.fs.Close()
}
