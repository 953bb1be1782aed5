package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports external changes to the file that backs one key, so a
// second process (the CLI, an editor) writing the workspace is picked up.
type Watcher struct {
	watcher  *fsnotify.Watcher
	target   string
	debounce time.Duration
	onChange func()
	logger   *zap.Logger
}

// NewWatcher watches the file backing key in backend's directory.
// onChange runs on the watcher goroutine after writes settle.
func NewWatcher(backend *File, key string, onChange func(), logger *zap.Logger) (*Watcher, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	// the directory, not the file: atomic renames replace the inode
	if err := fw.Add(backend.Dir()); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", backend.Dir(), err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		watcher:  fw,
		target:   filepath.Clean(backend.PathFor(key)),
		debounce: 150 * time.Millisecond,
		onChange: onChange,
		logger:   logger,
	}, nil
}

// Run delivers change notifications until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.logger.Debug("Workspace file changed on disk", zap.String("path", w.target))
			w.onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", zap.Error(err))
		}
	}
}
