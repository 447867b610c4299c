// Package watch re-runs an action when record files change in a directory.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Action is run after a burst of matching changes settles.
type Action func(ctx context.Context) error

// Watcher watches one directory and debounces change events.
type Watcher struct {
	dir      string
	debounce time.Duration
	match    func(name string) bool
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
}

// New creates a Watcher for dir. Only events for names accepted by match
// trigger the action.
func New(dir string, debounce time.Duration, match func(name string) bool, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		match:    match,
		logger:   logger,
		watcher:  fw,
	}, nil
}

// Run blocks until ctx is cancelled, calling action once per settled burst
// of changes. Actions never overlap. Action errors are logged and watching
// continues. The underlying watcher is closed on return.
func (w *Watcher) Run(ctx context.Context, action Action) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	w.logger.Info("Watching directory", zap.String("dir", w.dir), zap.Duration("debounce", w.debounce))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Watcher stopped", zap.String("dir", w.dir))
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("Change detected",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", zap.Error(err))

		case <-timer.C:
			if err := action(ctx); err != nil {
				w.logger.Error("Action failed", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return w.match == nil || w.match(filepath.Base(event.Name))
}
