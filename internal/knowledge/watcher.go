package knowledge

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads an agent's knowledge base when its file changes on disk.
// A malformed file logs an error and keeps the previous snapshot, so a bad
// edit never blanks a live knowledge base.
type Watcher struct {
	loader  *Loader
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	done    chan struct{}
}

// NewWatcher creates a watcher over the loader's directory.
func NewWatcher(loader *Loader, logger *zap.Logger) (*Watcher, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fsw.Add(loader.dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", loader.dir, err)
	}

	return &Watcher{
		loader:  loader,
		watcher: fsw,
		logger:  logger,
		done:    make(chan struct{}),
	}, nil
}

// Start consumes filesystem events until ctx is cancelled or Close is
// called. Runs in its own goroutine.
func (w *Watcher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.done:
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				w.handleEvent(ctx, event)
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("knowledge watcher error", zap.Error(err))
			}
		}
	}()
}

// handleEvent reloads the changed file on write or create.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
		return
	}
	if !isYAMLFile(event.Name) {
		return
	}

	if err := w.loader.LoadFile(ctx, event.Name); err != nil {
		w.logger.Error("knowledge reload failed, keeping previous snapshot",
			zap.String("file", event.Name),
			zap.Error(err),
		)
		return
	}
	w.logger.Info("knowledge base reloaded", zap.String("file", event.Name))
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
