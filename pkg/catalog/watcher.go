package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Event carries the result of reloading a watched field set.
// Exactly one of FieldSet and Err is set.
type Event struct {
	Path     string
	FieldSet *FieldSet
	Err      error
}

// Watcher reloads a field-set file whenever it changes on disk.
//
// The parent directory is watched rather than the file itself, so editors
// that save by writing a temp file and renaming it are still observed.
type Watcher struct {
	path      string
	watcher   *fsnotify.Watcher
	eventChan chan Event
	logger    *slog.Logger
	stopCh    chan struct{}
	doneCh    chan struct{}

	mu      sync.Mutex
	started bool
	stopped bool
}

// NewWatcher creates a watcher for the field-set file at path.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if _, err := FormatFromPath(path); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch path: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		path:      absPath,
		watcher:   fsw,
		eventChan: make(chan Event, 16),
		logger:    logger.With(slog.String("component", "catalog-watcher"), slog.String("path", absPath)),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}, nil
}

// Start begins watching. Events stop when ctx is cancelled or Stop is called.
// Calls after the first, or after Stop, are no-ops.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return
	}
	w.started = true
	go w.eventLoop(ctx)
	w.logger.Info("catalog watcher started")
}

// Stop stops the watcher and releases resources. It is safe to call without
// Start and more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.stopCh)
		if !w.started {
			close(w.eventChan)
			close(w.doneCh)
		}
	}
	w.mu.Unlock()

	<-w.doneCh
	return w.watcher.Close()
}

// Events returns the channel of reload results. It is closed when the watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.eventChan
}

func (w *Watcher) eventLoop(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.eventChan)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("catalog watcher stopped (context cancelled)")
			return
		case <-w.stopCh:
			w.logger.Info("catalog watcher stopped")
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				w.logger.Warn("catalog watcher event channel closed")
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.logger.Warn("catalog watcher error channel closed")
				return
			}
			w.logger.Error("catalog watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		w.logger.Debug("ignoring event", "op", event.Op.String())
		return
	}

	fs, err := Load(w.path)
	if err != nil {
		w.logger.Warn("field set reload failed", "error", err)
	} else {
		w.logger.Debug("field set reloaded", "properties", len(fs.Properties))
	}

	select {
	case w.eventChan <- Event{Path: w.path, FieldSet: fs, Err: err}:
	case <-ctx.Done():
	case <-w.stopCh:
	}
}
