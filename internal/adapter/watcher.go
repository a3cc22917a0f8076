package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	m "cleandesigner.dev/pkg/cleandesigner/internal/model"
)

// DefaultWatchDebounce is how long file events are collected before a batch is delivered.
const DefaultWatchDebounce = 300 * time.Millisecond

// DirectoryWatcher reports changed file names inside a directory.
type DirectoryWatcher interface {
	// Watch blocks until ctx is done, calling onChange with the base names of
	// files that were created or written, batched per debounce window.
	Watch(ctx context.Context, dir m.Path, onChange func(names []string)) error
}

// FSNotifyWatcher implements DirectoryWatcher with fsnotify.
type FSNotifyWatcher struct {
	debounce time.Duration
}

// NewFSNotifyWatcher constructs a watcher that batches events for debounce.
func NewFSNotifyWatcher(debounce time.Duration) *FSNotifyWatcher {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	return &FSNotifyWatcher{debounce: debounce}
}

// Watch watches dir (non-recursively) until ctx is cancelled.
func (w *FSNotifyWatcher) Watch(ctx context.Context, dir m.Path, onChange func(names []string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	defer func() {
		if closeErr := watcher.Close(); closeErr != nil {
			slog.Error("Failed to close watcher", "error", closeErr)
		}
	}()

	if err := watcher.Add(string(dir)); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	slog.Info("watching directory", "dir", dir, "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			pending[filepath.Base(event.Name)] = struct{}{}

			timer.Reset(w.debounce)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			slog.Error("Watcher error", "dir", dir, "error", watchErr)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}

			names := make([]string, 0, len(pending))
			for name := range pending {
				names = append(names, name)
			}

			sort.Strings(names)
			clear(pending)

			slog.Debug("watch batch", "dir", dir, "files", names)
			onChange(names)
		}
	}
}
