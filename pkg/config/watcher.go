package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// PolicyWatcher watches respmask.yaml and triggers a reload after writes.
type PolicyWatcher struct {
	watcher  *fsnotify.Watcher
	file     string
	debounce time.Duration
	reload   func(ctx context.Context) error
}

// NewPolicyWatcher creates a file watcher for the policy file. The parent
// directory is watched so that editors replacing the file atomically are seen.
func NewPolicyWatcher(file string, debounce time.Duration, reload func(ctx context.Context) error) (*PolicyWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	dir := filepath.Dir(file)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	return &PolicyWatcher{
		watcher:  watcher,
		file:     filepath.Clean(file),
		debounce: debounce,
		reload:   reload,
	}, nil
}

// Run watches for file changes and reloads the policy. Blocks until ctx is cancelled.
func (w *PolicyWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var (
		mu       sync.Mutex
		debounce *time.Timer
	)
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if debounce != nil {
			debounce.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.file {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			mu.Lock()
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(w.debounce, func() {
				if err := w.reload(ctx); err != nil {
					slog.Error("Policy hot reload failed, keeping previous policy",
						"file", w.file, "error", err)
				}
			})
			mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Policy file watcher error", "file", w.file, "error", err)
		}
	}
}
