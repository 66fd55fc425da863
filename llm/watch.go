package llm

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the manager whenever the providers file changes on disk,
// so edits made by another process (or by hand) take effect without a
// restart. It blocks until ctx is cancelled.
func (m *Manager) Watch(ctx context.Context, providersFile string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: atomic writes replace the file
	// and a watch on the old inode goes stale.
	dir := filepath.Dir(providersFile)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(providersFile)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := m.reload(); err != nil {
				slog.Warn("failed to reload provider configurations", "error", err)
				continue
			}
			slog.Debug("reloaded provider configurations", "file", providersFile)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("provider file watcher error", "error", err)
		}
	}
}
