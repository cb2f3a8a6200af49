package prefs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"lexdesk/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the preferences file whenever another process writes it and
// calls onChange when the stored theme changes to a new value. It never
// consults the terminal, which the UI owns while the watcher runs.
// It stops when ctx is done.
func (m *Manager) Watch(ctx context.Context, onChange func(Theme)) error {
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory: editors and os.WriteFile may replace the file.
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	log := logging.Get(logging.CategoryPrefs)
	target := filepath.Clean(m.path)

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				before, _ := m.Stored()
				if err := m.Load(); err != nil {
					log.Warn("reload after %s failed: %v", ev.Op, err)
					continue
				}
				if after, ok := m.Stored(); ok && after != before {
					log.Info("theme changed externally: %q -> %s", before, after)
					onChange(after)
				}

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("watcher error: %v", err)
			}
		}
	}()
	return nil
}
