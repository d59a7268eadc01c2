package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"fish-bot/internal/logging"
)

const reloadDebounce = 100 * time.Millisecond

// Watch reloads the store's timing whenever the config file changes, until
// ctx is cancelled.
//
// The directory is watched rather than the file: editors and Save both
// replace the file by rename, which drops a watch held on the old inode.
// Bursts of events are coalesced and the file is read once they settle.
func (s *Store) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return err
	}
	target := filepath.Clean(s.path)

	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			pending = time.After(reloadDebounce)
		case <-pending:
			pending = nil
			if err := s.Reload(); err != nil {
				logging.Warn("Config reload failed: %v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.Warn("Config watcher error: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}
