package config

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/oshokin/alarm-blackout/internal/logger"
)

// Watch reloads the configuration at path whenever it is written and passes
// it to onChange. It blocks until ctx is canceled.
// A reload that fails to load or validate is logged and the previous
// configuration stays active.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	if path == "" {
		path = DefaultConfigFilename
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	defer func() {
		_ = watcher.Close()
	}()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	logger.InfoKV(ctx, "Watching settings for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Editors often save via rename, so Create counts as a write.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				logger.ErrorKV(ctx, "Settings reload failed, keeping previous settings", "path", path, "error", err)

				continue
			}

			logger.InfoKV(ctx, "Settings reloaded", "path", path)
			onChange(cfg)

			// Re-add in case an atomic save replaced the inode.
			_ = watcher.Add(path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.ErrorKV(ctx, "Settings watcher error", "error", err)
		}
	}
}
