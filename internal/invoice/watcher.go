package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDelay is how long the file must stay quiet before a reload.
const DefaultReloadDelay = 250 * time.Millisecond

// Watch reloads store whenever its file changes, until ctx is done. The
// parent directory is watched so editors that replace the file are seen.
// Bursts of events are coalesced into one reload after delay.
func Watch(ctx context.Context, store *RateCardStore, delay time.Duration, logger *slog.Logger) error {
	if store.Path() == "" {
		return fmt.Errorf("rate card store has no file to watch")
	}
	target, err := filepath.Abs(store.Path())
	if err != nil {
		return fmt.Errorf("filepath.Abs: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watcher.Add: %w", err)
	}

	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				reload = time.After(delay)
			}

		case <-reload:
			reload = nil
			if err := store.Reload(); err != nil {
				logger.Warn("rate card reload failed, keeping previous rates", "path", target, "error", err)
				continue
			}
			card := store.Current()
			logger.Info("rate card reloaded", "path", target, "default_rate", card.DefaultRate, "events", len(card.Events))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("rate card watcher error", "error", err)
		}
	}
}
