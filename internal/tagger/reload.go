package tagger

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/smartspb/mediabot/internal/watcher"
)

// Follow reloads d from path each time events reports the file modified.
// It returns when ctx is done or events is closed. A removed or broken file
// leaves the current contents in place.
func (d *Dictionary) Follow(ctx context.Context, path string, events <-chan watcher.Event, logger *slog.Logger) {
	path = filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Path) != path {
				continue
			}
			if ev.Type == watcher.EventRemoved {
				logger.Warn("dictionary file removed, keeping loaded words", "path", path)
				continue
			}
			if err := d.Reload(path); err != nil {
				logger.Error("dictionary reload failed", "path", path, "error", err)
				continue
			}
			logger.Info("dictionary reloaded", "path", path, "words", d.Len())
		}
	}
}
