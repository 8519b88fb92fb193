package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/searchsync/internal/logger"
)

// reloadDelay coalesces the burst of events an editor produces on save.
const reloadDelay = 100 * time.Millisecond

// Watcher reloads a ConfigStore when its file changes on disk.
type Watcher struct {
	store    *ConfigStore
	onReload func()
	delay    time.Duration
}

// NewWatcher creates a watcher for the store. onReload, if non-nil, runs
// after every successful reload.
func NewWatcher(store *ConfigStore, onReload func()) *Watcher {
	return &Watcher{store: store, onReload: onReload, delay: reloadDelay}
}

// Run watches until ctx is cancelled. The directory is watched rather than
// the file so that atomic rename-on-save is seen.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.store.Path())
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var (
		timer  *time.Timer
		reload <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.isConfigEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			reload = timer.C

		case <-reload:
			reload = nil
			if err := w.store.Load(); err != nil {
				logger.Warn("config: reload of %s failed, keeping previous values: %v", w.store.Path(), err)
				continue
			}
			logger.Info("config: reloaded %s", w.store.Path())
			if w.onReload != nil {
				w.onReload()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config: watcher error: %v", err)
		}
	}
}

// isConfigEvent reports whether the event changes the config file's content.
func (w *Watcher) isConfigEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.store.Path()) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
