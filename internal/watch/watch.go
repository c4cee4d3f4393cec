// Package watch rebuilds a Lore source file whenever it changes on disk.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fleetinglore/lore/internal/logger"
)

// debounce absorbs editor save bursts (write + chmod, or replace-by-rename)
// into a single rebuild.
const debounce = 200 * time.Millisecond

// Run watches source until ctx is cancelled, invoking rebuild after each
// change. Rebuild failures are logged, not fatal: the author fixes the file
// and saves again. The directory is watched rather than the file itself so
// that editors which replace the file on save stay tracked.
func Run(ctx context.Context, source string, log *logger.Logger, rebuild func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	source = filepath.Clean(source)
	if err := watcher.Add(filepath.Dir(source)); err != nil {
		return err
	}
	log.WatchStarted(source)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != source {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", "error", err)
		case <-timer.C:
			log.FileChanged(source)
			if err := rebuild(); err != nil {
				log.Error("rebuild failed", "source", source, "error", err)
			}
		}
	}
}
