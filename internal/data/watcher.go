package data

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher rebuilds the index held by a Holder whenever the block-list file
// changes on disk. The file's directory is watched so that replacements by
// rename are seen.
type Watcher struct {
	path     string
	build    Builder
	holder   *Holder
	debounce time.Duration
	group    singleflight.Group
}

// NewWatcher returns a Watcher for the block list at path.
func NewWatcher(path string, build Builder, holder *Holder) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		build:    build,
		holder:   holder,
		debounce: defaultDebounce,
	}
}

// Reload parses the block list and swaps in a new index. Concurrent calls
// share one reload.
func (w *Watcher) Reload() {
	_, _, _ = w.group.Do("reload", func() (interface{}, error) {
		start := time.Now()
		lookup := w.build(LoadBlocklist(w.path))
		w.holder.Set(lookup)
		slog.Info("block list reloaded",
			"path", w.path,
			"entries", lookup.Len(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, nil
	})
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	slog.Info("watching block list", "path", w.path)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			// Removal keeps the index that is already loaded.
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			slog.Debug("block list changed", "op", ev.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("block list watcher error", "error", err)

		case <-timer.C:
			w.Reload()
		}
	}
}
