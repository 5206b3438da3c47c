package stats

import (
	"context"
	"log/slog"
	"time"
)

const saveTimeout = 5 * time.Second

// Flusher periodically saves a snapshot of Counters to a Store.
type Flusher struct {
	counters *Counters
	store    Store
	interval time.Duration
	last     Snapshot
}

// NewFlusher returns a Flusher saving every interval.
func NewFlusher(counters *Counters, store Store, interval time.Duration) *Flusher {
	return &Flusher{
		counters: counters,
		store:    store,
		interval: interval,
		last:     counters.Snapshot(),
	}
}

// Run saves on every tick until ctx is done, then saves once more.
// Failed saves are logged and retried on the next tick.
func (f *Flusher) Run(ctx context.Context) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// The parent context is gone; give the final save its own deadline.
			f.Flush(context.Background())
			return nil
		case <-ticker.C:
			f.Flush(ctx)
		}
	}
}

// Flush saves the current snapshot if it changed since the last save.
func (f *Flusher) Flush(ctx context.Context) {
	snap := f.counters.Snapshot()
	if snap == f.last {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()

	if err := f.store.Save(ctx, snap); err != nil {
		slog.Error("failed to save stats", "error", err)
		return
	}
	f.last = snap
	slog.Debug("stats saved", "requests", snap.Requests, "blocks", snap.Blocks, "passes", snap.Passes)
}
