// Package stats counts lookups and persists the counts.
//
// Counters are updated lock-free on every query and written out by a
// Flusher on a fixed interval. A crash loses at most the counts recorded
// since the last successful flush.
package stats

import "sync/atomic"

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Requests uint64 `json:"requests"`
	Blocks   uint64 `json:"blocks"`
	Passes   uint64 `json:"passes"`
}

// Counters holds the request, block and pass totals.
type Counters struct {
	requests atomic.Uint64
	blocks   atomic.Uint64
	passes   atomic.Uint64
}

// NewCounters returns counters starting from s.
func NewCounters(s Snapshot) *Counters {
	c := &Counters{}
	c.requests.Store(s.Requests)
	c.blocks.Store(s.Blocks)
	c.passes.Store(s.Passes)
	return c
}

// Record counts one answered query.
func (c *Counters) Record(blocked bool) {
	c.requests.Add(1)
	if blocked {
		c.blocks.Add(1)
	} else {
		c.passes.Add(1)
	}
}

// Snapshot returns the current totals. The three values are read
// independently and may be skewed by concurrent Record calls.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Requests: c.requests.Load(),
		Blocks:   c.blocks.Load(),
		Passes:   c.passes.Load(),
	}
}
