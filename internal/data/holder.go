package data

import (
	"net/netip"
	"sync/atomic"
)

// Holder serves lookups from whichever index was stored last. Readers never
// block; a reload builds a new index and swaps it in with Set.
type Holder struct {
	value atomic.Pointer[BlockLookup]
}

// NewHolder returns a Holder serving initial.
func NewHolder(initial BlockLookup) *Holder {
	h := &Holder{}
	h.Set(initial)
	return h
}

// Get returns the current index.
func (h *Holder) Get() BlockLookup {
	p := h.value.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Set installs lookup and closes the one it replaces. Readers may still be
// using the old index, so only indexes with a no-op Close are swapped at
// runtime.
func (h *Holder) Set(lookup BlockLookup) {
	old := h.value.Swap(&lookup)
	if old != nil && *old != nil {
		_ = (*old).Close()
	}
}

// Ready reports whether an index has been installed.
func (h *Holder) Ready() bool {
	return h.Get() != nil
}

// Blocked delegates to the current index. With no index installed nothing
// is blocked.
func (h *Holder) Blocked(ip netip.Addr) (bool, error) {
	cur := h.Get()
	if cur == nil {
		return false, nil
	}
	return cur.Blocked(ip)
}

// Len delegates to the current index.
func (h *Holder) Len() int {
	cur := h.Get()
	if cur == nil {
		return 0
	}
	return cur.Len()
}

// Close closes the current index.
func (h *Holder) Close() error {
	p := h.value.Swap(nil)
	if p == nil || *p == nil {
		return nil
	}
	return (*p).Close()
}
