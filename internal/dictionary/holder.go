package dictionary

import "sync/atomic"

// Holder publishes the current snapshot to concurrent readers. Refreshes
// replace the whole snapshot in one atomic store so a reader never observes
// a half-updated catalog.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder creates an empty holder. Snapshot returns nil until the first
// Swap.
func NewHolder() *Holder {
	return &Holder{}
}

// Snapshot returns the current snapshot, or nil if none was loaded yet.
func (h *Holder) Snapshot() *Snapshot {
	return h.current.Load()
}

// Swap publishes a new snapshot. In-flight readers keep the one they hold.
func (h *Holder) Swap(s *Snapshot) {
	h.current.Store(s)
}
