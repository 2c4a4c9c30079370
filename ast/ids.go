package ast

import "sync/atomic"

// IDAllocator hands out monotonically increasing node IDs, starting at 1.
// It is safe for concurrent use.
type IDAllocator struct {
	next atomic.Uint32
}

// NewIDAllocator returns an allocator whose first ID is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns a fresh ID.
func (a *IDAllocator) Next() uint32 {
	return a.next.Add(1)
}
