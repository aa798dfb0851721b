package sprite

// ID uniquely identifies a sprite within a process. The zero value is
// never allocated and can be used as a "no sprite" sentinel.
type ID uint64

// NoID is the never-allocated zero ID.
const NoID ID = 0

// IDAllocator hands out sprite IDs. It replaces an ambient process-wide
// counter: the component that constructs sprites owns an allocator, which
// makes id lifetime and ownership explicit.
//
// IDAllocator is not safe for concurrent use; like the Scene it feeds,
// it belongs to a single goroutine.
type IDAllocator struct {
	next ID
}

// NewIDAllocator returns an allocator whose first ID is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: 1}
}

// Next returns a fresh ID. IDs are strictly increasing and never reused,
// so they double as an insertion-order key for stable z-sorting.
func (a *IDAllocator) Next() ID {
	id := a.next
	a.next++
	return id
}
