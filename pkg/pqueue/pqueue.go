// Package pqueue provides a bounded min-heap for top-k selection.
//
// A [Bounded] queue keeps at most capacity items. Pushing past capacity evicts
// the current minimum, so after every candidate has been pushed the queue holds
// the capacity largest items seen. This is the selection primitive behind
// ranking queries such as "top k referrers by reach": O(n log k) time and O(k)
// space instead of sorting every candidate.
//
// Bounded is not safe for concurrent use.
package pqueue

import "container/heap"

// maxPrealloc caps the up-front allocation; larger queues grow on demand.
const maxPrealloc = 1024

// Bounded is a min-heap that retains at most a fixed number of items.
// The zero value is not usable - use [NewBounded].
type Bounded[T any] struct {
	h        items[T]
	capacity int
}

// NewBounded creates a queue retaining at most capacity items ordered by less.
// less(a, b) must report whether a ranks below b. A capacity below zero is
// treated as zero, in which case every push is discarded.
func NewBounded[T any](capacity int, less func(a, b T) bool) *Bounded[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Bounded[T]{
		h:        items[T]{less: less, data: make([]T, 0, min(capacity, maxPrealloc)+1)},
		capacity: capacity,
	}
}

// Push adds item. If the queue then exceeds its capacity the minimum is evicted,
// which may be item itself.
func (b *Bounded[T]) Push(item T) {
	if b.capacity == 0 {
		return
	}
	heap.Push(&b.h, item)
	if b.h.Len() > b.capacity {
		heap.Pop(&b.h)
	}
}

// Len returns the number of retained items.
func (b *Bounded[T]) Len() int { return b.h.Len() }

// Cap returns the maximum number of retained items.
func (b *Bounded[T]) Cap() int { return b.capacity }

// Peek returns the minimum without removing it.
func (b *Bounded[T]) Peek() (T, bool) {
	if b.h.Len() == 0 {
		var zero T
		return zero, false
	}
	return b.h.data[0], true
}

// Pop removes and returns the minimum.
func (b *Bounded[T]) Pop() (T, bool) {
	if b.h.Len() == 0 {
		var zero T
		return zero, false
	}
	return heap.Pop(&b.h).(T), true
}

// DrainDescending empties the queue and returns its items largest first.
func (b *Bounded[T]) DrainDescending() []T {
	out := make([]T, b.h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&b.h).(T)
	}
	return out
}

// items adapts a slice and comparator to container/heap.
type items[T any] struct {
	data []T
	less func(a, b T) bool
}

func (h items[T]) Len() int           { return len(h.data) }
func (h items[T]) Less(i, j int) bool { return h.less(h.data[i], h.data[j]) }
func (h items[T]) Swap(i, j int)      { h.data[i], h.data[j] = h.data[j], h.data[i] }

func (h *items[T]) Push(x any) { h.data = append(h.data, x.(T)) }

func (h *items[T]) Pop() any {
	old := h.data
	n := len(old)
	item := old[n-1]
	var zero T
	old[n-1] = zero
	h.data = old[:n-1]
	return item
}
