// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nblfq

import "iter"

// Queue is the dynamic-capacity MPMC queue shape. The slot array is
// allocated at construction and owned by the queue for its lifetime.
//
// The capacity is exact: a Queue created with capacity n holds at most
// n items, with one slot per item. No rounding is applied.
//
// Memory: capacity slots, one cache line per slot plus the element.
type Queue[T any] struct {
	ring ring[T, cursorDefault, *cursorDefault]
}

// New creates a Queue with the given capacity.
//
// Panics if capacity < 1 or if capacity exceeds the range of the
// compiled cursor encoding. Malformed configuration is rejected here;
// TryPush and TryPop never panic during normal concurrent use.
//
// Example:
//
//	q := nblfq.New[int](1024)
//	v := 42
//	if err := q.TryPush(&v); err != nil {
//	    // Handle full queue
//	}
func New[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		panic("nblfq: capacity must be >= 1")
	}
	q := &Queue[T]{}
	q.ring.init(make([]Slot[T], capacity))
	return q
}

// TryPush adds an element to the queue (non-blocking).
// The element is copied into the queue's internal buffer, so the
// original can be modified after TryPush returns.
// Returns nil on success, ErrFull if the queue is full.
//
// Safe for any number of concurrent producers.
func (q *Queue[T]) TryPush(elem *T) error {
	return q.ring.tryPush(elem)
}

// TryPop removes and returns the oldest element (non-blocking).
// Returns (zero value, ErrEmpty) if the queue is empty. The vacated
// slot is cleared so popped values do not pin referenced objects.
//
// Safe for any number of concurrent consumers.
func (q *Queue[T]) TryPop() (T, error) {
	return q.ring.tryPop()
}

// ForcePush adds an element, displacing the oldest item whenever the
// queue is full (ring-buffer overwrite mode). Returns the most recently
// displaced item and true if anything was displaced.
//
// Unlike TryPush, ForcePush always succeeds eventually; under heavy
// concurrent popping it may displace more than one item before the push
// lands, and only the last displaced item is returned.
func (q *Queue[T]) ForcePush(elem *T) (displaced T, ok bool) {
	return q.ring.forcePush(elem)
}

// Drain returns an iterator that pops until the queue observes empty.
//
//	for v := range q.Drain() {
//	    process(v)
//	}
//
// Concurrent producers may keep the iterator running past the point it
// started; it stops at the first empty observation, not at a snapshot.
func (q *Queue[T]) Drain() iter.Seq[T] {
	return q.ring.popAll()
}

// Len returns the number of items currently held, as an advisory
// snapshot. Under concurrent mutation the value may be stale by the
// time it is returned; it is informational and never used internally.
func (q *Queue[T]) Len() int {
	return q.ring.length()
}

// Cap returns the queue capacity.
func (q *Queue[T]) Cap() int {
	return int(q.ring.capacity)
}

// IsEmpty reports whether the queue held no items at the snapshot
// point. Advisory, like Len.
func (q *Queue[T]) IsEmpty() bool {
	return q.ring.length() == 0
}

// IsFull reports whether the queue was at capacity at the snapshot
// point. Advisory, like Len.
func (q *Queue[T]) IsFull() bool {
	return q.ring.length() == q.Cap()
}
