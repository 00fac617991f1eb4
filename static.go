// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nblfq

import "iter"

// Static is the caller-storage MPMC queue shape. The caller supplies
// the slot array and Static allocates nothing, ever: the queue value
// can live in a global, an arena, or inside a larger struct, and the
// backing array's length fixes the capacity at its declaration site.
//
// The zero value is not ready for use; Init must be called once, before
// the queue is shared, to bind the storage:
//
//	var buf [256]nblfq.Slot[Job]
//	var q nblfq.Static[Job]
//
//	func init() { q.Init(buf[:]) }
//
// After Init, Static behaves exactly like Queue with capacity
// len(slots): same protocol, same errors, same guarantees.
type Static[T any] struct {
	ring ring[T, cursorDefault, *cursorDefault]
}

// Init binds the backing storage and resets the queue to empty.
// The capacity is len(slots), exact and immutable afterwards.
//
// Init requires exclusive access: it must complete before any other
// goroutine touches the queue, and rebinding a live queue is undefined.
// Panics if slots is empty or longer than the compiled cursor encoding
// supports.
func (q *Static[T]) Init(slots []Slot[T]) {
	if len(slots) < 1 {
		panic("nblfq: Init requires at least one slot")
	}
	q.ring.init(slots)
}

// TryPush adds an element to the queue (non-blocking).
// The element is copied into the bound slot array.
// Returns nil on success, ErrFull if the queue is full.
//
// Safe for any number of concurrent producers.
func (q *Static[T]) TryPush(elem *T) error {
	return q.ring.tryPush(elem)
}

// TryPop removes and returns the oldest element (non-blocking).
// Returns (zero value, ErrEmpty) if the queue is empty. The vacated
// slot is cleared so popped values do not pin referenced objects.
//
// Safe for any number of concurrent consumers.
func (q *Static[T]) TryPop() (T, error) {
	return q.ring.tryPop()
}

// ForcePush adds an element, displacing the oldest item whenever the
// queue is full (ring-buffer overwrite mode). Returns the most recently
// displaced item and true if anything was displaced.
func (q *Static[T]) ForcePush(elem *T) (displaced T, ok bool) {
	return q.ring.forcePush(elem)
}

// Drain returns an iterator that pops until the queue observes empty.
func (q *Static[T]) Drain() iter.Seq[T] {
	return q.ring.popAll()
}

// Len returns the number of items currently held, as an advisory
// snapshot. Under concurrent mutation the value may be stale by the
// time it is returned; it is informational and never used internally.
func (q *Static[T]) Len() int {
	return q.ring.length()
}

// Cap returns the queue capacity: the length of the bound slot array.
func (q *Static[T]) Cap() int {
	return int(q.ring.capacity)
}

// IsEmpty reports whether the queue held no items at the snapshot
// point. Advisory, like Len.
func (q *Static[T]) IsEmpty() bool {
	return q.ring.length() == 0
}

// IsFull reports whether the queue was at capacity at the snapshot
// point. Advisory, like Len.
func (q *Static[T]) IsFull() bool {
	return q.ring.length() == q.Cap()
}
