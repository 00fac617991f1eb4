// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nblfq

// Buffer is the combined producer-consumer interface shared by both
// queue shapes. *Queue[T] and *Static[T] satisfy it.
//
// Buffer provides non-blocking TryPush and TryPop plus the advisory
// size accessors. Code that does not care who owns the slot storage
// can accept a Buffer and work against either shape:
//
//	func pump[T any](b nblfq.Buffer[T], in <-chan T) {
//	    for v := range in {
//	        for b.TryPush(&v) != nil {
//	            runtime.Gosched()
//	        }
//	    }
//	}
type Buffer[T any] interface {
	Producer[T]
	Consumer[T]

	// Len returns an advisory item count; may be stale under
	// concurrent mutation.
	Len() int
	// Cap returns the fixed capacity.
	Cap() int
}

// Producer is the interface for pushing elements.
//
// The element is passed by pointer to avoid copying large structs at
// the call boundary. The queue stores a copy of the pointed-to value,
// so the original can be modified after TryPush returns.
type Producer[T any] interface {
	// TryPush adds an element to the queue (non-blocking).
	// Returns nil on success, ErrFull if the queue is full.
	// Safe for any number of concurrent producers.
	TryPush(elem *T) error
}

// Consumer is the interface for popping elements.
//
// The element is returned by value, copied out of the queue's buffer.
// The vacated slot is cleared to allow garbage collection of
// referenced objects.
type Consumer[T any] interface {
	// TryPop removes and returns the oldest element (non-blocking).
	// Returns (zero value, ErrEmpty) if the queue is empty.
	// Safe for any number of concurrent consumers.
	TryPop() (T, error)
}
