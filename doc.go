// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package nblfq provides a bounded lock-free MPMC FIFO queue.
//
// Any number of goroutines may push and pop concurrently. Operations
// never block, never sleep, and never take a lock: TryPush and TryPop
// either complete or fail fast with ErrFull/ErrEmpty, retrying only
// when another goroutine's concurrent success invalidated the attempt.
//
// One core algorithm backs two public shapes:
//
//   - Queue:  capacity chosen at construction, slots allocated for you
//   - Static: slots supplied by the caller, zero allocation anywhere
//
// # Quick Start
//
//	q := nblfq.New[int](1024)
//
//	// Push (non-blocking)
//	value := 42
//	err := q.TryPush(&value)
//	if errors.Is(err, nblfq.ErrFull) {
//	    // Queue is full - handle backpressure
//	}
//
//	// Pop (non-blocking)
//	elem, err := q.TryPop()
//	if err == nil {
//	    fmt.Println(elem)
//	}
//
// # The Two Shapes
//
// Queue owns its storage. New allocates the slot array and the queue is
// ready immediately:
//
//	q := nblfq.New[Event](4096)
//
// Static borrows its storage. The caller declares the slot array, which
// fixes the capacity at the declaration site, and binds it once with
// Init before the queue is shared:
//
//	var buf [256]nblfq.Slot[Job]
//	var q nblfq.Static[Job]
//
//	func init() { q.Init(buf[:]) }
//
// After Init the two shapes are indistinguishable: same protocol, same
// errors, same guarantees. Static exists for code that must not touch
// the allocator on any path - arenas, preallocated globals, or queue
// values embedded in larger preallocated structs.
//
// Both shapes satisfy the [Buffer] interface, so storage ownership does
// not leak into code that only pushes and pops.
//
// # Common Patterns
//
// Worker Pool (many submitters, many workers):
//
//	q := nblfq.New[Job](4096)
//
//	// Workers
//	for range numWorkers {
//	    go func() {
//	        backoff := iox.Backoff{}
//	        for {
//	            job, err := q.TryPop()
//	            if err != nil {
//	                backoff.Wait()
//	                continue
//	            }
//	            backoff.Reset()
//	            job.Run()
//	        }
//	    }()
//	}
//
//	// Submit jobs from anywhere
//	func Submit(j Job) error {
//	    return q.TryPush(&j)
//	}
//
// Latest-Wins Telemetry (ring-buffer overwrite):
//
//	// Keep only the freshest samples; stale data is worthless.
//	q := nblfq.New[Sample](64)
//
//	// Producer never fails and never waits for consumers
//	func record(s Sample) {
//	    q.ForcePush(&s)  // Displaces the oldest sample when full
//	}
//
// Shutdown Drain:
//
//	prodWg.Wait()  // All producers finished
//
//	for v := range q.Drain() {
//	    flush(v)   // Remaining items, FIFO order
//	}
//
// # Cursor Encodings
//
// The queue tracks its producer and consumer sides with two cursors,
// each an atomically compare-and-swapped (position, generation) pair.
// The generation field protects the cursor word from ABA: a stale CAS
// can only succeed if the whole pair recurs, which the encodings keep
// out of reach of any real stall window.
//
// Two encodings are compiled in; a build tag picks which one backs the
// public shapes:
//
//	default:      tagged encoding - generation in the high 16 bits of
//	              one 64-bit word, position field in the low 48 bits,
//	              single-word CAS
//	nblfq_dwcas:  double-width encoding - full 64-bit position and
//	              generation in one 128-bit cell, double-width CAS
//
// The selection is invisible in the API and in behavior; it trades the
// cheaper single-word CAS against full-width cursor fields. Build with
// -tags nblfq_dwcas on platforms where 128-bit atomics are preferred.
//
// # Error Handling
//
// TryPush returns [ErrFull] and TryPop returns [ErrEmpty]. Both wrap
// [iox.ErrWouldBlock] from [code.hybscloud.com/iox], so one check
// covers "try again later" regardless of direction:
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.TryPush(&item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if !nblfq.IsWouldBlock(err) {
//	        return err // Unexpected error
//	    }
//	    backoff.Wait()
//	}
//
// For semantic error classification (delegates to iox):
//
//	nblfq.IsWouldBlock(err)  // true if queue full/empty
//	nblfq.IsSemantic(err)    // true if control flow signal
//	nblfq.IsNonFailure(err)  // true if nil, ErrFull, or ErrEmpty
//
// Full and Empty are decided before the cursor CAS, from the slot the
// cursor points at, so a queue that really is full or empty fails in a
// bounded number of steps instead of spinning on contention.
//
// # Capacity and Length
//
// Capacity is exact, minimum 1. No power-of-two rounding is applied:
//
//	q := nblfq.New[int](1)     // Holds exactly 1 item
//	q := nblfq.New[int](1000)  // Holds exactly 1000 items
//
// New panics if capacity < 1. A capacity-1 queue is a valid handoff
// cell: push succeeds, a second push fails with ErrFull until a pop.
//
// Len, IsEmpty, and IsFull are advisory snapshots. They are exact when
// the queue is quiescent and may be stale under concurrent mutation;
// the algorithm never consults them for correctness.
//
// # Ordering Guarantees
//
// Pushes linearize at their tail-cursor CAS and pops at their
// head-cursor CAS. With one producer and one consumer the queue is
// strictly FIFO. With many producers, items appear in the order the
// producers' CASes succeeded, which can differ from the order TryPush
// was called; every item is still delivered exactly once.
//
// # Race Detection
//
// Go's race detector is not designed for lock-free algorithm
// verification. It tracks explicit synchronization primitives but
// cannot observe the happens-before edges this package establishes
// through acquire-release orderings between slot turn markers and slot
// items, and reports false positives on the generic shapes.
//
// Stress tests shrink or skip under the detector via the RaceEnabled
// constant; tests incompatible with race detection are excluded via
// //go:build !race.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause
// instructions in contention loops.
package nblfq
