// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nblfq

import (
	"iter"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Slot is one cell of a ring. Exported so callers of Static can declare
// backing storage with a compile-time length:
//
//	var buf [256]nblfq.Slot[Job]
//	var q nblfq.Static[Job]
//	q.Init(buf[:])
//
// A Slot has no public operations; it is owned by the queue bound to it.
type Slot[T any] struct {
	turn atomix.Uint64
	item T
	_    padShort // Pad to cache line
}

// ring is the shared MPMC core. Both public shapes delegate every
// operation here; they differ only in who owns the slot storage.
//
// Protocol: slot i starts with turn = i. A producer that claimed
// position p publishes turn = p+1, a consumer that claimed p publishes
// turn = p+capacity, handing the slot to the producer of the next pass.
// Each slot is therefore its own single-producer/single-consumer
// handoff point and the only global contention is on the two cursors.
//
// Full and empty are decided from the slot turn before any cursor CAS,
// so a queue that really is full or empty fails fast without burning
// CAS attempts; the CAS loop retries only on contention.
type ring[T any, C any, PC cursor[C]] struct {
	_        pad
	tail     C
	_        pad
	head     C
	_        pad
	slots    []Slot[T]
	capacity uint64
}

// init binds the slot storage and resets the protocol state.
// Callers validate len(slots) >= 1.
func (r *ring[T, C, PC]) init(slots []Slot[T]) {
	r.slots = slots
	r.capacity = uint64(len(slots))
	PC(&r.tail).init(r.capacity)
	PC(&r.head).init(r.capacity)
	for i := range slots {
		slots[i].turn.StoreRelaxed(uint64(i))
	}
}

func (r *ring[T, C, PC]) tryPush(elem *T) error {
	sw := spin.Wait{}
	for {
		pos, gen := PC(&r.tail).load()
		slot := &r.slots[pos%r.capacity]
		turn := slot.turn.LoadAcquire()
		diff := int64(turn) - int64(pos)

		if diff == 0 {
			// Slot vacant for this pass: race other producers for it.
			nextPos, nextGen := PC(&r.tail).advance(pos, gen)
			if PC(&r.tail).cas(pos, gen, nextPos, nextGen) {
				slot.item = *elem
				slot.turn.StoreRelease(pos + 1)
				return nil
			}
		} else if diff < 0 {
			// The consumer of the previous pass has not vacated the
			// slot: the ring is full. Definitive, no retry.
			return ErrFull
		}
		// diff > 0: another producer advanced tail first, reload.
		sw.Once()
	}
}

func (r *ring[T, C, PC]) tryPop() (T, error) {
	sw := spin.Wait{}
	for {
		pos, gen := PC(&r.head).load()
		slot := &r.slots[pos%r.capacity]
		turn := slot.turn.LoadAcquire()
		diff := int64(turn) - int64(pos+1)

		if diff == 0 {
			nextPos, nextGen := PC(&r.head).advance(pos, gen)
			if PC(&r.head).cas(pos, gen, nextPos, nextGen) {
				elem := slot.item
				var zero T
				slot.item = zero
				slot.turn.StoreRelease(pos + r.capacity)
				return elem, nil
			}
		} else if diff < 0 {
			// No producer has published at this position yet: empty.
			var zero T
			return zero, ErrEmpty
		}
		// diff > 0: another consumer advanced head first, reload.
		sw.Once()
	}
}

// forcePush keeps trying to push, displacing the oldest item whenever
// the ring is full. Returns the most recently displaced item, if any.
func (r *ring[T, C, PC]) forcePush(elem *T) (displaced T, ok bool) {
	sw := spin.Wait{}
	for {
		if r.tryPush(elem) == nil {
			return displaced, ok
		}
		if v, err := r.tryPop(); err == nil {
			displaced, ok = v, true
		}
		sw.Once()
	}
}

// popAll pops until an empty observation.
func (r *ring[T, C, PC]) popAll() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			elem, err := r.tryPop()
			if err != nil {
				return
			}
			if !yield(elem) {
				return
			}
		}
	}
}

// length is an advisory snapshot. The two cursor loads are not a single
// atomic observation, so transient skew is clamped into [0, capacity].
func (r *ring[T, C, PC]) length() int {
	tail, _ := PC(&r.tail).load()
	head, _ := PC(&r.head).load()
	if head >= tail {
		return 0
	}
	if n := tail - head; n < r.capacity {
		return int(n)
	}
	return int(r.capacity)
}
