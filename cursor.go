// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nblfq

import "code.hybscloud.com/atomix"

// Cursor field widths for the tagged encoding. The layout is the classic
// tagged-pointer split on 64-bit platforms with 48-bit virtual addresses:
// low 48 bits carry the payload, high 16 bits carry the tag. Here the
// payload is a slot position, never a dereferenceable address, so the
// encoding works on any 64-bit platform regardless of address width.
const (
	posBits = 48
	posMask = uint64(1)<<posBits - 1
	genBits = 64 - posBits
	genMask = uint64(1)<<genBits - 1
)

// cursor is the contract between the ring core and a cursor encoding.
//
// A cursor holds a (position, generation) pair in one atomically
// CAS-able cell. The position is the absolute logical index of the next
// slot the producer or consumer side will attempt to use; it advances by
// exactly 1 per successful operation regardless of encoding, so
// position mod capacity is always the physical slot and
// tail.position - head.position is always the queue length.
//
// The generation exists only to protect the cursor word itself from ABA:
// a compare-and-swap succeeds only if both fields match, so a stale
// attempt can succeed only if the full pair recurs within the attempt's
// lifetime. Each encoding owns its increment rule (see advance) and
// guarantees pair recurrence is unreachable in any real stall window.
//
// The type parameter form binds the core to a concrete encoding at
// compile time; there is no runtime dispatch between encodings.
type cursor[C any] interface {
	*C

	// init records capacity-derived constants and resets the pair to
	// (0, 0). Called once before the cell is shared.
	init(capacity uint64)

	// load returns the current pair with acquire ordering.
	load() (pos, gen uint64)

	// cas publishes the new pair with release ordering if the cell
	// still holds the old pair.
	cas(oldPos, oldGen, newPos, newGen uint64) bool

	// advance computes the successor pair of (pos, gen).
	advance(pos, gen uint64) (uint64, uint64)
}

// cursorTagged packs the pair into one 64-bit word:
//
// Word format: [hi 16 bits = generation | lo 48 bits = position field]
//
// The position field counts modulo wrap, the largest multiple of the
// capacity not exceeding 2^48, and the generation increments once per
// field wraparound. Keeping wrap a multiple of the capacity makes the
// decoded absolute position gen*wrap + field advance by exactly 1 across
// the field boundary, so slot arithmetic never observes a discontinuity.
//
// ABA rule: the word recurs only after at least 2^63 operations
// (wrap >= 2^47 for any capacity, times 2^16 generations). A push or pop
// stalled mid-operation would need the rest of the system to complete
// that many operations before its CAS could falsely succeed.
//
// Memory: 8-byte atomic word, single-word CAS.
type cursorTagged struct {
	word atomix.Uint64
	wrap uint64
}

func (c *cursorTagged) init(capacity uint64) {
	if capacity > posMask+1 {
		panic("nblfq: capacity exceeds tagged cursor range")
	}
	c.wrap = (posMask + 1) / capacity * capacity
	c.word.StoreRelaxed(0)
}

func (c *cursorTagged) load() (pos, gen uint64) {
	w := c.word.LoadAcquire()
	gen = w >> posBits
	pos = gen*c.wrap + (w & posMask)
	return pos, gen
}

func (c *cursorTagged) cas(oldPos, oldGen, newPos, newGen uint64) bool {
	return c.word.CompareAndSwapAcqRel(packTagged(oldPos, oldGen, c.wrap), packTagged(newPos, newGen, c.wrap))
}

func (c *cursorTagged) advance(pos, gen uint64) (uint64, uint64) {
	pos++
	if pos == (gen+1)*c.wrap {
		gen++
	}
	return pos, gen
}

// packTagged encodes an absolute position and generation into the tagged
// word layout. The position field is the absolute position minus the
// full wraps already accounted for by the generation.
func packTagged(pos, gen, wrap uint64) uint64 {
	return (gen&genMask)<<posBits | (pos-gen*wrap)&posMask
}

// cursorWide stores the pair untagged in one 128-bit atomic cell:
//
// Cell format: [lo = position | hi = generation]
//
// Both fields are full 64-bit integers. The position never wraps in
// practice and the generation increments every time the position crosses
// a ring boundary, one bump per pass over the buffer.
//
// ABA rule: a pair recurs only after the 64-bit position itself wraps,
// which is out of reach at any achievable operation rate. The full-width
// generation is pure safety margin on top of that.
//
// Memory: 16-byte atomic cell, double-width CAS.
type cursorWide struct {
	cell     atomix.Uint128
	capacity uint64
}

func (c *cursorWide) init(capacity uint64) {
	c.capacity = capacity
	c.cell.StoreRelaxed(0, 0)
}

func (c *cursorWide) load() (pos, gen uint64) {
	return c.cell.LoadAcquire()
}

func (c *cursorWide) cas(oldPos, oldGen, newPos, newGen uint64) bool {
	return c.cell.CompareAndSwapAcqRel(oldPos, oldGen, newPos, newGen)
}

func (c *cursorWide) advance(pos, gen uint64) (uint64, uint64) {
	pos++
	if pos%c.capacity == 0 {
		gen++
	}
	return pos, gen
}
