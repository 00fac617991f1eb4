// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nblfq

import (
	"errors"
	"slices"
	"testing"

	"github.com/valyala/fastrand"
)

// =============================================================================
// Cursor Encoding Tests (white-box)
//
// The tagged encoding wraps its 48-bit position field once per ~2^48
// operations, far beyond what any test can reach through the public API.
// These tests run inside the package so they can place cursors and slot
// turns directly at the wrap boundary and drive the ring across it.
// =============================================================================

// Both encodings must satisfy the cursor constraint.
func assertCursor[C any, PC cursor[C]]() {}

var (
	_ = assertCursor[cursorTagged, *cursorTagged]
	_ = assertCursor[cursorWide, *cursorWide]
	_ = assertCursor[cursorDefault, *cursorDefault]
)

// seedTagged places an idle tagged-cursor ring at absolute position pos,
// exactly as if pos pushes and pos pops had already completed.
func seedTagged[T any](r *ring[T, cursorTagged, *cursorTagged], pos uint64) {
	gen := pos / r.tail.wrap
	r.tail.word.StoreRelaxed(packTagged(pos, gen, r.tail.wrap))
	r.head.word.StoreRelaxed(packTagged(pos, gen, r.head.wrap))
	for j := range r.slots {
		// Next position at or above pos that maps to slot j.
		next := pos + (uint64(j)+r.capacity-pos%r.capacity)%r.capacity
		r.slots[j].turn.StoreRelaxed(next)
	}
}

// =============================================================================
// Tagged Encoding - Word Layout
// =============================================================================

// TestTaggedWrapConstant tests that init derives the wrap as the largest
// multiple of the capacity not exceeding 2^48. Any other choice would
// leave the decoded position discontinuous at the field boundary.
func TestTaggedWrapConstant(t *testing.T) {
	for capacity := range slices.Values([]uint64{1, 2, 3, 4, 5, 7, 10, 48, 1 << 20, posMask + 1}) {
		var c cursorTagged
		c.init(capacity)
		if c.wrap%capacity != 0 {
			t.Fatalf("cap %d: wrap %d is not a multiple of the capacity", capacity, c.wrap)
		}
		if c.wrap > posMask+1 {
			t.Fatalf("cap %d: wrap %d exceeds the field range", capacity, c.wrap)
		}
		if c.wrap+capacity <= posMask+1 {
			t.Fatalf("cap %d: wrap %d is not maximal", capacity, c.wrap)
		}
	}
}

// TestTaggedEncodeDecode tests that load decodes a packed word back to
// the absolute (position, generation) pair across generation windows.
func TestTaggedEncodeDecode(t *testing.T) {
	for capacity := range slices.Values([]uint64{1, 3, 8, 10}) {
		var c cursorTagged
		c.init(capacity)
		w := c.wrap

		pairs := []struct{ pos, gen uint64 }{
			{0, 0},
			{1, 0},
			{w - 1, 0},
			{w, 1},
			{w + 1, 1},
			{2*w - 1, 1},
			{2 * w, 2},
			{genMask * w, genMask},
		}
		for p := range slices.Values(pairs) {
			c.word.StoreRelaxed(packTagged(p.pos, p.gen, w))
			pos, gen := c.load()
			if pos != p.pos || gen != p.gen {
				t.Fatalf("cap %d: load = (%d, %d), want (%d, %d)", capacity, pos, gen, p.pos, p.gen)
			}
		}
	}
}

// TestTaggedAdvance tests the successor rule, in particular the
// generation carry when the position crosses a wrap multiple.
func TestTaggedAdvance(t *testing.T) {
	var c cursorTagged
	c.init(3)
	w := c.wrap

	tests := []struct {
		name             string
		pos, gen         uint64
		wantPos, wantGen uint64
	}{
		{"interior", 5, 0, 6, 0},
		{"below boundary", w - 2, 0, w - 1, 0},
		{"field wrap", w - 1, 0, w, 1},
		{"after wrap", w, 1, w + 1, 1},
		{"second wrap", 2*w - 1, 1, 2 * w, 2},
	}

	for tt := range slices.Values(tests) {
		t.Run(tt.name, func(t *testing.T) {
			pos, gen := c.advance(tt.pos, tt.gen)
			if pos != tt.wantPos || gen != tt.wantGen {
				t.Fatalf("advance(%d, %d) = (%d, %d), want (%d, %d)",
					tt.pos, tt.gen, pos, gen, tt.wantPos, tt.wantGen)
			}
		})
	}
}

// TestTaggedCAS tests pair semantics of the single-word CAS: only the
// exact current (position, generation) pair matches, and a position that
// re-lands on the same field bits with another generation does not.
func TestTaggedCAS(t *testing.T) {
	var c cursorTagged
	c.init(4)
	w := c.wrap

	if pos, gen := c.load(); pos != 0 || gen != 0 {
		t.Fatalf("fresh cursor: (%d, %d), want (0, 0)", pos, gen)
	}
	if !c.cas(0, 0, 1, 0) {
		t.Fatal("cas from the current pair failed")
	}
	if c.cas(0, 0, 2, 0) {
		t.Fatal("cas from a stale pair succeeded")
	}
	if !c.cas(1, 0, 2, 0) {
		t.Fatal("cas from the current pair failed")
	}
	// Position 2+w has the same field bits as position 2 but generation 1.
	if c.cas(2+w, 1, 3+w, 1) {
		t.Fatal("cas with a recurring field but different generation succeeded")
	}
	if pos, gen := c.load(); pos != 2 || gen != 0 {
		t.Fatalf("after cas: (%d, %d), want (2, 0)", pos, gen)
	}
}

// TestTaggedCapacityRange tests the admissible capacity range of the
// 48-bit field: 2^48 slots is accepted, one more is rejected.
func TestTaggedCapacityRange(t *testing.T) {
	var ok cursorTagged
	ok.init(posMask + 1)
	if ok.wrap != posMask+1 {
		t.Fatalf("wrap: got %d, want %d", ok.wrap, posMask+1)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for capacity beyond the field range")
		}
	}()
	var c cursorTagged
	c.init(posMask + 2)
}

// =============================================================================
// Wide Encoding - 128-bit Cell
// =============================================================================

// TestWideAdvance tests the successor rule of the wide encoding: the
// generation increments once per full pass over the ring.
func TestWideAdvance(t *testing.T) {
	var c cursorWide
	c.init(4)

	tests := []struct {
		name             string
		pos, gen         uint64
		wantPos, wantGen uint64
	}{
		{"interior", 1, 0, 2, 0},
		{"ring boundary", 3, 0, 4, 1},
		{"after boundary", 4, 1, 5, 1},
		{"second pass", 7, 1, 8, 2},
	}

	for tt := range slices.Values(tests) {
		t.Run(tt.name, func(t *testing.T) {
			pos, gen := c.advance(tt.pos, tt.gen)
			if pos != tt.wantPos || gen != tt.wantGen {
				t.Fatalf("advance(%d, %d) = (%d, %d), want (%d, %d)",
					tt.pos, tt.gen, pos, gen, tt.wantPos, tt.wantGen)
			}
		})
	}

	// A single-slot ring bumps the generation on every advance.
	var one cursorWide
	one.init(1)
	if pos, gen := one.advance(0, 0); pos != 1 || gen != 1 {
		t.Fatalf("advance(0, 0) = (%d, %d), want (1, 1)", pos, gen)
	}
}

// TestWideCAS tests pair semantics of the double-width CAS: both halves
// of the cell must match.
func TestWideCAS(t *testing.T) {
	var c cursorWide
	c.init(2)

	if pos, gen := c.load(); pos != 0 || gen != 0 {
		t.Fatalf("fresh cursor: (%d, %d), want (0, 0)", pos, gen)
	}
	if !c.cas(0, 0, 1, 0) {
		t.Fatal("cas from the current pair failed")
	}
	if c.cas(1, 1, 2, 1) {
		t.Fatal("cas with a mismatched generation succeeded")
	}
	if c.cas(0, 0, 2, 1) {
		t.Fatal("cas with a mismatched position succeeded")
	}
	if !c.cas(1, 0, 2, 1) {
		t.Fatal("cas from the current pair failed")
	}
	if pos, gen := c.load(); pos != 2 || gen != 1 {
		t.Fatalf("after cas: (%d, %d), want (2, 1)", pos, gen)
	}
}

// =============================================================================
// Ring Behavior at the Field Wrap
// =============================================================================

// TestTaggedFieldWrapCrossing drives a ring across the 48-bit field
// boundary. The decoded position must stay continuous so cursor
// positions and slot turns never disagree; a discontinuity here would
// strand every subsequent operation.
func TestTaggedFieldWrapCrossing(t *testing.T) {
	for capacity := range slices.Values([]uint64{1, 3, 4, 7}) {
		var r ring[uint64, cursorTagged, *cursorTagged]
		r.init(make([]Slot[uint64], capacity))
		start := r.tail.wrap - 2
		seedTagged(&r, start)

		for i := range uint64(8) {
			v := start + i
			if err := r.tryPush(&v); err != nil {
				t.Fatalf("cap %d: push %d: %v", capacity, i, err)
			}
			got, err := r.tryPop()
			if err != nil {
				t.Fatalf("cap %d: pop %d: %v", capacity, i, err)
			}
			if got != v {
				t.Fatalf("cap %d: pop %d: got %d, want %d", capacity, i, got, v)
			}
		}

		pos, gen := r.tail.load()
		if pos != start+8 {
			t.Fatalf("cap %d: tail position %d, want %d", capacity, pos, start+8)
		}
		if gen != 1 {
			t.Fatalf("cap %d: tail generation %d, want 1", capacity, gen)
		}
	}
}

// TestTaggedFieldWrapFull fills to capacity straddling the boundary,
// verifies the full and empty checks, then drains in order.
func TestTaggedFieldWrapFull(t *testing.T) {
	for capacity := range slices.Values([]uint64{2, 3, 5, 8}) {
		var r ring[uint64, cursorTagged, *cursorTagged]
		r.init(make([]Slot[uint64], capacity))
		start := r.tail.wrap - 1
		seedTagged(&r, start)

		for i := range capacity {
			v := start + i
			if err := r.tryPush(&v); err != nil {
				t.Fatalf("cap %d: push %d: %v", capacity, i, err)
			}
		}
		v := uint64(0)
		if err := r.tryPush(&v); !errors.Is(err, ErrFull) {
			t.Fatalf("cap %d: push on full: got %v, want ErrFull", capacity, err)
		}
		if got := r.length(); got != int(capacity) {
			t.Fatalf("cap %d: length %d, want %d", capacity, got, capacity)
		}

		for i := range capacity {
			got, err := r.tryPop()
			if err != nil {
				t.Fatalf("cap %d: pop %d: %v", capacity, i, err)
			}
			if got != start+i {
				t.Fatalf("cap %d: pop %d: got %d, want %d", capacity, i, got, start+i)
			}
		}
		if _, err := r.tryPop(); !errors.Is(err, ErrEmpty) {
			t.Fatalf("cap %d: pop on empty: got %v, want ErrEmpty", capacity, err)
		}
	}
}

// =============================================================================
// Cross-Encoding Equivalence
// =============================================================================

// TestRingCodecEquivalence runs one random operation stream through a
// ring of each encoding and requires identical observable behavior. The
// encodings differ only in how the pair is stored, never in what the
// queue does.
func TestRingCodecEquivalence(t *testing.T) {
	for capacity := range slices.Values([]int{1, 2, 5, 8}) {
		var tagged ring[uint32, cursorTagged, *cursorTagged]
		var wide ring[uint32, cursorWide, *cursorWide]
		tagged.init(make([]Slot[uint32], capacity))
		wide.init(make([]Slot[uint32], capacity))

		for i := range 2000 {
			if fastrand.Uint32n(2) == 0 {
				v := fastrand.Uint32()
				errT := tagged.tryPush(&v)
				errW := wide.tryPush(&v)
				if (errT == nil) != (errW == nil) {
					t.Fatalf("cap %d op %d: push diverged: tagged %v, wide %v", capacity, i, errT, errW)
				}
			} else {
				vT, errT := tagged.tryPop()
				vW, errW := wide.tryPop()
				if (errT == nil) != (errW == nil) {
					t.Fatalf("cap %d op %d: pop diverged: tagged %v, wide %v", capacity, i, errT, errW)
				}
				if errT == nil && vT != vW {
					t.Fatalf("cap %d op %d: pop values diverged: tagged %d, wide %d", capacity, i, vT, vW)
				}
			}
			if tagged.length() != wide.length() {
				t.Fatalf("cap %d op %d: length diverged: tagged %d, wide %d",
					capacity, i, tagged.length(), wide.length())
			}
		}
	}
}

// =============================================================================
// Advisory Length Clamping
// =============================================================================

// TestLengthClamping pins the advisory length into [0, capacity] even
// when the two cursor loads land on a transiently inconsistent pair.
func TestLengthClamping(t *testing.T) {
	var r ring[int, cursorTagged, *cursorTagged]
	r.init(make([]Slot[int], 4))
	w := r.tail.wrap

	// Head observed ahead of tail reads as empty.
	r.tail.word.StoreRelaxed(packTagged(3, 0, w))
	r.head.word.StoreRelaxed(packTagged(5, 0, w))
	if got := r.length(); got != 0 {
		t.Fatalf("length: got %d, want 0", got)
	}

	// Tail observed more than capacity ahead clamps to capacity.
	r.tail.word.StoreRelaxed(packTagged(9, 0, w))
	r.head.word.StoreRelaxed(packTagged(2, 0, w))
	if got := r.length(); got != 4 {
		t.Fatalf("length: got %d, want 4", got)
	}
}
