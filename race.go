// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package nblfq

// RaceEnabled is true when the race detector is active.
// Used by tests to skip or shrink concurrent stress runs: the detector
// cannot see the acquire-release pairing between slot turns and slot
// items and reports false positives on the generic shapes.
const RaceEnabled = true
