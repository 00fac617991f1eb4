// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build nblfq_dwcas

package nblfq

// cursorDefault is the cursor encoding compiled into the public queue
// shapes. With the nblfq_dwcas build tag the double-width encoding is
// used: one 128-bit cell per cursor holding full 64-bit position and
// generation fields (see cursorWide).
type cursorDefault = cursorWide
