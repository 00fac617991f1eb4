// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !nblfq_dwcas

package nblfq

// cursorDefault is the cursor encoding compiled into the public queue
// shapes. Without the nblfq_dwcas build tag the tagged encoding is used:
// one 64-bit word per cursor, single-word CAS, positions limited to the
// 48-bit field (see cursorTagged).
type cursorDefault = cursorTagged
