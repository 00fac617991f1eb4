// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nblfq

import (
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrFull indicates that TryPush found every slot still occupied.
//
// ErrFull is a control flow signal, not a failure. The queue is exercising
// backpressure: the caller decides whether to retry later, back off, drop
// the item, or displace the oldest item with ForcePush.
//
// ErrFull wraps [iox.ErrWouldBlock], so errors.Is(err, ErrFull),
// IsWouldBlock, and the iox classifiers all agree on one returned value.
//
// Example:
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.TryPush(&item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if errors.Is(err, nblfq.ErrFull) {
//	        backoff.Wait()  // Adaptive backpressure
//	        continue
//	    }
//	    return err  // Unexpected error
//	}
var ErrFull = fmt.Errorf("nblfq: queue full: %w", iox.ErrWouldBlock)

// ErrEmpty indicates that TryPop found no published item.
//
// Like ErrFull it is a control flow signal wrapping [iox.ErrWouldBlock].
// Callers needing to distinguish "empty" from "full" (for example a
// combined retry loop over both ends of a pipeline) can use errors.Is
// against the two sentinels; callers that only care about "try again
// later" can use IsWouldBlock on either.
var ErrEmpty = fmt.Errorf("nblfq: queue empty: %w", iox.ErrWouldBlock)

// IsWouldBlock reports whether err indicates the operation would block.
// True for both ErrFull and ErrEmpty.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrFull, and ErrEmpty.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
