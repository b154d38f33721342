// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"fmt"
	"math"
	"time"
)

// Outcome classifies how a single timed wait ended. The zero value is
// not a valid outcome.
type Outcome uint8

const (
	// Signaled means another goroutine called Signal and this waiter
	// was the one woken.
	Signaled Outcome = iota + 1

	// TimedOut means the wall clock reached the deadline first. It is
	// a normal result, not an error.
	TimedOut
)

// String returns "signaled" or "timed_out".
func (o Outcome) String() string {
	switch o {
	case Signaled:
		return "signaled"
	case TimedOut:
		return "timed_out"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(o))
	}
}

// Deadline returns the absolute wall-clock instant timeout after now.
// A negative timeout is treated as zero. The monotonic clock reading
// is stripped from the result: a deadline is a point on the epoch
// timeline, and comparisons against it must use wall-clock time.
func Deadline(now time.Time, timeout time.Duration) time.Time {
	if timeout < 0 {
		timeout = 0
	}
	return now.Round(0).Add(timeout)
}

// Seconds converts a timeout in floating-point seconds to a Duration,
// rounding to the nearest nanosecond. Negative values and NaN become
// zero; values beyond the Duration range saturate.
func Seconds(seconds float64) time.Duration {
	if !(seconds > 0) {
		return 0
	}
	nanoseconds := math.Round(seconds * float64(time.Second))
	if nanoseconds >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(nanoseconds)
}
