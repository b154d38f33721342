// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock is the wall-clock (epoch) time source. Production code injects
// Real(); tests inject Fake() with deterministic time control.
//
// Wall-clock time can be stepped by NTP or a daylight-saving change.
// Relative waits (After) measure a duration and are unaffected by such
// a step. Absolute waits (At) target an instant on the wall-clock
// timeline and fire early or late when the clock is stepped across
// them.
type Clock interface {
	// Now returns the current wall-clock time.
	Now() time.Time

	// After returns a channel that receives the current time after
	// duration d elapses. Equivalent to time.After. If d <= 0, the
	// channel receives immediately.
	After(d time.Duration) <-chan time.Time

	// At returns a Timer whose C channel receives once the wall clock
	// reaches deadline. If deadline is not after Now, C receives
	// immediately. Call Stop to release the timer when it is no
	// longer needed.
	At(deadline time.Time) *Timer
}

// EpochNanos returns the number of nanoseconds elapsed since
// 1970-01-01T00:00:00Z according to c.
func EpochNanos(c Clock) int64 {
	return c.Now().UnixNano()
}

// Timer is a pending At wait. C has capacity 1 and receives at most
// once.
type Timer struct {
	C <-chan time.Time

	stopFunc func() bool
}

// Stop prevents the Timer from firing and releases it. Returns true if
// the call stops the timer, false if the timer has already fired or
// been stopped.
func (t *Timer) Stop() bool { return t.stopFunc() }

// firedTimer returns a Timer that has already delivered now.
func firedTimer(now time.Time) *Timer {
	channel := make(chan time.Time, 1)
	channel <- now
	return &Timer{C: channel, stopFunc: func() bool { return false }}
}
