// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package clock

import "time"

// At waits for the duration remaining until deadline on a runtime
// timer. Without timerfd there is no absolute wall-clock timer, so a
// later clock step does not move the wake-up.
func (realClock) At(deadline time.Time) *Timer {
	now := time.Now()
	if !deadline.After(now) {
		return firedTimer(now)
	}
	return relativeTimer(deadline.Round(0).Sub(now.Round(0)))
}
