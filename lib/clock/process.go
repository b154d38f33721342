// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

// ProcessClock measures elapsed time from an arbitrary but fixed
// origin. It is a separate time source from Clock: stepping the wall
// clock does not move it, which is what makes it usable for detecting
// wall-clock adjustments during a wait.
type ProcessClock interface {
	// Elapsed returns the time since the clock's origin. Successive
	// calls never return a smaller value.
	Elapsed() time.Duration
}

// Monotonic returns a ProcessClock backed by CLOCK_MONOTONIC. The
// origin is the first sample taken through any Monotonic clock in the
// process, so readings start near zero.
func Monotonic() ProcessClock { return &kernelClock{id: unix.CLOCK_MONOTONIC, origin: &monotonicOrigin} }

// ProcessCPU returns a ProcessClock backed by
// CLOCK_PROCESS_CPUTIME_ID: CPU time consumed by all threads of the
// process. It does not advance while the process is blocked, so it
// measures work rather than waiting.
func ProcessCPU() ProcessClock { return &kernelClock{id: unix.CLOCK_PROCESS_CPUTIME_ID, origin: &cpuOrigin} }

// Origins are shared per clock id so that two clock values created at
// different times report on the same timeline. Zero means unset; a
// raw reading of exactly zero nanoseconds never occurs in practice
// for either clock after process start.
var (
	monotonicOrigin atomic.Int64
	cpuOrigin       atomic.Int64
)

type kernelClock struct {
	id     int32
	origin *atomic.Int64
}

func (c *kernelClock) Elapsed() time.Duration {
	var timespec unix.Timespec
	if err := unix.ClockGettime(c.id, &timespec); err != nil {
		// clock_gettime only fails for an invalid clock id, which
		// both constructors rule out.
		panic("clock: clock_gettime failed: " + err.Error())
	}
	now := timespec.Nano()
	c.origin.CompareAndSwap(0, now)
	return time.Duration(now - c.origin.Load())
}
