// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides the two injectable time sources used by the
// wait primitives: a wall-clock [Clock] (the epoch timeline that
// absolute deadlines live on) and a [ProcessClock] (an elapsed-time
// counter that wall-clock adjustments do not move).
//
// Production code accepts a Clock parameter instead of calling
// time.Now or time.After directly, and a ProcessClock instead of measuring elapsed time with
// time.Since. In production, [Real] and [Monotonic] provide the system
// behavior; on Linux, Real's At is a kernel timer on CLOCK_REALTIME,
// so a system clock change moves the wake-up exactly as the Fake's
// Step does. In tests, [Fake] provides a single deterministic value
// that implements both interfaces.
//
// # Wiring Pattern
//
// Add clock fields to structs that use time:
//
//	type Waiter struct {
//	    clock   clock.Clock
//	    process clock.ProcessClock
//	}
//
// In production:
//
//	w := &Waiter{clock: clock.Real(), process: clock.Monotonic()}
//
// In tests:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	w := &Waiter{clock: c, process: c}
//	// ... start goroutines ...
//	c.WaitForTimers(1)         // wait for goroutine to register a timer
//	c.Advance(5 * time.Second) // fire the timer deterministically
//
// # Simulating Clock Adjustment
//
// [FakeClock.Step] moves only the wall clock. A forward step past an
// absolute deadline registered with At fires it even though no process
// time has elapsed: exactly the spurious early wake that an NTP or
// daylight-saving adjustment causes for a real timed wait. A backward
// step leaves the deadline further away than the caller asked for.
//
// # FakeClock Synchronization
//
// When a goroutine calls After or At on a FakeClock, it registers a
// pending timer. Use WaitForTimers to
// block until a specific number of timers are registered before
// calling Advance or Step. This eliminates the race between timer
// registration and time advancement that plagues tests using
// time.Sleep for synchronization.
package clock
