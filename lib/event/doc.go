// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package event provides a bounded condition wait: block until another
// goroutine signals, or until an absolute wall-clock deadline passes,
// and report which happened.
//
// The caller holds a mutex, calls [Event.TimedWait] with a relative
// timeout, and gets back an [Outcome]:
//
//	mu.Lock()
//	for !ready {
//	    if ev.TimedWait(mu, 5*time.Second) == event.TimedOut {
//	        break
//	    }
//	}
//	mu.Unlock()
//
// TimedWait converts the timeout into an absolute [Deadline] on the
// wall clock once, at the start of the call, and never recomputes it.
// Because the deadline is absolute, a wall-clock step during the wait
// moves the wake-up: a forward step (NTP correction, daylight-saving
// change) can end the wait early. TimedWait detects this by measuring
// the wait on a separate [clock.ProcessClock]; an early TimedOut is
// logged as a "spurious early wake" warning but returned unchanged.
// The primitive makes exactly one wait attempt per call; looping
// against a predicate is the caller's job.
//
// # Errors
//
// Timing out is a normal outcome. Misuse is not: waiting without the
// mutex held, using an Event or [Mutex] before initialization or after
// Dispose, and disposing one that is still in use each terminate the
// process through [process.Fatalf] with the file, line, and function
// of the violation.
package event
