// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"log/slog"
	"sync"
	"time"

	"github.com/bureau-foundation/nposix/lib/clock"
	"github.com/bureau-foundation/nposix/lib/process"
)

// fatalf terminates the process on a broken invariant. Tests replace
// it to observe the failure instead of exiting.
var fatalf = process.Fatalf

// Config configures an Event. Zero fields take production defaults.
type Config struct {
	// Clock is the wall clock that deadlines are computed against.
	// Default: clock.Real().
	Clock clock.Clock

	// ProcessClock measures how long a wait actually took, for the
	// early-wake advisory. It must not follow wall-clock steps.
	// Default: clock.Monotonic().
	ProcessClock clock.ProcessClock

	// Logger receives the early-wake advisory. Default: slog.Default().
	Logger *slog.Logger
}

// Event is a condition variable with single-waiter Signal and a timed
// wait against an absolute wall-clock deadline.
//
// An Event must be created with New and disposed exactly once with
// Dispose after every waiter has returned. Using the zero value, or
// using an Event after Dispose, is a fatal error.
//
// Waiters are woken in arrival order; that is the only fairness an
// Event provides. Signal has no memory: a Signal with no waiter
// blocked is lost, so callers loop on their own predicate.
type Event struct {
	clock   clock.Clock
	process clock.ProcessClock
	logger  *slog.Logger

	mu       sync.Mutex
	waiters  []chan struct{}
	disposed bool
}

// New returns an initialized Event.
func New(config Config) *Event {
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.ProcessClock == nil {
		config.ProcessClock = clock.Monotonic()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Event{
		clock:   config.Clock,
		process: config.ProcessClock,
		logger:  config.Logger,
	}
}

// Signal wakes the longest-blocked waiter, if any.
func (e *Event) Signal() {
	e.mu.Lock()
	if problem := e.unusableLocked(); problem != "" {
		e.mu.Unlock()
		fatalf("Signal on %s", problem)
		return
	}
	if len(e.waiters) > 0 {
		waiter := e.waiters[0]
		e.waiters[0] = nil
		e.waiters = e.waiters[1:]
		close(waiter)
	}
	e.mu.Unlock()
}

// Wait blocks until Signal wakes this waiter. m must be held by the
// caller; it is released while blocked and held again on return.
func (e *Event) Wait(m sync.Locker) {
	waiter := e.enqueue("Wait", m)
	if waiter == nil {
		return
	}
	m.Unlock()
	<-waiter
	m.Lock()
}

// TimedWait makes exactly one attempt to wait for Signal, giving up
// when the wall clock reaches now+timeout. m must be held by the
// caller; it is released while blocked and held again on return,
// whatever the outcome.
//
// A timeout of zero or less never blocks. The result is TimedOut
// unless a Signal from another goroutine lands in the brief window
// while m is released.
//
// The deadline is absolute. If the wall clock is stepped forward
// during the wait, TimedOut can arrive before timeout has actually
// elapsed; TimedWait logs a "spurious early wake" warning and still
// returns TimedOut. Stepping it backward makes the wait longer.
func (e *Event) TimedWait(m sync.Locker, timeout time.Duration) Outcome {
	if timeout < 0 {
		timeout = 0
	}
	waiter := e.enqueue("TimedWait", m)
	if waiter == nil {
		return TimedOut
	}

	// Start the elapsed measurement before sampling the wall clock so
	// that the measured wait can only be longer than the interval the
	// deadline covers, never shorter.
	start := e.process.Elapsed()
	deadline := Deadline(e.clock.Now(), timeout)

	m.Unlock()

	outcome := TimedOut
	if timeout > 0 {
		timer := e.clock.At(deadline)
		select {
		case <-waiter:
			outcome = Signaled
		case <-timer.C:
		}
		timer.Stop()
	} else {
		select {
		case <-waiter:
			outcome = Signaled
		default:
		}
	}

	// A Signal that picked this waiter between the deadline firing
	// and the dequeue has already been spent on it; reporting TimedOut
	// would lose the wake-up.
	if outcome == TimedOut && !e.dequeue(waiter) {
		outcome = Signaled
	}

	m.Lock()

	elapsed := e.process.Elapsed() - start
	if outcome == TimedOut && elapsed < timeout {
		e.logger.Warn("spurious early wake",
			"waited", elapsed,
			"requested", timeout,
			"deadline", deadline,
			"wall_clock", e.clock.Now().Round(0),
		)
	}
	return outcome
}

// TimedWaitSeconds is TimedWait with the timeout given in seconds.
func (e *Event) TimedWaitSeconds(m sync.Locker, seconds float64) Outcome {
	return e.TimedWait(m, Seconds(seconds))
}

// Pending returns the number of goroutines currently blocked in Wait
// or TimedWait.
func (e *Event) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.waiters)
}

// Dispose releases the Event. It must be called exactly once, after
// every waiter has returned.
func (e *Event) Dispose() {
	e.mu.Lock()
	if problem := e.unusableLocked(); problem != "" {
		e.mu.Unlock()
		fatalf("Dispose of %s", problem)
		return
	}
	if pending := len(e.waiters); pending > 0 {
		e.mu.Unlock()
		fatalf("Dispose of event with %d blocked waiters", pending)
		return
	}
	e.disposed = true
	e.mu.Unlock()
}

// enqueue validates the event and the caller's mutex and registers a
// new waiter. Returns nil only when fatalf has been intercepted.
func (e *Event) enqueue(operation string, m sync.Locker) chan struct{} {
	if m == nil {
		fatalf("%s with nil mutex", operation)
		return nil
	}
	if tryLocker, ok := m.(interface{ TryLock() bool }); ok && tryLocker.TryLock() {
		m.Unlock()
		fatalf("%s called without holding the mutex", operation)
		return nil
	}

	e.mu.Lock()
	if problem := e.unusableLocked(); problem != "" {
		e.mu.Unlock()
		fatalf("%s on %s", operation, problem)
		return nil
	}
	waiter := make(chan struct{})
	e.waiters = append(e.waiters, waiter)
	e.mu.Unlock()
	return waiter
}

// dequeue removes waiter from the queue. Returns false if Signal has
// already removed it.
func (e *Event) dequeue(waiter chan struct{}) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, candidate := range e.waiters {
		if candidate == waiter {
			e.waiters = append(e.waiters[:i], e.waiters[i+1:]...)
			return true
		}
	}
	return false
}

// unusableLocked describes why the event cannot be used, or returns
// the empty string. Must be called with e.mu held.
func (e *Event) unusableLocked() string {
	switch {
	case e.clock == nil:
		return "uninitialized event"
	case e.disposed:
		return "disposed event"
	default:
		return ""
	}
}
