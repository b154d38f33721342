// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock initialized to the given wall-clock time
// with zero elapsed process time. Time stands still until Advance or
// Step is called. After and At register pending waiters that fire when
// the clock moves past their deadline.
//
// FakeClock is safe for concurrent use by multiple goroutines.
func Fake(initial time.Time) *FakeClock {
	clock := &FakeClock{
		current: initial,
	}
	clock.waitersChanged = sync.NewCond(&clock.mu)
	return clock
}

// FakeClock is a deterministic Clock and ProcessClock for testing.
// Advance moves wall-clock and elapsed time forward together. Step
// moves only the wall clock, simulating an NTP or daylight-saving
// adjustment: absolute waiters registered with At fire if the step
// crosses their deadline, while relative waiters keep their remaining
// duration.
type FakeClock struct {
	mu             sync.Mutex
	current        time.Time
	elapsed        time.Duration
	waiters        []*fakeWaiter
	waitersChanged *sync.Cond
}

// fakeWaiter is a pending After or At.
type fakeWaiter struct {
	deadline time.Time
	channel  chan time.Time

	// stopped is set by Timer.Stop. Stopped waiters are skipped and
	// dropped on the next firing pass.
	stopped bool

	// fired prevents a second delivery from overlapping Advance calls.
	fired bool

	// absolute is set for At waiters. Their deadline is an instant on
	// the wall-clock timeline and does not move when the clock is
	// stepped; relative waiters are shifted along with the step.
	absolute bool
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// After returns a channel that receives after duration d elapses. If
// d <= 0, the channel receives immediately without registering a
// waiter.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- c.current
		return channel
	}

	c.waiters = append(c.waiters, &fakeWaiter{
		deadline: c.current.Add(d),
		channel:  channel,
	})
	c.waitersChanged.Broadcast()
	return channel
}

// At returns a Timer whose channel receives once the wall clock
// reaches deadline, either through Advance or through a forward Step.
// If the deadline has already passed, the channel receives
// immediately without registering a waiter.
func (c *FakeClock) At(deadline time.Time) *Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !deadline.After(c.current) {
		return firedTimer(c.current)
	}

	waiter := &fakeWaiter{
		deadline: deadline,
		channel:  make(chan time.Time, 1),
		absolute: true,
	}
	c.waiters = append(c.waiters, waiter)
	c.waitersChanged.Broadcast()

	return &Timer{C: waiter.channel, stopFunc: c.stopWaiter(waiter)}
}

// stopWaiter returns a Timer stop function for waiter.
func (c *FakeClock) stopWaiter(waiter *fakeWaiter) func() bool {
	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if waiter.stopped || waiter.fired {
			return false
		}
		waiter.stopped = true
		return true
	}
}

// Elapsed returns the fake process time: the sum of all Advance calls.
// Step does not change it.
func (c *FakeClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

// Step moves the wall clock by offset, which may be negative, without
// advancing elapsed process time. Relative waiters are shifted by the
// same offset so their remaining duration is unchanged. Absolute
// waiters keep their deadline: a forward step fires every one it
// crosses, a backward step pushes them further away.
func (c *FakeClock) Step(offset time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(offset)
	for _, waiter := range c.waiters {
		if !waiter.absolute {
			waiter.deadline = waiter.deadline.Add(offset)
		}
	}
	target := c.current
	c.mu.Unlock()

	c.fireExpired(target)
}

// Advance moves the clock forward by d and fires every waiter whose
// deadline falls within the new time, in deadline order. Elapsed
// process time advances by the same amount.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	c.elapsed += d
	target := c.current
	c.mu.Unlock()

	c.fireExpired(target)
}

// fireExpired delivers target to every waiter whose deadline is not
// after it. Channels have capacity 1 and receive once, so the sends
// never block.
func (c *FakeClock) fireExpired(target time.Time) {
	expired := c.collectExpired(target)
	sort.Slice(expired, func(i, j int) bool {
		return expired[i].deadline.Before(expired[j].deadline)
	})
	for _, waiter := range expired {
		waiter.channel <- target
	}
}

// collectExpired removes expired and stopped waiters from the pending
// list and returns the expired ones, marked fired.
func (c *FakeClock) collectExpired(target time.Time) []*fakeWaiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expired, remaining []*fakeWaiter
	for _, waiter := range c.waiters {
		switch {
		case waiter.stopped:
		case !waiter.deadline.After(target):
			waiter.fired = true
			expired = append(expired, waiter)
		default:
			remaining = append(remaining, waiter)
		}
	}
	c.waiters = remaining
	return expired
}

// WaitForTimers blocks until at least n waiters are pending
// (registered but not yet fired or stopped). It closes the race
// between a goroutine registering a wait and the test moving the
// clock:
//
//	go func() { outcomes <- ev.TimedWait(mu, 5*time.Second) }()
//	fakeClock.WaitForTimers(1)         // blocks until TimedWait registers
//	fakeClock.Advance(5 * time.Second) // deterministically fires
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.pendingCountLocked() < n {
		c.waitersChanged.Wait()
	}
}

// PendingCount returns the number of pending waiters.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingCountLocked()
}

func (c *FakeClock) pendingCountLocked() int {
	count := 0
	for _, waiter := range c.waiters {
		if !waiter.stopped {
			count++
		}
	}
	return count
}
