// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package clock

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

// At arms a timerfd on CLOCK_REALTIME with TFD_TIMER_ABSTIME, so the
// kernel fires it when the system wall clock reaches deadline. Setting
// the system clock past deadline fires it at once; setting it back
// delays it.
//
// If the timerfd cannot be created (descriptor exhaustion), At falls
// back to a runtime timer for the remaining duration, which does not
// follow later wall-clock steps.
func (realClock) At(deadline time.Time) *Timer {
	now := time.Now()
	if !deadline.After(now) {
		return firedTimer(now)
	}
	timer, err := armRealtimeTimer(deadline)
	if err != nil {
		return relativeTimer(deadline.Round(0).Sub(now.Round(0)))
	}
	return &Timer{C: timer.channel, stopFunc: timer.stop}
}

const (
	timerArmed int32 = iota
	timerFired
	timerStopped
)

// realtimeTimer owns one timerfd. A goroutine blocks reading it
// through the runtime poller; closing the file wakes that read.
type realtimeTimer struct {
	fd      int
	file    *os.File
	channel chan time.Time
	state   atomic.Int32
}

func armRealtimeTimer(deadline time.Time) (*realtimeTimer, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_REALTIME, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("timerfd_create: %w", err)
	}
	spec := unix.ItimerSpec{Value: unix.NsecToTimespec(deadline.UnixNano())}
	if err := unix.TimerfdSettime(fd, unix.TFD_TIMER_ABSTIME, &spec, nil); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("timerfd_settime: %w", err)
	}

	timer := &realtimeTimer{
		fd:      fd,
		file:    os.NewFile(uintptr(fd), "timerfd"),
		channel: make(chan time.Time, 1),
	}
	go timer.wait()
	return timer, nil
}

func (t *realtimeTimer) wait() {
	var expirations [8]byte
	if _, err := t.file.Read(expirations[:]); err != nil {
		// Closed by stop.
		return
	}
	if t.state.CompareAndSwap(timerArmed, timerFired) {
		t.channel <- time.Now()
		t.file.Close()
	}
}

func (t *realtimeTimer) stop() bool {
	if !t.state.CompareAndSwap(timerArmed, timerStopped) {
		return false
	}
	t.file.Close()
	return true
}
