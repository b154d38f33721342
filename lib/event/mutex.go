// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"sync"
	"sync/atomic"
)

// Mutex lifecycle states.
const (
	mutexUninitialized uint32 = iota
	mutexReady
	mutexDisposed
)

// Mutex is a sync.Mutex with an explicit lifecycle: created by
// NewMutex, disposed exactly once by Dispose while unlocked. Using
// the zero value or a disposed Mutex is a fatal error.
//
// Mutex implements sync.Locker and TryLock, so Event can verify that
// a waiter holds it.
type Mutex struct {
	mu    sync.Mutex
	state atomic.Uint32
}

// NewMutex returns an initialized, unlocked Mutex.
func NewMutex() *Mutex {
	m := &Mutex{}
	m.state.Store(mutexReady)
	return m
}

// Lock acquires the mutex, blocking until it is available.
func (m *Mutex) Lock() {
	if !m.usable("Lock") {
		return
	}
	m.mu.Lock()
}

// TryLock acquires the mutex if it is free and reports whether it did.
// Being held elsewhere is the only reason it returns false.
func (m *Mutex) TryLock() bool {
	if !m.usable("TryLock") {
		return false
	}
	return m.mu.TryLock()
}

// Unlock releases the mutex. Unlocking a mutex that is not locked
// terminates the process (enforced by sync.Mutex).
func (m *Mutex) Unlock() {
	if !m.usable("Unlock") {
		return
	}
	m.mu.Unlock()
}

// Dispose retires the mutex. It must be unlocked and must not be used
// afterwards.
func (m *Mutex) Dispose() {
	if !m.usable("Dispose") {
		return
	}
	if !m.mu.TryLock() {
		fatalf("Dispose of locked mutex")
		return
	}
	if !m.state.CompareAndSwap(mutexReady, mutexDisposed) {
		m.mu.Unlock()
		fatalf("Dispose of mutex raced with another Dispose")
		return
	}
	m.mu.Unlock()
}

// usable reports whether the mutex may be used, calling fatalf with
// operation if not.
func (m *Mutex) usable(operation string) bool {
	switch m.state.Load() {
	case mutexReady:
		return true
	case mutexDisposed:
		fatalf("%s on disposed mutex", operation)
	default:
		fatalf("%s on uninitialized mutex", operation)
	}
	return false
}
