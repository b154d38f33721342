// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package random

// global is the process-wide stream behind the Next functions.
//
// It is deliberately unsynchronized. Concurrent calls to NextInt32,
// NextUint32, NextDouble, or Reseed race on it: values may repeat and
// the race detector will report it. Callers that draw from several
// goroutines either own a Seed per goroutine and use the NextSeeded
// functions, or serialize their global calls behind their own mutex.
var global = InitialSeed

// NextInt32 advances the global seed and returns a value as
// [NextSeededInt32] does. Not safe for concurrent use.
func NextInt32() int32 { return NextSeededInt32(&global) }

// NextUint32 advances the global seed and returns a value as
// [NextSeededUint32] does. Not safe for concurrent use.
func NextUint32() uint32 { return NextSeededUint32(&global) }

// NextDouble advances the global seed and returns a value as
// [NextSeededDouble] does. Not safe for concurrent use.
func NextDouble() float64 { return NextSeededDouble(&global) }

// Reseed replaces the global seed with value truncated to 48 bits.
// Not safe for concurrent use with the other global functions.
func Reseed(value uint64) { global = NewSeed(value) }

// GlobalSeed returns the current global seed. Not safe for concurrent
// use with the other global functions.
func GlobalSeed() Seed { return global }
