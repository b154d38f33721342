// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package random implements the classical 48-bit linear congruential
// generator (multiplier 0x5DEECE66D, increment 0xB) bit for bit, so a
// stream started from a given [Seed] produces the same values in every
// process, on every platform, and in every other implementation of the
// same generator.
//
// Each draw advances the state and extracts one of three encodings
// from the new state:
//
//   - [NextSeededUint32]: the top 31 bits, in [0, 2^31)
//   - [NextSeededInt32]: the top 32 bits reinterpreted as int32
//   - [NextSeededDouble]: all 48 bits scaled into [0.0, 1.0)
//
// # Two ownership modes
//
// The NextSeeded functions operate on a caller-owned [Seed] and keep
// no hidden state. They are the thread-safe primitive: goroutines that
// each own a distinct Seed never interfere.
//
// [NextInt32], [NextUint32], and [NextDouble] operate on one global
// Seed initialized to [InitialSeed] and replaced with [Reseed]. The
// global path takes no lock; concurrent callers race on it. Callers
// that need concurrent randomness use per-goroutine Seeds instead.
//
// This generator is for reproducible simulation, jitter, and test
// data. It is not cryptographically secure.
//
// This package has no dependencies on other nposix packages.
package random
