// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package random

import "math/rand/v2"

// Source adapts a Seed to math/rand/v2's Source interface so that the
// standard distribution helpers (IntN, Shuffle, NormFloat64, ...) can
// run on a reproducible 48-bit stream:
//
//	source := random.NewSource(random.InitialSeed)
//	r := rand.New(source)
//	r.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
//
// Like a bare Seed, a Source is not safe for concurrent use.
type Source struct {
	seed Seed
}

var _ rand.Source = (*Source)(nil)

// NewSource returns a Source starting at seed.
func NewSource(seed Seed) *Source {
	return &Source{seed: NewSeed(uint64(seed))}
}

// Uint64 draws two 32-bit values and concatenates them, first draw in
// the high half.
func (s *Source) Uint64() uint64 {
	high := uint64(uint32(NextSeededInt32(&s.seed)))
	low := uint64(uint32(NextSeededInt32(&s.seed)))
	return high<<32 | low
}

// Seed returns the current state of the underlying stream.
func (s *Source) Seed() Seed { return s.seed }
