// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sequence turns the seeded generators in lib/random into
// reproducible artifacts: a [Batch] of values drawn from a starting
// seed, written in one of three [Format]s with optional [Compression],
// and fingerprinted with a [Digest] so two runs (or two
// implementations of the same generator) can be compared without
// shipping the values around.
//
// A batch is fully determined by its starting seed, its [Kind], and
// its length. [Verify] regenerates a decoded batch from those three
// and reports the first value that disagrees.
//
// [Uniformity] bins NextSeededDouble draws into a [Histogram] for a
// quick check of the generator's distribution, with a Pearson
// chi-square test (gonum) alongside the per-bin deviation.
package sequence
