// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package backoff computes retry delays that double from an initial
// value up to a cap, with full jitter drawn from a caller-owned
// [random.Seed]. Because the seed is explicit, two Backoffs started
// from the same seed produce the same delay sequence, which keeps
// retry schedules reproducible in tests.
//
// Sleeping goes through an injected [clock.Clock], so tests drive the
// schedule with a fake clock instead of real time.
package backoff
