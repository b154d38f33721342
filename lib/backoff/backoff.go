// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package backoff

import (
	"context"
	"time"

	"github.com/bureau-foundation/nposix/lib/clock"
	"github.com/bureau-foundation/nposix/lib/random"
)

// Config configures a Backoff.
type Config struct {
	// Initial is the ceiling for the first delay. Default: 1 second.
	Initial time.Duration

	// Max caps the ceiling as it doubles. Default: 30 seconds.
	Max time.Duration

	// Seed is the jitter generator's starting state. Zero is a valid
	// state, so only nil selects the default, random.InitialSeed. The
	// pointed-to seed is copied, not advanced.
	Seed *random.Seed

	// Clock is used by Wait. Default: clock.Real().
	Clock clock.Clock
}

// Backoff produces a jittered exponential delay sequence. It is not
// safe for concurrent use; each retry loop owns its own Backoff.
type Backoff struct {
	initial time.Duration
	max     time.Duration
	clock   clock.Clock

	seed    random.Seed
	ceiling time.Duration
	attempt int
}

// New returns a Backoff at its first attempt.
func New(config Config) *Backoff {
	if config.Initial <= 0 {
		config.Initial = time.Second
	}
	if config.Max <= 0 {
		config.Max = 30 * time.Second
	}
	if config.Max < config.Initial {
		config.Max = config.Initial
	}
	seed := random.InitialSeed
	if config.Seed != nil {
		seed = random.NewSeed(uint64(*config.Seed))
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	return &Backoff{
		initial: config.Initial,
		max:     config.Max,
		clock:   config.Clock,
		seed:    seed,
		ceiling: config.Initial,
	}
}

// Next returns the next delay, uniformly distributed in [0, ceiling),
// and doubles the ceiling up to Max.
func (b *Backoff) Next() time.Duration {
	fraction := random.NextSeededDouble(&b.seed)
	delay := time.Duration(fraction * float64(b.ceiling))

	b.attempt++
	if b.ceiling < b.max {
		b.ceiling *= 2
		if b.ceiling > b.max {
			b.ceiling = b.max
		}
	}
	return delay
}

// Wait sleeps for the next delay. Returns ctx.Err() if ctx is done
// first.
func (b *Backoff) Wait(ctx context.Context) error {
	delay := b.Next()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.clock.After(delay):
		return nil
	}
}

// Attempt returns how many delays have been handed out since New or
// the last Reset.
func (b *Backoff) Attempt() int {
	return b.attempt
}

// Reset returns the ceiling to Initial after a success. The jitter
// sequence continues from where it was.
func (b *Backoff) Reset() {
	b.ceiling = b.initial
	b.attempt = 0
}
