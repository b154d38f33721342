// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package backoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bureau-foundation/nposix/lib/clock"
	"github.com/bureau-foundation/nposix/lib/random"
	"github.com/bureau-foundation/nposix/lib/testutil"
)

func TestNextStaysUnderDoublingCeiling(t *testing.T) {
	b := New(Config{Initial: 100 * time.Millisecond, Max: time.Second})

	ceilings := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		time.Second,
		time.Second,
		time.Second,
	}
	for attempt, ceiling := range ceilings {
		delay := b.Next()
		if delay < 0 || delay >= ceiling {
			t.Errorf("attempt %d: delay %v outside [0, %v)", attempt, delay, ceiling)
		}
	}
	if got := b.Attempt(); got != len(ceilings) {
		t.Errorf("Attempt() = %d, want %d", got, len(ceilings))
	}
}

func TestNextFollowsSeed(t *testing.T) {
	seed := random.Seed(42)
	b := New(Config{Initial: time.Second, Max: time.Second, Seed: &seed})

	reference := seed
	for attempt := range 10 {
		want := time.Duration(random.NextSeededDouble(&reference) * float64(time.Second))
		if got := b.Next(); got != want {
			t.Fatalf("attempt %d: delay = %v, want %v", attempt, got, want)
		}
	}
}

func TestSameSeedSameSchedule(t *testing.T) {
	seed := random.Seed(7)
	first := New(Config{Seed: &seed})
	second := New(Config{Seed: &seed})
	for attempt := range 20 {
		if a, b := first.Next(), second.Next(); a != b {
			t.Fatalf("attempt %d: %v != %v", attempt, a, b)
		}
	}
}

func TestZeroSeedIsHonored(t *testing.T) {
	var zero random.Seed
	b := New(Config{Initial: time.Second, Max: time.Second, Seed: &zero})
	if b.seed != 0 {
		t.Fatalf("seed = %v, want 0", b.seed)
	}
	// From state zero the first draw is 11/2^48, far below a nanosecond
	// of a one-second ceiling; InitialSeed would give about 396ms.
	if delay := b.Next(); delay != 0 {
		t.Fatalf("first delay from seed 0 = %v, want 0", delay)
	}
	if zero != 0 {
		t.Fatalf("New advanced the caller's seed to %v", zero)
	}
}

func TestReset(t *testing.T) {
	b := New(Config{Initial: 10 * time.Millisecond, Max: time.Hour})
	for range 8 {
		b.Next()
	}
	b.Reset()
	if got := b.Attempt(); got != 0 {
		t.Fatalf("Attempt() after Reset = %d, want 0", got)
	}
	if delay := b.Next(); delay >= 10*time.Millisecond {
		t.Fatalf("first delay after Reset = %v, want < 10ms", delay)
	}
}

func TestDefaults(t *testing.T) {
	b := New(Config{Initial: time.Minute, Max: time.Second})
	if b.max != time.Minute {
		t.Errorf("Max below Initial: max = %v, want %v", b.max, time.Minute)
	}
	b = New(Config{})
	if b.initial != time.Second || b.max != 30*time.Second || b.seed != random.InitialSeed {
		t.Errorf("zero Config: initial=%v max=%v seed=%v", b.initial, b.max, b.seed)
	}
}

func TestWaitUsesClock(t *testing.T) {
	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	b := New(Config{Initial: time.Second, Max: time.Second, Clock: fake})

	// Predict the delay with an identical Backoff.
	delay := New(Config{Initial: time.Second, Max: time.Second}).Next()

	errs := make(chan error, 1)
	go func() { errs <- b.Wait(context.Background()) }()

	if delay > 0 {
		fake.WaitForTimers(1)
		fake.Advance(delay)
	}
	if err := testutil.RequireReceive(t, errs, 5*time.Second, "Wait returning"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestWaitCancelled(t *testing.T) {
	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	b := New(Config{Initial: time.Hour, Max: time.Hour, Clock: fake})

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() { errs <- b.Wait(ctx) }()

	fake.WaitForTimers(1)
	cancel()
	if err := testutil.RequireReceive(t, errs, 5*time.Second, "Wait returning"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait error = %v, want context.Canceled", err)
	}
}
