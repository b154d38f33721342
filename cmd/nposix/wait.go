// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bureau-foundation/nposix/lib/backoff"
	"github.com/bureau-foundation/nposix/lib/clock"
	"github.com/bureau-foundation/nposix/lib/event"
	"github.com/bureau-foundation/nposix/lib/random"
)

func (a *app) waitCommand(ctx context.Context, args []string) error {
	var (
		configPath   string
		timeout      time.Duration
		signalAfter  time.Duration
		processClock string
		attempts     int
		retryDelay   time.Duration
	)
	flagSet := a.newFlagSet("wait", &configPath)
	flagSet.DurationVar(&timeout, "timeout", 0, "timeout for each wait attempt (default 2s)")
	flagSet.DurationVar(&signalAfter, "signal-after", 0, "signal from another goroutine after this long (default: never)")
	flagSet.StringVar(&processClock, "process-clock", "", "clock for the early-wake check: monotonic or process_cpu")
	flagSet.IntVar(&attempts, "attempts", 1, "wait attempts before giving up")
	flagSet.DurationVar(&retryDelay, "retry-delay", 100*time.Millisecond, "initial jittered delay between attempts")
	if err := parseFlags(flagSet, args); err != nil {
		return err
	}
	if attempts < 1 {
		return fmt.Errorf("wait: --attempts must be at least 1, got %d", attempts)
	}

	cfg, err := a.loadConfig(configPath)
	if err != nil {
		return err
	}
	if flagSet.Changed("timeout") {
		cfg.Wait.Timeout = timeout
	}
	if flagSet.Changed("signal-after") {
		cfg.Wait.SignalAfter = signalAfter
	}
	if flagSet.Changed("process-clock") {
		cfg.Wait.ProcessClock = processClock
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("wait: %w", err)
	}
	seed, err := random.ParseSeed(cfg.Random.Seed)
	if err != nil {
		return fmt.Errorf("wait: %w", err)
	}

	measure := clock.Monotonic()
	if cfg.Wait.ProcessClock == "process_cpu" {
		measure = clock.ProcessCPU()
	}

	result, err := a.boundedWait(ctx, boundedWaitOptions{
		timeout:      cfg.Wait.Timeout,
		signalAfter:  cfg.Wait.SignalAfter,
		attempts:     attempts,
		processClock: measure,
		retry: backoff.New(backoff.Config{
			Initial: retryDelay,
			Max:     10 * retryDelay,
			Seed:    &seed,
			Clock:   a.clock,
		}),
	})
	if err != nil {
		return fmt.Errorf("wait: %w", err)
	}
	fmt.Fprintf(a.stdout, "result: %s\n", result)
	return nil
}

type boundedWaitOptions struct {
	timeout      time.Duration
	signalAfter  time.Duration
	attempts     int
	processClock clock.ProcessClock
	retry        *backoff.Backoff
}

// boundedWait runs the predicate loop a real caller would: wait until
// a helper goroutine sets signaled, giving up after options.attempts
// timed waits. Cancelling ctx wakes the waiter and ends the loop.
func (a *app) boundedWait(ctx context.Context, options boundedWaitOptions) (event.Outcome, error) {
	mu := event.NewMutex()
	ready := event.New(event.Config{
		Clock:        a.clock,
		ProcessClock: options.processClock,
		Logger:       a.logger,
	})

	var (
		signaled    bool
		interrupted bool
		helper      sync.WaitGroup
	)
	stop := make(chan struct{})
	helper.Go(func() {
		var fire <-chan time.Time
		if options.signalAfter > 0 {
			fire = a.clock.After(options.signalAfter)
		}
		select {
		case <-fire:
			mu.Lock()
			signaled = true
		case <-ctx.Done():
			mu.Lock()
			interrupted = true
		case <-stop:
			return
		}
		ready.Signal()
		mu.Unlock()
	})

	mu.Lock()
	for attempt := 1; attempt <= options.attempts && !signaled && !interrupted; attempt++ {
		start := a.clock.Now()
		outcome := ready.TimedWait(mu, options.timeout)
		fmt.Fprintf(a.stdout, "attempt %d: %s after %s\n", attempt, outcome, a.clock.Now().Sub(start).Round(time.Millisecond))

		if signaled || interrupted || attempt == options.attempts {
			break
		}
		mu.Unlock()
		err := options.retry.Wait(ctx)
		mu.Lock()
		if err != nil {
			interrupted = true
		}
	}
	result := event.TimedOut
	if signaled {
		result = event.Signaled
	}
	mu.Unlock()

	close(stop)
	helper.Wait()
	ready.Dispose()
	mu.Dispose()

	if interrupted {
		return result, ctx.Err()
	}
	return result, nil
}
