// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"math"
	"testing"
	"time"
)

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    string
	}{
		{Signaled, "signaled"},
		{TimedOut, "timed_out"},
		{Outcome(0), "unknown(0)"},
		{Outcome(9), "unknown(9)"},
	}
	for _, test := range tests {
		if got := test.outcome.String(); got != test.want {
			t.Errorf("Outcome(%d).String() = %q, want %q", uint8(test.outcome), got, test.want)
		}
	}
}

func TestDeadlineIsNowPlusTimeout(t *testing.T) {
	now := time.Date(2026, 10, 25, 0, 59, 59, 999_999_999, time.UTC)
	tests := []struct {
		timeout time.Duration
		want    time.Time
	}{
		{0, now},
		{time.Nanosecond, time.Date(2026, 10, 25, 1, 0, 0, 0, time.UTC)},
		{1500 * time.Millisecond, now.Add(1500 * time.Millisecond)},
		{-time.Hour, now},
	}
	for _, test := range tests {
		got := Deadline(now, test.timeout)
		if !got.Equal(test.want) {
			t.Errorf("Deadline(now, %v) = %v, want %v", test.timeout, got, test.want)
		}
		if got.UnixNano()-now.UnixNano() != max(int64(test.timeout), 0) {
			t.Errorf("Deadline(now, %v) is %dns after now", test.timeout, got.UnixNano()-now.UnixNano())
		}
	}
}

func TestDeadlineStripsMonotonicReading(t *testing.T) {
	now := time.Now()
	deadline := Deadline(now, time.Second)
	if deadline != deadline.Round(0) {
		t.Fatal("deadline carries a monotonic clock reading")
	}
	if got := deadline.Sub(now.Round(0)); got != time.Second {
		t.Fatalf("deadline is %v after now, want 1s", got)
	}
}

func TestSeconds(t *testing.T) {
	tests := []struct {
		seconds float64
		want    time.Duration
	}{
		{0, 0},
		{1, time.Second},
		{1.5, 1500 * time.Millisecond},
		{0.1, 100 * time.Millisecond},
		{1e-9, time.Nanosecond},
		{1e-10, 0},
		{-1, 0},
		{math.Inf(-1), 0},
		{math.NaN(), 0},
		{1e30, time.Duration(math.MaxInt64)},
		{math.Inf(1), time.Duration(math.MaxInt64)},
	}
	for _, test := range tests {
		if got := Seconds(test.seconds); got != test.want {
			t.Errorf("Seconds(%v) = %v, want %v", test.seconds, got, test.want)
		}
	}
}
