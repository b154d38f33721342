// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/nposix/lib/clock"
	"github.com/bureau-foundation/nposix/lib/config"
	"github.com/bureau-foundation/nposix/lib/testutil"
)

// testApp is an app writing to buffers, with no environment.
type testApp struct {
	*app
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &testApp{
		app: &app{
			stdout: stdout,
			stderr: stderr,
			logger: newLogger(stderr, false, false),
			clock:  clock.Real(),
			getenv: func(string) string { return "" },
		},
		stdout: stdout,
		stderr: stderr,
	}
}

func (a *testApp) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	a.stdout.Reset()
	if err := a.run(context.Background(), args); err != nil {
		t.Fatalf("nposix %s: %v\nstderr:\n%s", strings.Join(args, " "), err, a.stderr)
	}
	return a.stdout.String()
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	var exit *exitError
	if !errors.As(err, &exit) {
		t.Fatalf("error = %v, want exit code %d", err, code)
	}
	if exit.code != code {
		t.Fatalf("exit code = %d, want %d", exit.code, code)
	}
}

func TestRandomDefaults(t *testing.T) {
	a := newTestApp(t)
	output := a.mustRun(t, "random")

	lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")
	if len(lines) != 11 {
		t.Fatalf("got %d lines, want header plus 10 values:\n%s", len(lines), output)
	}
	if want := "# nposix sequence seed=0x1234ABCD330E end=0x623B341D40C0 kind=int32 count=10"; lines[0] != want {
		t.Errorf("header = %q, want %q", lines[0], want)
	}
	want := []string{"1702803237", "-685110122", "1517566982", "1918061247", "1368775034", "-487786166"}
	for i, value := range want {
		if lines[i+1] != value {
			t.Errorf("value %d = %s, want %s", i, lines[i+1], value)
		}
	}
	if !strings.Contains(a.stderr.String(), `"msg":"generated sequence"`) {
		t.Errorf("missing generation log record:\n%s", a.stderr)
	}
}

func TestRandomGlobalMatchesSeeded(t *testing.T) {
	a := newTestApp(t)
	seeded := a.mustRun(t, "random", "--seed", "0xBEEF", "--kind", "double", "--count", "20", "--format", "json")
	global := a.mustRun(t, "random", "--seed", "0xBEEF", "--kind", "double", "--count", "20", "--format", "json", "--global")
	if seeded != global {
		t.Fatalf("global generator output differs:\n%s\nvs\n%s", global, seeded)
	}
}

func TestRandomRefusesBinaryOnTerminal(t *testing.T) {
	a := newTestApp(t)
	a.terminal = true
	err := a.run(context.Background(), []string{"random", "--format", "cbor"})
	if err == nil || !strings.Contains(err.Error(), "terminal") {
		t.Fatalf("error = %v, want refusal to write to a terminal", err)
	}
}

func TestRandomOutputFileDigestMatches(t *testing.T) {
	a := newTestApp(t)
	path := filepath.Join(t.TempDir(), "batch.cbor.zst")

	a.mustRun(t, "random", "--kind", "uint32", "--count", "1000", "--format", "cbor", "--compression", "zstd", "--output", path)
	fromFile := a.mustRun(t, "digest", "--format", "cbor", "--compression", "zstd", path)
	generated := a.mustRun(t, "digest", "--kind", "uint32", "--count", "1000")

	fileSum, _, _ := strings.Cut(fromFile, "  ")
	generatedSum, label, _ := strings.Cut(generated, "  ")
	if fileSum != generatedSum {
		t.Fatalf("file digest %s, generated digest %s", fileSum, generatedSum)
	}
	if label != "seed=0x1234ABCD330E kind=uint32 count=1000\n" {
		t.Errorf("generated label = %q", label)
	}

	// --expect with the right value succeeds.
	a.mustRun(t, "digest", "--kind", "uint32", "--count", "1000", "--expect", generatedSum)
}

func TestRandomCheckpointContinuesStream(t *testing.T) {
	a := newTestApp(t)
	a.clock = clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	path := filepath.Join(t.TempDir(), "stream.json")

	a.mustRun(t, "random", "--count", "3", "--checkpoint", path)
	output := a.mustRun(t, "random", "--count", "2", "--checkpoint", path)

	want := "# nposix sequence seed=0x5A743C062A23 end=0x5195D97A8D15 kind=int32 count=2\n" +
		"1918061247\n1368775034\n"
	if output != want {
		t.Fatalf("second run:\n%s\nwant:\n%s", output, want)
	}
}

func TestRandomCheckpointIgnoredWhenStale(t *testing.T) {
	a := newTestApp(t)
	fake := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	a.clock = fake
	path := filepath.Join(t.TempDir(), "stream.json")

	first := a.mustRun(t, "random", "--count", "3", "--checkpoint", path)
	fake.Advance(2 * time.Hour)
	again := a.mustRun(t, "random", "--count", "3", "--checkpoint", path, "--checkpoint-max-age", "1h")
	if again != first {
		t.Fatalf("stale checkpoint was used:\n%s\nwant:\n%s", again, first)
	}
}

func TestDigestExpectMismatch(t *testing.T) {
	a := newTestApp(t)
	err := a.run(context.Background(), []string{"digest", "--expect", strings.Repeat("0", 64)})
	requireExitCode(t, err, 1)
	if !strings.Contains(a.stderr.String(), "digest mismatch") {
		t.Errorf("mismatch not logged:\n%s", a.stderr)
	}
}

func TestDigestDetectsTamperedFile(t *testing.T) {
	a := newTestApp(t)
	path := filepath.Join(t.TempDir(), "tampered.txt")
	content := "# nposix sequence seed=0x1234ABCD330E end=0xD72A0C966378 kind=int32 count=2\n1702803237\n5\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	err := a.run(context.Background(), []string{"digest", path})
	if err == nil || !strings.Contains(err.Error(), "does not regenerate") {
		t.Fatalf("error = %v, want a regeneration failure", err)
	}
	a.mustRun(t, "digest", "--no-verify", path)
}

func TestUniformity(t *testing.T) {
	a := newTestApp(t)
	output := a.mustRun(t, "uniformity", "--draws", "10000", "--bins", "10")
	if !strings.Contains(output, "[0.4000, 0.5000)       967   -3.300%") {
		t.Errorf("missing bin line:\n%s", output)
	}
	if !strings.Contains(output, "max deviation 3.300% (tolerance 5.000%) ok") {
		t.Errorf("missing verdict:\n%s", output)
	}
	if !strings.Contains(output, "chi-square 4.858 with 9 degrees of freedom, p = 0.8465") {
		t.Errorf("missing chi-square line:\n%s", output)
	}

	err := a.run(context.Background(), []string{"uniformity", "--draws", "10000", "--bins", "10", "--tolerance", "0.01"})
	requireExitCode(t, err, 1)
	if !strings.Contains(a.stdout.String(), "FAIL") {
		t.Errorf("failing run did not print FAIL:\n%s", a.stdout)
	}
}

func TestUniformityJSON(t *testing.T) {
	a := newTestApp(t)
	output := a.mustRun(t, "uniformity", "--draws", "10000", "--bins", "10", "--json")

	var report struct {
		Seed    string  `json:"seed"`
		Counts  []int   `json:"counts"`
		Lowest  int     `json:"lowest"`
		Highest int     `json:"highest"`
		Pass    bool    `json:"pass"`
		Chi     float64 `json:"chi_square"`
	}
	if err := json.Unmarshal([]byte(output), &report); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, output)
	}
	if report.Seed != "0x1234ABCD330E" || len(report.Counts) != 10 || report.Lowest != 967 || report.Highest != 1027 || !report.Pass || math.Abs(report.Chi-4.858) > 1e-9 {
		t.Errorf("report = %+v", report)
	}
}

func TestUniformityTerminalBars(t *testing.T) {
	a := newTestApp(t)
	a.terminal = true
	output := a.mustRun(t, "uniformity", "--draws", "10000", "--bins", "10")
	if !strings.Contains(output, "█") {
		t.Errorf("no bars on a terminal:\n%s", output)
	}

	// 1000 draws in 4 bins deviate more than the default 5%.
	err := a.run(context.Background(), []string{"uniformity", "--draws", "1000", "--bins", "4"})
	requireExitCode(t, err, 1)
}

func TestWaitSignaled(t *testing.T) {
	a := newTestApp(t)
	output := a.mustRun(t, "wait", "--timeout", "10s", "--signal-after", "10ms")
	if !strings.Contains(output, "result: signaled") {
		t.Fatalf("output:\n%s", output)
	}
}

func TestWaitTimesOutEachAttempt(t *testing.T) {
	a := newTestApp(t)
	output := a.mustRun(t, "wait", "--timeout", "20ms", "--attempts", "2", "--retry-delay", "1ms")
	for _, want := range []string{"attempt 1: timed_out", "attempt 2: timed_out", "result: timed_out"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
	if strings.Contains(a.stderr.String(), "spurious early wake") {
		t.Errorf("on-time timeouts logged an early wake:\n%s", a.stderr)
	}
}

func TestWaitInterrupted(t *testing.T) {
	a := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errs := make(chan error, 1)
	go func() { errs <- a.run(ctx, []string{"wait", "--timeout", "1m"}) }()

	err := testutil.RequireReceive(t, errs, 10*time.Second, "wait returning after cancellation")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestConfigFileWithFlagOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nposix.yaml")
	content := "random:\n  seed: \"42\"\n  kind: double\n  count: 5\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	a := newTestApp(t)
	output := a.mustRun(t, "random", "--config", path, "--count", "1")
	if !strings.HasPrefix(output, "# nposix sequence seed=0x00000000002A end=0x00F692DDCDED kind=double count=1\n") {
		t.Fatalf("output:\n%s", output)
	}

	// The same file through the environment.
	a.getenv = func(name string) string {
		if name == config.EnvironmentVariable {
			return path
		}
		return ""
	}
	output = a.mustRun(t, "random")
	if !strings.Contains(output, "kind=double count=5") {
		t.Fatalf("NPOSIX_CONFIG not honored:\n%s", output)
	}
}

func TestVersion(t *testing.T) {
	a := newTestApp(t)
	if output := a.mustRun(t, "version"); !strings.HasPrefix(output, "nposix 0.1.0-dev (") {
		t.Errorf("version output = %q", output)
	}
	if output := a.mustRun(t, "version", "--full"); !strings.Contains(output, "Platform: ") {
		t.Errorf("version --full output = %q", output)
	}
}

func TestUsageErrors(t *testing.T) {
	a := newTestApp(t)

	requireExitCode(t, a.run(context.Background(), nil), 1)
	requireExitCode(t, a.run(context.Background(), []string{"frobnicate"}), 1)
	if !strings.Contains(a.stderr.String(), "unknown command: frobnicate") {
		t.Errorf("stderr:\n%s", a.stderr)
	}
	requireExitCode(t, a.run(context.Background(), []string{"random", "--help"}), 0)

	err := a.run(context.Background(), []string{"random", "--kind", "float"})
	if err == nil || !strings.Contains(err.Error(), "random.kind") {
		t.Errorf("bad kind error = %v", err)
	}
	err = a.run(context.Background(), []string{"random", "--no-such-flag"})
	if err == nil || !strings.Contains(err.Error(), "no-such-flag") {
		t.Errorf("unknown flag error = %v", err)
	}
	err = a.run(context.Background(), []string{"wait", "--attempts", "0"})
	if err == nil || !strings.Contains(err.Error(), "--attempts") {
		t.Errorf("bad attempts error = %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	var buffer bytes.Buffer
	newLogger(&buffer, false, false).Info("hello", "key", "value")
	if !strings.Contains(buffer.String(), `"msg":"hello"`) {
		t.Errorf("piped logger is not JSON: %s", buffer.String())
	}

	buffer.Reset()
	logger := newLogger(&buffer, true, true)
	logger.Debug("details")
	if !strings.Contains(buffer.String(), "level=DEBUG msg=details") {
		t.Errorf("terminal debug logger output: %s", buffer.String())
	}
}
