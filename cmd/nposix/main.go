// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/nposix/lib/clock"
	"github.com/bureau-foundation/nposix/lib/config"
	"github.com/bureau-foundation/nposix/lib/process"
	"github.com/bureau-foundation/nposix/lib/version"
)

// app carries everything a subcommand touches outside its arguments,
// so tests can run commands against buffers and a fake clock.
type app struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
	clock  clock.Clock

	// terminal is true when stdout is an interactive terminal.
	terminal bool

	// getenv is os.Getenv outside tests.
	getenv func(string) string
}

func main() {
	stderrTerminal := term.IsTerminal(int(os.Stderr.Fd()))
	a := &app{
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		logger:   newLogger(os.Stderr, stderrTerminal, os.Getenv("NPOSIX_DEBUG") != ""),
		clock:    clock.Real(),
		terminal: term.IsTerminal(int(os.Stdout.Fd())),
		getenv:   os.Getenv,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := a.run(ctx, os.Args[1:])
	stop()

	if err != nil {
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		process.Fatal(err)
	}
}

// run dispatches to a subcommand.
func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printUsage()
		return &exitError{code: 1}
	}

	command, rest := args[0], args[1:]
	switch command {
	case "random":
		return a.randomCommand(rest)
	case "digest":
		return a.digestCommand(rest)
	case "uniformity":
		return a.uniformityCommand(rest)
	case "wait":
		return a.waitCommand(ctx, rest)
	case "version", "--version":
		return a.versionCommand(rest)
	case "help", "--help", "-h":
		a.printUsage()
		return nil
	default:
		fmt.Fprintf(a.stderr, "unknown command: %s\n\n", command)
		a.printUsage()
		return &exitError{code: 1}
	}
}

func (a *app) printUsage() {
	fmt.Fprint(a.stderr, `nposix - 48-bit LCG sequences and bounded condition waits

USAGE
    nposix <command> [flags]

COMMANDS
    random        Generate a batch of values from a seed
    digest        Print the BLAKE3 digest of a generated or saved batch
    uniformity    Check the distribution of generated doubles
    wait          Run one bounded wait and report signaled or timed_out
    version       Show version

EXAMPLES
    # Ten int32 values from the initial seed
    nposix random

    # A million doubles, CBOR, zstd-compressed
    nposix random --kind double --count 1000000 --format cbor --compression zstd --output batch.cbor.zst

    # Check that a saved batch regenerates and print its digest
    nposix digest --format cbor --compression zstd batch.cbor.zst

    # Wait up to 5s, signaled after 1s
    nposix wait --timeout 5s --signal-after 1s

ENVIRONMENT
    NPOSIX_CONFIG   Path to a YAML config file (same as --config)
    NPOSIX_DEBUG    Enable debug logging
`)
}

// newFlagSet returns a ContinueOnError flag set writing to stderr with
// the --config flag every subcommand shares.
func (a *app) newFlagSet(name string, configPath *string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.SetOutput(a.stderr)
	flagSet.StringVar(configPath, "config", "", "YAML config file (default: $NPOSIX_CONFIG)")
	return flagSet
}

// parseFlags parses args, turning --help into a clean exit.
func parseFlags(flagSet *pflag.FlagSet, args []string) error {
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return &exitError{code: 0}
		}
		return fmt.Errorf("%s: %w", flagSet.Name(), err)
	}
	return nil
}

// loadConfig loads the file named by --config, then NPOSIX_CONFIG, and
// falls back to the defaults when neither is set.
func (a *app) loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = a.getenv(config.EnvironmentVariable)
	}
	if path == "" {
		return config.Default(), nil
	}
	a.logger.Debug("loading config", "path", path)
	return config.LoadFile(path)
}

func (a *app) versionCommand(args []string) error {
	var configPath string
	flagSet := a.newFlagSet("version", &configPath)
	full := flagSet.Bool("full", false, "include Go version and platform")
	if err := parseFlags(flagSet, args); err != nil {
		return err
	}
	if *full {
		fmt.Fprintf(a.stdout, "nposix %s\n", version.Full())
	} else {
		fmt.Fprintf(a.stdout, "nposix %s\n", version.Info())
	}
	return nil
}
