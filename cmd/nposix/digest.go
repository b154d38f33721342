// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/bureau-foundation/nposix/lib/sequence"
)

func (a *app) digestCommand(args []string) error {
	var (
		configPath string
		flags      randomFlags
		expect     string
		noVerify   bool
	)
	flagSet := a.newFlagSet("digest", &configPath)
	flags.register(flagSet)
	flagSet.StringVar(&expect, "expect", "", "fail unless the digest equals this hex value")
	flagSet.BoolVar(&noVerify, "no-verify", false, "skip regenerating a saved batch from its seed")
	if err := parseFlags(flagSet, args); err != nil {
		return err
	}
	if flagSet.NArg() > 1 {
		return fmt.Errorf("digest: at most one FILE, got %d", flagSet.NArg())
	}

	var want sequence.Sum
	if expect != "" {
		var err error
		if want, err = sequence.ParseSum(expect); err != nil {
			return fmt.Errorf("digest: --expect: %w", err)
		}
	}

	cfg, err := a.loadConfig(configPath)
	if err != nil {
		return err
	}
	randomConfig := cfg.Random
	flags.apply(flagSet, &randomConfig)
	settings, err := randomConfig.Resolve()
	if err != nil {
		return fmt.Errorf("digest: %w", err)
	}

	var (
		batch sequence.Batch
		label string
	)
	if flagSet.NArg() == 1 {
		label = flagSet.Arg(0)
		if batch, err = readBatch(label, settings.Format, settings.Compression); err != nil {
			return fmt.Errorf("digest: %w", err)
		}
		if !noVerify {
			if err := sequence.Verify(batch); err != nil {
				return fmt.Errorf("digest: %s does not regenerate: %w", label, err)
			}
		}
	} else {
		if batch, err = sequence.Generate(settings.Seed, settings.Kind, settings.Count); err != nil {
			return fmt.Errorf("digest: %w", err)
		}
		label = fmt.Sprintf("seed=%s kind=%s count=%d", batch.Seed, batch.Kind, batch.Len())
	}

	sum := sequence.Digest(batch)
	fmt.Fprintf(a.stdout, "%s  %s\n", sum, label)

	if expect != "" && sum != want {
		a.logger.Error("digest mismatch", "got", sum.String(), "want", want.String(), "batch", label)
		return &exitError{code: 1}
	}
	return nil
}
