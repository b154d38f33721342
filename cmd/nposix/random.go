// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/nposix/lib/checkpoint"
	"github.com/bureau-foundation/nposix/lib/config"
	"github.com/bureau-foundation/nposix/lib/random"
	"github.com/bureau-foundation/nposix/lib/sequence"
)

// randomFlags are the batch-selection flags shared by random and
// digest. Each overrides the config value only when given.
type randomFlags struct {
	seed        string
	kind        string
	count       int
	format      string
	compression string
}

func (f *randomFlags) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.seed, "seed", "", "starting seed, decimal or 0x hex (default 0x1234ABCD330E)")
	flagSet.StringVar(&f.kind, "kind", "", "value kind: int32, uint32, or double (default int32)")
	flagSet.IntVar(&f.count, "count", 0, "number of values (default 10)")
	flagSet.StringVar(&f.format, "format", "", "encoding: text, json, or cbor (default text)")
	flagSet.StringVar(&f.compression, "compression", "", "compression: none, zstd, or lz4 (default none)")
}

// apply copies the flags that were set on the command line over r.
func (f *randomFlags) apply(flagSet *pflag.FlagSet, r *config.RandomConfig) {
	if flagSet.Changed("seed") {
		r.Seed = f.seed
	}
	if flagSet.Changed("kind") {
		r.Kind = f.kind
	}
	if flagSet.Changed("count") {
		r.Count = f.count
	}
	if flagSet.Changed("format") {
		r.Format = f.format
	}
	if flagSet.Changed("compression") {
		r.Compression = f.compression
	}
}

func (a *app) randomCommand(args []string) error {
	var (
		configPath       string
		flags            randomFlags
		output           string
		checkpointPath   string
		checkpointMaxAge time.Duration
		global           bool
	)
	flagSet := a.newFlagSet("random", &configPath)
	flags.register(flagSet)
	flagSet.StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	flagSet.StringVar(&checkpointPath, "checkpoint", "", "continue from this checkpoint file and update it afterwards")
	flagSet.DurationVar(&checkpointMaxAge, "checkpoint-max-age", 0, "ignore checkpoints older than this (default: any age)")
	flagSet.BoolVar(&global, "global", false, "draw from the process-wide generator after reseeding it")
	if err := parseFlags(flagSet, args); err != nil {
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("random: unexpected argument %q", flagSet.Arg(0))
	}

	cfg, err := a.loadConfig(configPath)
	if err != nil {
		return err
	}
	randomConfig := cfg.Random
	flags.apply(flagSet, &randomConfig)
	if flagSet.Changed("output") {
		randomConfig.Output = output
	}
	settings, err := randomConfig.Resolve()
	if err != nil {
		return fmt.Errorf("random: %w", err)
	}

	if checkpointPath != "" {
		state, found, err := checkpoint.Check(checkpointPath, checkpointMaxAge, a.clock)
		if err != nil {
			return fmt.Errorf("random: %w", err)
		}
		if found {
			a.logger.Info("continuing from checkpoint",
				"path", checkpointPath,
				"seed", state.End.String(),
				"previous_kind", state.Kind.String(),
			)
			settings.Seed = state.End
		}
	}

	var batch sequence.Batch
	if global {
		batch = drawGlobal(settings.Seed, settings.Kind, settings.Count)
	} else if batch, err = sequence.Generate(settings.Seed, settings.Kind, settings.Count); err != nil {
		return fmt.Errorf("random: %w", err)
	}

	if err := a.writeBatch(batch, settings); err != nil {
		return fmt.Errorf("random: %w", err)
	}
	a.logger.Info("generated sequence",
		"seed", batch.Seed.String(),
		"end", batch.End.String(),
		"kind", batch.Kind.String(),
		"count", batch.Len(),
		"digest", sequence.Digest(batch).String(),
	)

	if checkpointPath != "" {
		if err := checkpoint.Write(checkpointPath, checkpoint.FromBatch(batch, a.clock.Now())); err != nil {
			return fmt.Errorf("random: %w", err)
		}
	}
	return nil
}

// writeBatch writes batch to settings.Output, or to stdout when no
// output file is set.
func (a *app) writeBatch(batch sequence.Batch, settings config.RandomSettings) error {
	if settings.Output == "" {
		binary := settings.Format == sequence.FormatCBOR || settings.Compression != sequence.CompressionNone
		if binary && a.terminal {
			return fmt.Errorf("refusing to write %s/%s output to a terminal; use --output", settings.Format, settings.Compression)
		}
		return sequence.Write(a.stdout, batch, settings.Format, settings.Compression)
	}

	file, err := os.Create(settings.Output)
	if err != nil {
		return err
	}
	if err := sequence.Write(file, batch, settings.Format, settings.Compression); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// drawGlobal reseeds the process-wide generator and draws count values
// from it. The result equals sequence.Generate from the same seed.
func drawGlobal(seed random.Seed, kind sequence.Kind, count int) sequence.Batch {
	random.Reseed(uint64(seed))
	batch := sequence.Batch{Seed: random.GlobalSeed(), Kind: kind}
	for range count {
		switch kind {
		case sequence.KindInt32:
			batch.Int32 = append(batch.Int32, random.NextInt32())
		case sequence.KindUint32:
			batch.Uint32 = append(batch.Uint32, random.NextUint32())
		case sequence.KindDouble:
			batch.Double = append(batch.Double, random.NextDouble())
		}
	}
	batch.End = random.GlobalSeed()
	return batch
}

// readBatch reads a saved batch from path.
func readBatch(path string, format sequence.Format, compression sequence.Compression) (sequence.Batch, error) {
	file, err := os.Open(path)
	if err != nil {
		return sequence.Batch{}, err
	}
	defer file.Close()
	return sequence.Read(file, format, compression)
}
