// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/nposix/lib/random"
	"github.com/bureau-foundation/nposix/lib/sequence"
)

// histogramBarWidth is the width of the longest bar on a terminal.
const histogramBarWidth = 40

var (
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	outlierStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

// uniformityReport is the --json output.
type uniformityReport struct {
	sequence.Histogram
	Expected     float64 `json:"expected"`
	Lowest       int     `json:"lowest"`
	Highest      int     `json:"highest"`
	MaxDeviation float64 `json:"max_deviation"`
	ChiSquare    float64 `json:"chi_square"`
	PValue       float64 `json:"p_value"`
	Tolerance    float64 `json:"tolerance"`
	Pass         bool    `json:"pass"`
}

func (a *app) uniformityCommand(args []string) error {
	var (
		configPath string
		seedText   string
		draws      int
		bins       int
		tolerance  float64
		jsonOutput bool
	)
	flagSet := a.newFlagSet("uniformity", &configPath)
	flagSet.StringVar(&seedText, "seed", "", "starting seed (default: random.seed from config)")
	flagSet.IntVar(&draws, "draws", 0, "number of doubles to draw (default 1000000)")
	flagSet.IntVar(&bins, "bins", 0, "number of bins (default 100)")
	flagSet.Float64Var(&tolerance, "tolerance", 0, "largest acceptable relative bin deviation (default 0.05)")
	flagSet.BoolVar(&jsonOutput, "json", false, "print the histogram as JSON")
	if err := parseFlags(flagSet, args); err != nil {
		return err
	}

	cfg, err := a.loadConfig(configPath)
	if err != nil {
		return err
	}
	if flagSet.Changed("seed") {
		cfg.Random.Seed = seedText
	}
	if flagSet.Changed("draws") {
		cfg.Uniformity.Draws = draws
	}
	if flagSet.Changed("bins") {
		cfg.Uniformity.Bins = bins
	}
	if flagSet.Changed("tolerance") {
		cfg.Uniformity.Tolerance = tolerance
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("uniformity: %w", err)
	}
	seed, err := random.ParseSeed(cfg.Random.Seed)
	if err != nil {
		return fmt.Errorf("uniformity: %w", err)
	}

	histogram, err := sequence.Uniformity(seed, cfg.Uniformity.Draws, cfg.Uniformity.Bins)
	if err != nil {
		return err
	}
	lowest, highest := histogram.Extremes()
	report := uniformityReport{
		Histogram:    histogram,
		Expected:     histogram.Expected(),
		Lowest:       lowest,
		Highest:      highest,
		MaxDeviation: histogram.MaxDeviation(),
		Tolerance:    cfg.Uniformity.Tolerance,
	}
	report.ChiSquare, report.PValue = histogram.ChiSquare()
	report.Pass = report.MaxDeviation <= report.Tolerance

	if jsonOutput {
		encoder := json.NewEncoder(a.stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return err
		}
	} else {
		a.printHistogram(report)
	}

	if !report.Pass {
		return &exitError{code: 1}
	}
	return nil
}

// printHistogram writes one line per bin and a verdict. On a terminal
// each bin gets a bar, with bins outside tolerance highlighted.
func (a *app) printHistogram(report uniformityReport) {
	bins := len(report.Counts)
	for bin, count := range report.Counts {
		deviation := (float64(count) - report.Expected) / report.Expected
		line := fmt.Sprintf("[%.4f, %.4f)  %8d  %+7.3f%%",
			float64(bin)/float64(bins), float64(bin+1)/float64(bins), count, 100*deviation)
		if a.terminal {
			width := 0
			if report.Highest > 0 {
				width = count * histogramBarWidth / report.Highest
			}
			style := barStyle
			if max(deviation, -deviation) > report.Tolerance {
				style = outlierStyle
			}
			line += "  " + style.Render(strings.Repeat("█", width))
		}
		fmt.Fprintln(a.stdout, line)
	}

	verdict := "ok"
	if !report.Pass {
		verdict = "FAIL"
	}
	if a.terminal {
		style := passStyle
		if !report.Pass {
			style = outlierStyle
		}
		verdict = style.Render(verdict)
	}
	fmt.Fprintf(a.stdout, "seed %s, %d draws, %d bins: max deviation %.3f%% (tolerance %.3f%%) %s\n",
		report.Seed, report.Draws, bins, 100*report.MaxDeviation, 100*report.Tolerance, verdict)
	fmt.Fprintf(a.stdout, "chi-square %.3f with %d degrees of freedom, p = %.4f\n",
		report.ChiSquare, bins-1, report.PValue)
}
