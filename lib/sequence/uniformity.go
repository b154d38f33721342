// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sequence

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/bureau-foundation/nposix/lib/random"
)

// Histogram counts NextSeededDouble draws in equal-width bins over
// [0, 1).
type Histogram struct {
	Seed   random.Seed `json:"seed"`
	Draws  int         `json:"draws"`
	Counts []int       `json:"counts"`
}

// Uniformity draws from seed and bins each value. Bin i covers
// [i/bins, (i+1)/bins).
func Uniformity(seed random.Seed, draws, bins int) (Histogram, error) {
	if bins < 1 {
		return Histogram{}, fmt.Errorf("uniformity: bins must be positive, got %d", bins)
	}
	if draws < 1 {
		return Histogram{}, fmt.Errorf("uniformity: draws must be positive, got %d", draws)
	}

	histogram := Histogram{
		Seed:   random.NewSeed(uint64(seed)),
		Draws:  draws,
		Counts: make([]int, bins),
	}
	state := histogram.Seed
	for range draws {
		bin := int(random.NextSeededDouble(&state) * float64(bins))
		// Only reachable through float rounding for very large bin
		// counts; the double itself is always below 1.
		bin = min(bin, bins-1)
		histogram.Counts[bin]++
	}
	return histogram, nil
}

// Expected returns the count every bin would hold under a perfectly
// uniform distribution.
func (h Histogram) Expected() float64 {
	if len(h.Counts) == 0 {
		return 0
	}
	return float64(h.Draws) / float64(len(h.Counts))
}

// Extremes returns the smallest and largest bin counts.
func (h Histogram) Extremes() (lowest, highest int) {
	if len(h.Counts) == 0 {
		return 0, 0
	}
	lowest, highest = h.Counts[0], h.Counts[0]
	for _, count := range h.Counts[1:] {
		lowest = min(lowest, count)
		highest = max(highest, count)
	}
	return lowest, highest
}

// MaxDeviation returns the largest relative distance of any bin from
// Expected, e.g. 0.03 for a bin 3% above or below.
func (h Histogram) MaxDeviation() float64 {
	expected := h.Expected()
	if expected == 0 {
		return 0
	}
	deviation := 0.0
	for _, count := range h.Counts {
		deviation = math.Max(deviation, math.Abs(float64(count)-expected)/expected)
	}
	return deviation
}

// ChiSquare runs Pearson's goodness-of-fit test against the uniform
// distribution. It returns the statistic and the probability of a
// statistic at least that large from a truly uniform source, with
// bins-1 degrees of freedom. A single bin has nothing to test and
// reports (0, 1).
func (h Histogram) ChiSquare() (statistic, pValue float64) {
	if len(h.Counts) < 2 {
		return 0, 1
	}
	observed := make([]float64, len(h.Counts))
	expected := make([]float64, len(h.Counts))
	for i, count := range h.Counts {
		observed[i] = float64(count)
		expected[i] = h.Expected()
	}
	statistic = stat.ChiSquare(observed, expected)
	pValue = distuv.ChiSquared{K: float64(len(h.Counts) - 1)}.Survival(statistic)
	return statistic, pValue
}
