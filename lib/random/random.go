// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package random

import (
	"fmt"
	"strconv"
	"strings"
)

// Generator constants. These define the stream: changing any of them
// changes every value produced from every seed.
const (
	// Multiplier is the 48-bit LCG multiplier a in
	// state' = (state*a + c) mod 2^48.
	Multiplier uint64 = 0x5DEECE66D

	// Increment is the LCG increment c.
	Increment uint64 = 0xB

	// InitialSeed is the value of the global seed at process start.
	InitialSeed Seed = 0x1234ABCD330E
)

// seedMask keeps the low 48 bits of a 64-bit container.
const seedMask = 1<<48 - 1

// Multiplier split into 16-bit words, lowest first.
const (
	multiplier0 = uint64(Multiplier & 0xFFFF)
	multiplier1 = uint64(Multiplier >> 16 & 0xFFFF)
	multiplier2 = uint64(Multiplier >> 32 & 0xFFFF)
)

// Seed is the mutable state of one random stream: a 48-bit unsigned
// integer. Bits 48 through 63 are always zero for a Seed built with
// [NewSeed], [ParseSeed], or advanced by this package.
//
// A Seed is owned by whoever holds it. The NextSeeded functions mutate
// only the Seed they are given and never retain it, so goroutines that
// each own a distinct Seed can draw concurrently without locking.
type Seed uint64

// NewSeed returns value truncated to 48 bits. Inputs wider than 48
// bits are not rejected; the high bits are dropped.
func NewSeed(value uint64) Seed {
	return Seed(value & seedMask)
}

// ParseSeed parses a seed written in decimal or with a 0x, 0o, or 0b
// prefix, and truncates it to 48 bits.
func ParseSeed(text string) (Seed, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(text), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing seed %q: %w", text, err)
	}
	return NewSeed(value), nil
}

// String formats the seed as 0x followed by twelve upper-case hex
// digits, e.g. "0x1234ABCD330E".
func (s Seed) String() string {
	return fmt.Sprintf("0x%012X", uint64(s)&seedMask)
}

// MarshalText implements encoding.TextMarshaler using the String form.
func (s Seed) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Accepts any form
// ParseSeed accepts.
func (s *Seed) UnmarshalText(text []byte) error {
	parsed, err := ParseSeed(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// advance applies one LCG step to seed and returns the three 16-bit
// words of the new state, lowest first.
//
// The product is formed word by word with carry propagation, so no
// intermediate exceeds 64 bits and the top word simply discards
// everything at or above 2^48.
func advance(seed *Seed) (t0, t1, t2 uint64) {
	s0 := uint64(*seed) & 0xFFFF
	s1 := uint64(*seed) >> 16 & 0xFFFF
	s2 := uint64(*seed) >> 32 & 0xFFFF

	accumulator := multiplier0*s0 + Increment
	t0 = accumulator & 0xFFFF
	carry := accumulator >> 16

	accumulator = carry + multiplier0*s1 + multiplier1*s0
	t1 = accumulator & 0xFFFF
	carry = accumulator >> 16

	accumulator = carry + multiplier0*s2 + multiplier1*s1 + multiplier2*s0
	t2 = accumulator & 0xFFFF

	*seed = Seed(t2<<32 | t1<<16 | t0)
	return t0, t1, t2
}

// NextSeededInt32 advances seed and returns the top 32 bits of the new
// state as a signed value. The full int32 range, negatives included,
// is reachable.
func NextSeededInt32(seed *Seed) int32 {
	_, t1, t2 := advance(seed)
	return int32(uint32(t2<<16 + t1))
}

// NextSeededUint32 advances seed and returns the top 31 bits of the
// new state, in [0, 2^31).
func NextSeededUint32(seed *Seed) uint32 {
	_, t1, t2 := advance(seed)
	return uint32(t2<<15 + t1>>1)
}

// NextSeededDouble advances seed and returns the new state scaled into
// [0.0, 1.0). All 48 bits contribute, and the result is exact: a
// float64 mantissa holds 48 bits without rounding.
func NextSeededDouble(seed *Seed) float64 {
	t0, t1, t2 := advance(seed)
	return float64(t0)*0x1p-48 + float64(t1)*0x1p-32 + float64(t2)*0x1p-16
}
