// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sequence

import (
	"fmt"

	"github.com/bureau-foundation/nposix/lib/random"
)

// MaxCount bounds the number of values in one batch.
const MaxCount = 1 << 24

// Batch is a run of values drawn from one seed. Exactly one of Int32,
// Uint32, and Double is populated, selected by Kind.
type Batch struct {
	// Seed is the state before the first draw.
	Seed random.Seed `json:"seed"`

	// End is the state after the last draw. Generating from End
	// continues the stream.
	End random.Seed `json:"end"`

	Kind Kind `json:"kind"`

	Int32  []int32   `json:"int32,omitempty"`
	Uint32 []uint32  `json:"uint32,omitempty"`
	Double []float64 `json:"double,omitempty"`
}

// Generate draws count values of kind starting from seed. The caller's
// seed is not modified.
func Generate(seed random.Seed, kind Kind, count int) (Batch, error) {
	if !kind.valid() {
		return Batch{}, fmt.Errorf("generating sequence: invalid kind %s", kind)
	}
	if count < 0 || count > MaxCount {
		return Batch{}, fmt.Errorf("generating sequence: count %d outside [0, %d]", count, MaxCount)
	}

	batch := Batch{Seed: random.NewSeed(uint64(seed)), Kind: kind}
	state := batch.Seed
	switch kind {
	case KindInt32:
		batch.Int32 = make([]int32, count)
		for i := range batch.Int32 {
			batch.Int32[i] = random.NextSeededInt32(&state)
		}
	case KindUint32:
		batch.Uint32 = make([]uint32, count)
		for i := range batch.Uint32 {
			batch.Uint32[i] = random.NextSeededUint32(&state)
		}
	case KindDouble:
		batch.Double = make([]float64, count)
		for i := range batch.Double {
			batch.Double[i] = random.NextSeededDouble(&state)
		}
	}
	batch.End = state
	return batch, nil
}

// Len returns the number of values in the batch.
func (b Batch) Len() int {
	switch b.Kind {
	case KindInt32:
		return len(b.Int32)
	case KindUint32:
		return len(b.Uint32)
	case KindDouble:
		return len(b.Double)
	default:
		return 0
	}
}

// Verify regenerates b from its Seed and returns an error describing
// the first disagreement: a value, the End seed, or a populated slice
// that does not match Kind.
func Verify(b Batch) error {
	if err := b.validate(); err != nil {
		return err
	}
	expected, err := Generate(b.Seed, b.Kind, b.Len())
	if err != nil {
		return err
	}
	for i := range b.Len() {
		got, want := b.format(i), expected.format(i)
		if got != want {
			return fmt.Errorf("value %d from seed %s: got %s, want %s", i, b.Seed, got, want)
		}
	}
	if b.End != expected.End {
		return fmt.Errorf("end seed: got %s, want %s", b.End, expected.End)
	}
	return nil
}

// validate checks the structural invariants of a decoded batch.
func (b Batch) validate() error {
	if !b.Kind.valid() {
		return fmt.Errorf("invalid sequence kind %s", b.Kind)
	}
	populated := 0
	for _, length := range []int{len(b.Int32), len(b.Uint32), len(b.Double)} {
		if length > 0 {
			populated++
		}
	}
	if populated > 1 || (populated == 1 && b.Len() == 0) {
		return fmt.Errorf("batch of kind %s carries values of another kind", b.Kind)
	}
	if b.Len() > MaxCount {
		return fmt.Errorf("batch holds %d values, limit is %d", b.Len(), MaxCount)
	}
	return nil
}
