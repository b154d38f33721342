// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sequence

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/zeebo/blake3"
)

// Sum is a 32-byte BLAKE3 digest of a batch.
type Sum [32]byte

// String returns the lower-case hex form.
func (s Sum) String() string {
	return hex.EncodeToString(s[:])
}

// ParseSum parses the String form of a Sum.
func ParseSum(text string) (Sum, error) {
	var sum Sum
	decoded, err := hex.DecodeString(text)
	if err != nil {
		return sum, fmt.Errorf("parsing sequence digest: %w", err)
	}
	if len(decoded) != len(sum) {
		return sum, fmt.Errorf("sequence digest is %d bytes, want %d", len(decoded), len(sum))
	}
	copy(sum[:], decoded)
	return sum, nil
}

// digestKey is the BLAKE3 key for sequence digests: "nposix.sequence"
// in ASCII, zero-padded to 32 bytes. Changing it changes every digest.
var digestKey = [32]byte{
	'n', 'p', 'o', 's', 'i', 'x', '.', 's', 'e', 'q', 'u', 'e', 'n', 'c', 'e', 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Digest hashes the values of a batch independently of how it was
// encoded. The input is one byte holding the Kind followed by each
// value in big-endian order: four bytes for int32 and uint32, the
// eight IEEE 754 bytes for double. Seeds are not included, so any
// implementation that produces the same values produces the same Sum.
func Digest(batch Batch) Sum {
	hasher, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		panic("sequence: BLAKE3 keyed hash initialization failed: " + err.Error())
	}

	buffer := make([]byte, 0, 1+batch.Len()*batch.Kind.width())
	buffer = append(buffer, byte(batch.Kind))
	switch batch.Kind {
	case KindInt32:
		for _, value := range batch.Int32 {
			buffer = binary.BigEndian.AppendUint32(buffer, uint32(value))
		}
	case KindUint32:
		for _, value := range batch.Uint32 {
			buffer = binary.BigEndian.AppendUint32(buffer, value)
		}
	case KindDouble:
		for _, value := range batch.Double {
			buffer = binary.BigEndian.AppendUint64(buffer, math.Float64bits(value))
		}
	}
	hasher.Write(buffer)

	var sum Sum
	copy(sum[:], hasher.Sum(nil))
	return sum
}
