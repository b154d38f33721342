// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sequence

import "fmt"

// Kind selects which projection of the generator state a batch holds.
type Kind uint8

const (
	// KindInt32 holds NextSeededInt32 values.
	KindInt32 Kind = iota + 1

	// KindUint32 holds NextSeededUint32 values.
	KindUint32

	// KindDouble holds NextSeededDouble values.
	KindDouble
)

// String returns "int32", "uint32", or "double".
func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindUint32:
		return "uint32"
	case KindDouble:
		return "double"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// ParseKind parses the String form of a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "int32":
		return KindInt32, nil
	case "uint32":
		return KindUint32, nil
	case "double":
		return KindDouble, nil
	default:
		return 0, fmt.Errorf("unknown sequence kind %q (want int32, uint32, or double)", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("cannot marshal sequence kind %s", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k Kind) valid() bool {
	return k >= KindInt32 && k <= KindDouble
}

// width is the number of bytes one value occupies in the digest
// encoding.
func (k Kind) width() int {
	if k == KindDouble {
		return 8
	}
	return 4
}
