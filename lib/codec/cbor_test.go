// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bureau-foundation/nposix/lib/random"
)

// sampleRecord mirrors the shape of an encoded sequence batch.
type sampleRecord struct {
	Seed   random.Seed `json:"seed"`
	Count  int         `json:"count"`
	Values []int32     `json:"values,omitempty"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRecord{
		Seed:   random.InitialSeed,
		Count:  3,
		Values: []int32{1702803237, -685110122, 1517566982},
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Seed != original.Seed || decoded.Count != original.Count || len(decoded.Values) != len(original.Values) {
		t.Fatalf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
	for i := range original.Values {
		if decoded.Values[i] != original.Values[i] {
			t.Errorf("Values[%d] = %d, want %d", i, decoded.Values[i], original.Values[i])
		}
	}
}

func TestSeedEncodesAsTextString(t *testing.T) {
	data, err := Marshal(sampleRecord{Seed: random.InitialSeed})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(diagnostic, `"0x1234ABCD330E"`) {
		t.Errorf("diagnostic %s does not contain the seed as a text string", diagnostic)
	}
	if strings.Contains(diagnostic, "values") {
		t.Errorf("omitempty field encoded: %s", diagnostic)
	}
}

func TestSeedDecodesAnyParseableForm(t *testing.T) {
	// {"seed": "42"}
	data, err := Marshal(map[string]string{"seed": "42"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Seed != 42 {
		t.Errorf("Seed = %v, want 0x00000000002A", decoded.Seed)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	value := map[string]int{"zeta": 1, "alpha": 2, "mid": 3}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for range 20 {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("map encoding is not deterministic")
		}
	}
}

func TestEncoderDecoderStream(t *testing.T) {
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for count := range 3 {
		if err := encoder.Encode(sampleRecord{Seed: random.Seed(count), Count: count}); err != nil {
			t.Fatalf("Encode %d: %v", count, err)
		}
	}

	decoder := NewDecoder(&buffer)
	for count := range 3 {
		var decoded sampleRecord
		if err := decoder.Decode(&decoded); err != nil {
			t.Fatalf("Decode %d: %v", count, err)
		}
		if decoded.Count != count || decoded.Seed != random.Seed(count) {
			t.Errorf("record %d decoded as %+v", count, decoded)
		}
	}
}

func TestUnmarshalAnyUsesStringKeys(t *testing.T) {
	data, err := Marshal(sampleRecord{Seed: 1, Count: 2})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	fields, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded %T, want map[string]any", decoded)
	}
	if fields["seed"] != "0x000000000001" {
		t.Errorf("seed = %v, want 0x000000000001", fields["seed"])
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var decoded sampleRecord
	if err := Unmarshal([]byte{0xFF, 0xFE}, &decoded); err == nil {
		t.Fatal("expected error for invalid CBOR")
	}
}
