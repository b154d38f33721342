// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the module's one CBOR configuration so every
// package that emits CBOR produces identical bytes for identical data.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// Encoded sequence batches can therefore be hashed or compared
// byte-for-byte across runs.
//
//	data, err := codec.Marshal(batch)
//	err = codec.Unmarshal(data, &batch)
//
// Types carry `json` struct tags; fxamacker/cbor falls back to them
// when no `cbor` tag is present, so one tag names a field in both
// formats.
package codec
