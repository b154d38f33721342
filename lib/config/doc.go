// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the YAML configuration for the nposix command.
//
// A configuration file is named either by the NPOSIX_CONFIG
// environment variable (via [Load]) or by a --config flag (via
// [LoadFile]). There is no search path. Values in the file are merged
// over [Default], ${HOME} and ${VAR:-default} are expanded in path
// fields, and the result is validated; unknown keys are rejected so a
// typo cannot silently fall back to a default.
//
//	random:
//	  seed: "0x1234ABCD330E"
//	  kind: double
//	  count: 1000
//	  format: cbor
//	  compression: zstd
//	  output: ${HOME}/sequence.cbor.zst
//	wait:
//	  timeout: 5s
//	  signal_after: 1s
//	uniformity:
//	  draws: 1000000
//	  bins: 100
//	  tolerance: 0.05
package config
