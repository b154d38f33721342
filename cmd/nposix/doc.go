// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// nposix exercises the 48-bit linear congruential generator and the
// bounded condition wait from the command line.
//
// Usage:
//
//	nposix random [flags]            generate a sequence batch
//	nposix digest [flags] [FILE]     fingerprint a generated or saved batch
//	nposix uniformity [flags]        histogram NextSeededDouble draws
//	nposix wait [flags]              run one bounded wait and report its outcome
//	nposix version [--full]          print build information
//
// Every subcommand accepts --config (or NPOSIX_CONFIG) naming a YAML
// file; flags given on the command line override the file. Logs go to
// stderr as text on a terminal and JSON otherwise; set NPOSIX_DEBUG
// for debug records.
package main
