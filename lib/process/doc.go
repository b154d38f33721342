// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides the two fail-fast exits used across
// nposix. Both write to stderr directly because the structured logger
// may not exist yet, or may be the thing that is broken:
//
//   - [Fatal] reports an error returned to main() and exits with
//     status 1.
//   - [Fatalf] reports a violated invariant with the file, line, and
//     function of the caller ("FATAL: event.go:88 (*Event).Dispose
//     ...") and exits with [FatalExitCode]. Library packages call it
//     through a package-level hook so tests can intercept it.
//
// This package depends on no other nposix packages.
package process
