// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for nposix packages.
//
// [RequireReceive], [RequireClosed], and [RequireNoReceive] encapsulate
// the timeout safety valve pattern (select with time.After fallback)
// so that individual tests do not need direct time.After calls. They
// are the only place in the test suite where real wall-clock timeouts
// are used: everything else runs on clock.Fake, and these exist only
// to turn a deadlocked test into a failure instead of a hang.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no nposix-internal dependencies.
package testutil
