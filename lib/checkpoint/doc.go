// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package checkpoint persists where a random stream left off, so a
// later run can continue it instead of restarting from the initial
// seed.
//
// A run that wants continuity:
//
//  1. Calls [Check]. If a fresh checkpoint exists, generation starts
//     from State.End; otherwise from the configured seed.
//  2. Generates its batch.
//  3. Calls [Write] with the batch's end seed and digest.
//
// A State is self-checking: its end seed and digest must follow from
// its start seed, kind, and count. [Write] refuses a State that fails
// [State.Verify], and [Read] rejects a file that does, with an error
// wrapping [ErrInconsistent]. A hand-edited or truncated-then-patched
// checkpoint therefore cannot silently redirect the stream.
//
// Files are written atomically (temporary file, fsync, rename, fsync
// of the parent directory), so a crash mid-write leaves the previous
// checkpoint intact and readers never see a partial file. Check
// ignores checkpoints older than a maximum age, measured against an
// injected [clock.Clock], so a forgotten file from last month does not
// silently change today's output.
//
// [State] is serialized as indented JSON so it can be read and edited
// by hand.
package checkpoint
