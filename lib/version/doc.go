// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the nposix binary.
//
// Four variables are injected at build time via -ldflags -X:
//
//	go build -ldflags "-X github.com/bureau-foundation/nposix/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Without ldflags the commit falls back to the VCS stamp the Go
// toolchain embeds, and to "unknown" when there is none (test
// binaries, builds outside a checkout).
package version
