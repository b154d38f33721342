// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

// withBuild sets the ldflags variables and build info for one test.
func withBuild(t *testing.T, gitCommit, gitDirty string, info *debug.BuildInfo) {
	t.Helper()
	savedCommit, savedDirty, savedRead := GitCommit, GitDirty, readBuildInfo
	t.Cleanup(func() {
		GitCommit, GitDirty, readBuildInfo = savedCommit, savedDirty, savedRead
	})
	GitCommit, GitDirty = gitCommit, gitDirty
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
}

func TestInfoUsesLdflags(t *testing.T) {
	withBuild(t, "abc1234", "true", nil)
	if got, want := Info(), "0.1.0-dev (abc1234-dirty, unknown)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}

func TestInfoFallsBackToVCSStamp(t *testing.T) {
	withBuild(t, "unknown", "false", &debug.BuildInfo{
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.modified", Value: "false"},
		},
	})
	if got, want := Info(), "0.1.0-dev (0123456789ab, unknown)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}

func TestInfoWithoutBuildInfo(t *testing.T) {
	withBuild(t, "unknown", "false", nil)
	if got, want := Info(), "0.1.0-dev (unknown, unknown)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}

func TestFullIncludesPlatform(t *testing.T) {
	withBuild(t, "abc1234", "false", nil)
	full := Full()
	if !strings.HasPrefix(full, Info()) || !strings.Contains(full, "Platform: ") {
		t.Errorf("Full() = %q", full)
	}
	if Short() != Version {
		t.Errorf("Short() = %q, want %q", Short(), Version)
	}
}
