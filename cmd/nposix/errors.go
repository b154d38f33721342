// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import "fmt"

// exitError ends the process with code without printing anything
// further. The command has already written its own output; a failed
// uniformity check or digest mismatch is a result, not a crash.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// ExitCode returns the process exit status.
func (e *exitError) ExitCode() int {
	return e.code
}
