// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// FatalExitCode is the exit status used by [Fatalf]. It differs from
// the status 1 of [Fatal] so that supervisors can tell a broken
// invariant from an ordinary command failure.
const FatalExitCode = 2

// Fatal writes "error: err" to stderr and exits with code 1. This is
// the standard binary entrypoint error handler. Use it in main() for
// errors from run() where the structured logger may not be
// initialized.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// Fatalf reports a broken invariant and terminates the process: it
// writes "FATAL: file:line function message" to stderr, naming the
// caller of Fatalf, and exits with [FatalExitCode]. Use it only where
// continuing would corrupt state (a disposed primitive used again, a
// wait without the mutex held), never for recoverable errors.
func Fatalf(format string, args ...any) {
	writeFatal(os.Stderr, Location(2), format, args...)
	os.Exit(FatalExitCode)
}

// Location returns "file:line function" for the caller skip frames
// above Location (skip 1 is the function calling Location). The file
// is reduced to its base name and the function to its package-local
// name.
func Location(skip int) string {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown:0 unknown"
	}
	function := "unknown"
	if details := runtime.FuncForPC(pc); details != nil {
		// "github.com/x/y/lib/event.(*Event).Dispose" -> "(*Event).Dispose"
		function = details.Name()
		if slash := strings.LastIndex(function, "/"); slash >= 0 {
			function = function[slash+1:]
		}
		if dot := strings.Index(function, "."); dot >= 0 {
			function = function[dot+1:]
		}
	}
	return fmt.Sprintf("%s:%d %s", filepath.Base(file), line, function)
}

func writeFatal(w io.Writer, location, format string, args ...any) {
	fmt.Fprintf(w, "FATAL: %s %s\n", location, fmt.Sprintf(format, args...))
}
