// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bureau-foundation/nposix/lib/clock"
	"github.com/bureau-foundation/nposix/lib/random"
	"github.com/bureau-foundation/nposix/lib/sequence"
)

// State records the end of one generated batch.
type State struct {
	// Start is the seed the batch was drawn from.
	Start random.Seed `json:"start"`

	// End is the seed after the batch's last draw. The next run
	// starts here.
	End random.Seed `json:"end"`

	// Kind and Count describe the batch.
	Kind  sequence.Kind `json:"kind"`
	Count int           `json:"count"`

	// Digest is the batch's sequence digest, for checking that a
	// re-run reproduces it.
	Digest string `json:"digest"`

	// Timestamp is when the checkpoint was written. Check uses it to
	// discard stale files.
	Timestamp time.Time `json:"timestamp"`
}

// FromBatch returns the State recording batch, stamped with now.
func FromBatch(batch sequence.Batch, now time.Time) State {
	return State{
		Start:     batch.Seed,
		End:       batch.End,
		Kind:      batch.Kind,
		Count:     batch.Len(),
		Digest:    sequence.Digest(batch).String(),
		Timestamp: now.UTC().Round(0),
	}
}

// ErrInconsistent is wrapped by errors for a checkpoint whose end
// seed or digest does not follow from its start seed, kind, and count.
var ErrInconsistent = errors.New("checkpoint does not match its own stream")

// Verify regenerates the batch the state describes and checks that it
// ends at End and hashes to Digest.
func (s State) Verify() error {
	batch, err := sequence.Generate(s.Start, s.Kind, s.Count)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInconsistent, err)
	}
	if batch.End != s.End {
		return fmt.Errorf("%w: %d %s values from %s end at %s, not %s",
			ErrInconsistent, s.Count, s.Kind, s.Start, batch.End, s.End)
	}
	if digest := sequence.Digest(batch).String(); digest != s.Digest {
		return fmt.Errorf("%w: digest %s, recorded %s", ErrInconsistent, digest, s.Digest)
	}
	return nil
}

// Write verifies state and atomically replaces the checkpoint at path
// with it. The parent directory must already exist; the file is
// created with mode 0600.
func Write(path string, state State) error {
	if err := state.Verify(); err != nil {
		return fmt.Errorf("refusing to write checkpoint %s: %w", path, err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling checkpoint: %w", err)
	}
	return replaceFile(path, append(data, '\n'))
}

// replaceFile writes data to a uniquely named file beside path, syncs
// it, renames it over path, and syncs the directory so the rename
// survives power loss. Concurrent writers each use their own
// temporary file; the last rename wins.
func replaceFile(path string, data []byte) (err error) {
	directory := filepath.Dir(path)
	file, err := os.CreateTemp(directory, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary checkpoint file: %w", err)
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(file.Name())
		}
	}()

	if _, err = file.Write(data); err != nil {
		return fmt.Errorf("writing temporary checkpoint file: %w", err)
	}
	if err = file.Sync(); err != nil {
		return fmt.Errorf("syncing temporary checkpoint file: %w", err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("closing temporary checkpoint file: %w", err)
	}
	if err = os.Rename(file.Name(), path); err != nil {
		return fmt.Errorf("renaming checkpoint file into place: %w", err)
	}

	if parent, openErr := os.Open(directory); openErr == nil {
		parent.Sync()
		parent.Close()
	}
	return nil
}

// Read reads a checkpoint file and verifies it. A missing file returns
// an error wrapping os.ErrNotExist; a file that parses but describes an
// impossible stream returns one wrapping ErrInconsistent.
func Read(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("parsing checkpoint file %s: %w", path, err)
	}
	if err := state.Verify(); err != nil {
		return State{}, fmt.Errorf("checkpoint file %s: %w", path, err)
	}
	return state, nil
}

// Check reads a checkpoint and reports whether to continue from it:
// the file exists and was written no more than maxAge before
// clk.Now(). A maxAge of zero accepts any age, and a timestamp ahead
// of clk.Now() (the wall clock was stepped back since the write)
// counts as fresh. A missing or stale file returns a zero State and
// false with no error.
//
// Unreadable, corrupt, and inconsistent files are returned as errors:
// continuing from them would silently produce a different stream.
func Check(path string, maxAge time.Duration, clk clock.Clock) (State, bool, error) {
	state, err := Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, err
	}

	if maxAge > 0 && clk.Now().Sub(state.Timestamp) > maxAge {
		return State{}, false, nil
	}
	return state, true, nil
}

// Clear removes a checkpoint file. Returns nil when the file does not
// exist.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing checkpoint file: %w", err)
	}
	return nil
}
