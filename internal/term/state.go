// Copyright 2013 Google, Inc.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package term owns the raw-terminal state machine and the
// keystroke-decoding layer drsh builds its line editor on top of. It
// generalizes kylelemons-goat/termios.TermSettings (cgo-only, POSIX-only)
// to golang.org/x/term so the same state machine serves both OS
// families.
package term

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Mode is one of the four terminal states from spec §3/§4.3.
type Mode int

const (
	// Init is the state immediately after State is constructed: the
	// original mode has been snapshotted but no mode change has been
	// requested yet.
	Init Mode = iota
	// Raw is active while the line editor is reading keystrokes.
	Raw
	// Orig is the terminal's original (cooked) mode, restored before
	// spawning a child and on every exit path.
	Orig
	// Unknown is entered after spawning a child that may have changed
	// the terminal mode out from under us; no syscalls are issued to
	// get here, only to leave it (via Raw or Orig).
	Unknown
)

func (m Mode) String() string {
	switch m {
	case Init:
		return "INIT"
	case Raw:
		return "RAW"
	case Orig:
		return "ORIG"
	case Unknown:
		return "UNKNOWN"
	default:
		return "?"
	}
}

// State is the terminal-mode state machine. All process spawns must
// transition Raw->Orig before invoking the OS spawn primitive and
// Unknown afterward; the next redisplay restores Raw (spec §4.3).
type State struct {
	fd       int
	in, out  *os.File
	mode     Mode
	original *term.State

	isTerminal bool
}

// NewState snapshots the original terminal mode for fd (normally
// os.Stdin's descriptor) and records whether stdin is a terminal at all
// (a non-terminal stdin, e.g. when piped, makes Raw a no-op). Whether
// stdout is a terminal is checked on demand by IsOutputTerminal; both
// govern the CRLF-after-accept rule in spec §6.
func NewState(in, out *os.File) (*State, error) {
	fd := int(in.Fd())
	s := &State{
		fd:         fd,
		in:         in,
		out:        out,
		mode:       Init,
		isTerminal: term.IsTerminal(fd),
	}
	if s.isTerminal {
		orig, err := term.GetState(fd)
		if err != nil {
			return nil, errors.Wrap(err, "term: snapshot original mode")
		}
		s.original = orig
	}
	return s, nil
}

// Mode returns the current mode.
func (s *State) Mode() Mode { return s.mode }

// IsTerminal reports whether stdin is a terminal (cached at
// construction; spec §3's "OTHER" flavor bucket doesn't change this).
func (s *State) IsTerminal() bool { return s.isTerminal }

// IsOutputTerminal reports whether stdout is a terminal, used by the
// CRLF-after-accept rule (spec §6).
func (s *State) IsOutputTerminal() bool {
	return s.out != nil && term.IsTerminal(int(s.out.Fd()))
}

// Raw puts the terminal into raw mode (no echo, no canonical mode, 8-bit,
// VMIN=1/VTIME=0 on POSIX; on the DOS family this disables line input).
// VT processing on the DOS family is not switched on here but by
// EnableVTProcessing, which cmd/drsh calls once per session.
// Idempotent: a no-op if already Raw.
func (s *State) Raw() error {
	if s.mode == Raw {
		return nil
	}
	if !s.isTerminal {
		s.mode = Raw
		return nil
	}
	// golang.org/x/term.MakeRaw implements the raw mode (no echo,
	// non-canonical, 8-bit, VMIN=1/VTIME=0 on POSIX; no line input on the
	// DOS family) for both OS families, so there is no platform split
	// here the way there was in the teacher's cgo-only termios package.
	if _, err := term.MakeRaw(s.fd); err != nil {
		return errors.Wrap(err, "term: enter raw mode")
	}
	s.mode = Raw
	return nil
}

// Orig restores the snapshotted original mode. Idempotent.
func (s *State) Orig() error {
	if s.mode == Orig {
		return nil
	}
	if s.isTerminal && s.original != nil {
		if err := term.Restore(s.fd, s.original); err != nil {
			return errors.Wrap(err, "term: restore original mode")
		}
	}
	s.mode = Orig
	return nil
}

// Unknown marks the state as UNKNOWN without issuing any syscalls; used
// immediately after spawning a child that may have changed the mode.
func (s *State) Unknown() { s.mode = Unknown }

// Size returns the terminal's current (cols, rows), querying the OS.
func (s *State) Size() (cols, rows int, err error) {
	if !s.isTerminal {
		return 80, 24, nil
	}
	cols, rows, err = term.GetSize(s.fd)
	if err != nil {
		return 0, 0, errors.Wrap(err, "term: get size")
	}
	return cols, rows, nil
}

// Writer returns the writer spawns and redisplay write to.
func (s *State) Writer() io.Writer { return s.out }

// Reader returns the reader the input decoder reads from.
func (s *State) Reader() io.Reader { return s.in }
