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

// Package environ implements drsh's key/value environment: a map from
// atoms to atoms with platform-shaped serialization, plus the derived
// state (displayed cwd, config/history paths, SHLVL bookkeeping) that
// the rest of the shell reads off of it.
package environ

import (
	"os"
	"sort"
	"strconv"

	"github.com/dr-shell/drsh/internal/atom"
)

// Flavor tags the running OS family.
type Flavor int

const (
	Linux Flavor = iota
	Apple
	Windows
	Other
)

// CaseInsensitive reports whether this flavor's environment keys are
// case-insensitive (case-preserving but folded on lookup).
func (f Flavor) CaseInsensitive() bool { return f == Windows }

// PathSeparator is the directory separator character for this flavor.
func (f Flavor) PathSeparator() byte {
	if f == Windows {
		return '\\'
	}
	return '/'
}

// ListSeparator is the PATH-list separator character for this flavor.
func (f Flavor) ListSeparator() byte {
	if f == Windows {
		return ';'
	}
	return ':'
}

// entry is one slot of the environment's parallel index: the
// case-correct key atom actually stored, and its value.
type entry struct {
	key   *atom.Atom
	value *atom.Atom
}

// Environ is the environment: a map from key-atom to value-atom (keyed
// on IFold for the case-insensitive family, on the atom itself
// otherwise) plus the derived state described in spec §3.
type Environ struct {
	table  *atom.Table
	flavor Flavor

	// byIdent maps the folding key (IFold pointer on the
	// case-insensitive family, the atom itself otherwise) to its slot
	// in entries.
	byIdent map[*atom.Atom]int
	entries []entry

	displayCwd string
	home       *atom.Atom
	cols, rows int
	debug      bool
}

// New creates an Environ seeded from os.Environ() for the given flavor.
func New(table *atom.Table, flavor Flavor) *Environ {
	e := &Environ{
		table:   table,
		flavor:  flavor,
		byIdent: make(map[*atom.Atom]int),
	}
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				e.Set([]byte(kv[:i]), []byte(kv[i+1:]))
				break
			}
		}
	}
	e.home = e.getAtom(table.Atomize([]byte("HOME")))
	return e
}

// ident returns the identity an entry's key is stored and looked up
// under: the IFold pointer on the case-insensitive family (so "Path"
// and "PATH" collide), the atom itself everywhere else.
func (e *Environ) ident(key *atom.Atom) *atom.Atom {
	if e.flavor.CaseInsensitive() {
		return key.IFold
	}
	return key
}

// Get returns the value atom for key, or nil if unset. On the
// case-insensitive family, a miss on the primary index falls back to a
// linear rescan keyed on IFold, to accommodate out-of-order updates of
// IFold for rare key collisions (spec §4.2).
func (e *Environ) Get(key *atom.Atom) *atom.Atom {
	if a := e.getAtom(key); a != nil {
		return a
	}
	if e.flavor.CaseInsensitive() {
		for _, ent := range e.entries {
			if ent.key.IFold == key.IFold {
				return ent.value
			}
		}
	}
	return nil
}

func (e *Environ) getAtom(key *atom.Atom) *atom.Atom {
	if i, ok := e.byIdent[e.ident(key)]; ok {
		return e.entries[i].value
	}
	return nil
}

// GetString is Get followed by atomizing the lookup key and
// stringifying the result; convenient for callers that don't already
// hold an atom.
func (e *Environ) GetString(key string) (string, bool) {
	v := e.Get(e.table.Atomize([]byte(key)))
	if v == nil {
		return "", false
	}
	return v.String(), true
}

// Set stores value under key, atomizing both. On the case-insensitive
// family this overwrites whichever case variant is already present
// (e.g. setting "Path" when "PATH" exists replaces PATH's stored key
// atom with "Path", per spec §4.2) rather than adding a second entry.
func (e *Environ) Set(key, value []byte) {
	e.SetAtom(e.table.Atomize(key), e.table.Atomize(value))
}

// SetAtom is Set for callers that already hold atoms.
func (e *Environ) SetAtom(key, value *atom.Atom) {
	id := e.ident(key)
	if i, ok := e.byIdent[id]; ok {
		e.entries[i] = entry{key: key, value: value}
		return
	}
	e.byIdent[id] = len(e.entries)
	e.entries = append(e.entries, entry{key: key, value: value})
}

// SetString is Set for plain Go strings.
func (e *Environ) SetString(key, value string) {
	e.Set([]byte(key), []byte(value))
}

// Unset removes key from the environment, if present.
func (e *Environ) Unset(key *atom.Atom) {
	id := e.ident(key)
	i, ok := e.byIdent[id]
	if !ok {
		return
	}
	delete(e.byIdent, id)
	e.entries = append(e.entries[:i], e.entries[i+1:]...)
	for k, idx := range e.byIdent {
		if idx > i {
			e.byIdent[k] = idx - 1
		}
	}
}

// Flavor returns the OS flavor this Environ was constructed for.
func (e *Environ) Flavor() Flavor { return e.flavor }

// Debug returns the current debug flag (toggled by the `debug`
// built-in).
func (e *Environ) Debug() bool { return e.debug }

// SetDebug sets the debug flag.
func (e *Environ) SetDebug(on bool) { e.debug = on }

// Each calls fn for every (key, value) pair in a stable, case-correct
// sorted order (by key bytes), matching the ordering envp serialization
// requires (spec §4.2).
func (e *Environ) Each(fn func(key, value *atom.Atom)) {
	sorted := append([]entry(nil), e.entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return string(sorted[i].key.Bytes) < string(sorted[j].key.Bytes)
	})
	for _, ent := range sorted {
		fn(ent.key, ent.value)
	}
}

// Envp serializes the environment for process spawning: a "KEY=VALUE"
// string per entry, on every Flavor. os/exec.Cmd.Env already takes
// exactly this shape and builds the platform-specific block (including
// the DOS family's NUL-separated form) internally, so there is no
// separate DOS encoding here — see DESIGN.md's Open Question (iv).
func (e *Environ) Envp() []string {
	var out []string
	e.Each(func(key, value *atom.Atom) {
		out = append(out, key.String()+"="+value.String())
	})
	return out
}

// IncrementSHLVL reads SHLVL as an integer (0 if absent), adds one, and
// stores it back as a decimal string (spec §4.2).
func (e *Environ) IncrementSHLVL() {
	key := e.table.WellKnown(atom.SHLVL)
	n := 0
	if v := e.Get(key); v != nil {
		if parsed, err := strconv.Atoi(v.String()); err == nil {
			n = parsed
		}
	}
	e.SetAtom(key, e.table.Atomize([]byte(strconv.Itoa(n+1))))
}

// Home returns the cached HOME atom, or nil if HOME is unset.
func (e *Environ) Home() *atom.Atom {
	e.home = e.getAtom(e.table.WellKnown(atom.HOME))
	return e.home
}

// Size returns the cached terminal dimensions.
func (e *Environ) Size() (cols, rows int) { return e.cols, e.rows }
