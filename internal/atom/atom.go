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

// Package atom implements an interned-string table with case-folded
// sibling atoms, the identity substrate the rest of drsh builds on.
//
// Two atoms produced by the same Table compare equal iff they are the
// same pointer; two atoms compare case-insensitively equal iff their
// IFold fields are the same pointer. Atoms are never freed.
package atom

import "github.com/pkg/errors"

// Atom is an immutable interned byte string.
type Atom struct {
	Bytes []byte
	Hash  uint32
	// IFold is the Atom for the ASCII-lowercased form of Bytes. It is
	// self-referential (IFold == this atom) when Bytes is already
	// lowercase.
	IFold *Atom
}

// Len returns the number of bytes in the atom.
func (a *Atom) Len() int { return len(a.Bytes) }

// String returns the atom's contents as a string.
func (a *Atom) String() string { return string(a.Bytes) }

// Equal reports whether a and b are the same interned atom.
func (a *Atom) Equal(b *Atom) bool { return a == b }

// EqualFold reports whether a and b are case-insensitively equal, i.e.
// they were produced from the same table and share an IFold pointer.
func (a *Atom) EqualFold(b *Atom) bool { return a.IFold == b.IFold }

var errOOM = errors.New("atom: out of memory")

// ErrOOM is returned by Table.Atomize when allocation is refused by the
// table's (optional) capacity ceiling.
var ErrOOM = errOOM
