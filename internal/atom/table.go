package atom

import "bytes"

const maxLoadFactor = 0.8

// WellKnown enumerates the atoms the shell needs to compare against by
// pointer on every dispatch, so they're interned once up front instead
// of being atomized (and hashed) on every line.
type WellKnown int

const (
	CD WellKnown = iota
	PWD
	ECHO
	SET
	EXIT
	SOURCE
	TIME
	DEBUG
	ON
	OFF
	TRUE
	FALSE
	ZERO
	ONE
	DOT
	PWDVar
	HOME
	PATH
	PATHEXT
	COLUMNS
	LINES
	TERM
	USER
	SHELL
	SHLVL
	DRSHHistory
	DRSHConfig

	wellKnownCount
)

var wellKnownSpelling = [wellKnownCount]string{
	CD:          "cd",
	PWD:         "pwd",
	ECHO:        "echo",
	SET:         "set",
	EXIT:        "exit",
	SOURCE:      "source",
	TIME:        "time",
	DEBUG:       "debug",
	ON:          "on",
	OFF:         "off",
	TRUE:        "true",
	FALSE:       "false",
	ZERO:        "0",
	ONE:         "1",
	DOT:         ".",
	PWDVar:      "PWD",
	HOME:        "HOME",
	PATH:        "PATH",
	PATHEXT:     "PATHEXT",
	COLUMNS:     "COLUMNS",
	LINES:       "LINES",
	TERM:        "TERM",
	USER:        "USER",
	SHELL:       "SHELL",
	SHLVL:       "SHLVL",
	DRSHHistory: "DRSH_HISTORY",
	DRSHConfig:  "DRSH_CONFIG",
}

// slot is one entry of the table's open-addressed index. An empty slot
// has a nil atom.
type slot struct {
	hash uint32
	a    *Atom
}

// Table is an atom table: an open-addressed hash table mapping
// (hash, bytes) to Atom, plus the fixed well-known-atom array.
type Table struct {
	slots     []slot
	count     int
	wellKnown [wellKnownCount]*Atom
	capLimit  int // 0 means unlimited; used only by tests exercising OOM
}

// NewTable creates an atom table and interns every well-known atom.
func NewTable() *Table {
	t := &Table{
		slots: make([]slot, 16),
	}
	for i := WellKnown(0); i < wellKnownCount; i++ {
		t.wellKnown[i] = t.Atomize([]byte(wellKnownSpelling[i]))
	}
	return t
}

// WellKnown returns the interned atom for one of the fixed well-known
// words. The returned pointer is stable for the life of the table.
func (t *Table) WellKnown(w WellKnown) *Atom {
	return t.wellKnown[w]
}

// SetCapLimit bounds the number of atoms the table will allocate before
// Atomize starts returning ErrOOM. A limit of 0 (the default) means
// unlimited. This exists so error-handling paths (§7, OOM) can be
// exercised deterministically in tests.
func (t *Table) SetCapLimit(n int) { t.capLimit = n }

// Atomize returns the unique Atom for the given bytes, allocating and
// interning a new one if necessary (along with its lowercase sibling,
// if different).
func (t *Table) Atomize(b []byte) *Atom {
	a, err := t.atomize(b)
	if err != nil {
		// Atomize's documented contract (per spec §4.1) is to fail with
		// OOM on allocation failure; callers that need to observe this
		// use AtomizeErr instead. Atomize itself never returns nil in
		// practice because capLimit is unset outside of tests.
		panic(err)
	}
	return a
}

// AtomizeErr is Atomize but returns ErrOOM instead of panicking when the
// table's optional capacity limit (see SetCapLimit) is exceeded.
func (t *Table) AtomizeErr(b []byte) (*Atom, error) {
	return t.atomize(b)
}

func (t *Table) atomize(b []byte) (*Atom, error) {
	h := hashBytes(b)
	if a := t.lookup(h, b); a != nil {
		return a, nil
	}

	if t.capLimit > 0 && t.count >= t.capLimit {
		return nil, ErrOOM
	}

	a := &Atom{
		Bytes: append([]byte(nil), b...),
		Hash:  h,
	}

	if folded, changed := foldLower(b); changed {
		sibling, err := t.atomize(folded)
		if err != nil {
			return nil, err
		}
		a.IFold = sibling
	} else {
		a.IFold = a
	}

	t.insert(h, a)
	return a, nil
}

// lookup probes linearly from reduce32(hash, capacity) and returns the
// existing atom if (hash, length, bytes) all match.
func (t *Table) lookup(h uint32, b []byte) *Atom {
	n := len(t.slots)
	i := reduce32(h, n)
	for probed := 0; probed < n; probed++ {
		s := &t.slots[i]
		if s.a == nil {
			return nil
		}
		if s.hash == h && len(s.a.Bytes) == len(b) && bytes.Equal(s.a.Bytes, b) {
			return s.a
		}
		i = (i + 1) % n
	}
	return nil
}

// insert grows the table if needed and places a into its probe chain.
func (t *Table) insert(h uint32, a *Atom) {
	if float64(t.count+1) > maxLoadFactor*float64(len(t.slots)) {
		t.grow()
	}

	n := len(t.slots)
	i := reduce32(h, n)
	for {
		if t.slots[i].a == nil {
			t.slots[i] = slot{hash: h, a: a}
			t.count++
			return
		}
		i = (i + 1) % n
	}
}

// grow doubles the table's capacity and rehashes every atom into the
// new index array (length 2*capacity, per spec §3).
func (t *Table) grow() {
	old := t.slots
	t.slots = make([]slot, len(old)*2)
	t.count = 0
	for _, s := range old {
		if s.a != nil {
			t.insert(s.hash, s.a)
		}
	}
}

// foldLower returns the ASCII-lowercased form of b and whether it
// differs from b. Only bytes in 'A'-'Z' are folded; this is an ASCII
// fold only, matching the spec's case-insensitive family semantics.
func foldLower(b []byte) (folded []byte, changed bool) {
	for _, c := range b {
		if c >= 'A' && c <= 'Z' {
			changed = true
			break
		}
	}
	if !changed {
		return b, false
	}
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return out, true
}
