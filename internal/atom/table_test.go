package atom

import "testing"

func TestAtomizeUniqueness(t *testing.T) {
	table := NewTable()

	tests := []struct {
		a, b  string
		equal bool
	}{
		{"cd", "cd", true},
		{"cd", "Cd", false},
		{"", "", true},
		{"PATH", "PATH", true},
		{"PATH", "PATHX", false},
	}

	for _, test := range tests {
		a, b := table.Atomize([]byte(test.a)), table.Atomize([]byte(test.b))
		if got := a == b; got != test.equal {
			t.Errorf("atomize(%q) == atomize(%q) = %v, want %v", test.a, test.b, got, test.equal)
		}
	}
}

func TestAtomizeReturnsSamePointer(t *testing.T) {
	table := NewTable()
	a1 := table.Atomize([]byte("hello"))
	a2 := table.Atomize([]byte("hello"))
	if a1 != a2 {
		t.Errorf("atomize(%q) returned different pointers across calls", "hello")
	}
}

func TestCaseFolding(t *testing.T) {
	table := NewTable()

	tests := []struct {
		a, b      string
		caseEqual bool
	}{
		{"PATH", "path", true},
		{"Path", "pAtH", true},
		{"PATH", "PATHEXT", false},
		{"abc123", "ABC123", true},
	}

	for _, test := range tests {
		a, b := table.Atomize([]byte(test.a)), table.Atomize([]byte(test.b))
		if got := a.IFold == b.IFold; got != test.caseEqual {
			t.Errorf("atomize(%q).IFold == atomize(%q).IFold = %v, want %v", test.a, test.b, got, test.caseEqual)
		}
	}
}

func TestIFoldSelfReferentialWhenLowercase(t *testing.T) {
	table := NewTable()
	a := table.Atomize([]byte("already-lower"))
	if a.IFold != a {
		t.Errorf("IFold of already-lowercase atom should be self-referential")
	}
}

func TestWellKnownAtoms(t *testing.T) {
	table := NewTable()

	if got, want := table.WellKnown(CD).String(), "cd"; got != want {
		t.Errorf("WellKnown(CD) = %q, want %q", got, want)
	}
	if got, want := table.WellKnown(PATH).String(), "PATH"; got != want {
		t.Errorf("WellKnown(PATH) = %q, want %q", got, want)
	}

	// Re-atomizing a well-known spelling should return the exact same
	// pointer that NewTable interned.
	if got := table.Atomize([]byte("cd")); got != table.WellKnown(CD) {
		t.Errorf("Atomize(\"cd\") != WellKnown(CD)")
	}
}

func TestGrowPreservesLookups(t *testing.T) {
	table := NewTable()
	words := make([]*Atom, 0, 200)
	for i := 0; i < 200; i++ {
		words = append(words, table.Atomize([]byte{byte('a' + i%26), byte('A' + (i/26)%26), byte(i)}))
	}
	for i, w := range words {
		again := table.Atomize(append([]byte(nil), w.Bytes...))
		if again != w {
			t.Errorf("word %d: lookup after growth returned a different atom", i)
		}
	}
}

func TestAtomizeErrOOM(t *testing.T) {
	table := NewTable()
	table.SetCapLimit(table.countUnsafe())
	if _, err := table.AtomizeErr([]byte("brand-new-atom")); err != ErrOOM {
		t.Errorf("AtomizeErr at cap limit = %v, want ErrOOM", err)
	}
}

// countUnsafe exposes the table's current atom count for the OOM test
// above without growing it by atomizing anything new.
func (t *Table) countUnsafe() int { return t.count }
