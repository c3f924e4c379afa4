package environ

import (
	"testing"

	"github.com/dr-shell/drsh/internal/atom"
)

func newTestEnviron(flavor Flavor) *Environ {
	table := atom.NewTable()
	return &Environ{
		table:   table,
		flavor:  flavor,
		byIdent: make(map[*atom.Atom]int),
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	e := newTestEnviron(Linux)
	e.SetString("X", "hello")
	got, ok := e.GetString("X")
	if !ok || got != "hello" {
		t.Errorf("GetString(X) = %q, %v, want %q, true", got, ok, "hello")
	}
}

func TestCaseInsensitiveRoundTrip(t *testing.T) {
	e := newTestEnviron(Windows)
	e.SetString("PATH", "/bin")
	got, ok := e.GetString("path")
	if !ok || got != "/bin" {
		t.Errorf("GetString(path) = %q, %v, want %q, true", got, ok, "/bin")
	}
}

func TestCaseInsensitiveOverwritePreservesNewCase(t *testing.T) {
	e := newTestEnviron(Windows)
	e.SetString("PATH", "/bin")
	e.SetString("Path", "/usr/bin")

	// Only one slot should exist, and it should have a single value.
	if got, want := len(e.entries), 1; got != want {
		t.Fatalf("len(entries) = %d, want %d", got, want)
	}
	if got, want := e.entries[0].key.String(), "Path"; got != want {
		t.Errorf("stored key = %q, want %q (overwrite should replace case)", got, want)
	}
	got, _ := e.GetString("PATH")
	if got != "/usr/bin" {
		t.Errorf("GetString(PATH) = %q, want %q", got, "/usr/bin")
	}
}

func TestCaseSensitiveFamilyKeepsDistinctKeys(t *testing.T) {
	e := newTestEnviron(Linux)
	e.SetString("PATH", "/bin")
	e.SetString("Path", "/usr/bin")
	if got, want := len(e.entries), 2; got != want {
		t.Errorf("len(entries) = %d, want %d (case-sensitive family)", got, want)
	}
}

func TestUnset(t *testing.T) {
	e := newTestEnviron(Linux)
	e.SetString("X", "1")
	e.SetString("Y", "2")
	e.Unset(e.table.Atomize([]byte("X")))
	if _, ok := e.GetString("X"); ok {
		t.Errorf("X still present after Unset")
	}
	if got, ok := e.GetString("Y"); !ok || got != "2" {
		t.Errorf("Y corrupted by Unset: %q, %v", got, ok)
	}
}

func TestIncrementSHLVL(t *testing.T) {
	e := newTestEnviron(Linux)
	e.IncrementSHLVL()
	e.IncrementSHLVL()
	got, _ := e.GetString("SHLVL")
	if got != "2" {
		t.Errorf("SHLVL = %q, want %q", got, "2")
	}
}

func TestEachIsSortedAndStable(t *testing.T) {
	e := newTestEnviron(Linux)
	e.SetString("ZEBRA", "1")
	e.SetString("ALPHA", "2")
	e.SetString("MID", "3")

	var keys []string
	e.Each(func(key, value *atom.Atom) {
		keys = append(keys, key.String())
	})
	want := []string{"ALPHA", "MID", "ZEBRA"}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("Each order[%d] = %q, want %q (keys=%v)", i, keys[i], k, keys)
		}
	}
}

func TestCondenseInterior(t *testing.T) {
	tests := []struct{ in, want string }{
		{"~", "~"},
		{"~/a", "~/a"},
		{"~/a/bbbb/cccc/dddd", "~/a/b/c/dddd"},
		{"/usr/local/bin", "/u/l/bin"},
		{"/bin", "/bin"},
	}
	for _, test := range tests {
		if got := condenseInterior(test.in); got != test.want {
			t.Errorf("condenseInterior(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}
