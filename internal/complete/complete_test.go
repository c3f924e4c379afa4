package complete

import (
	"os"
	"testing"

	"github.com/dr-shell/drsh/internal/environ"
)

func TestBoundaryFindsNearestSpace(t *testing.T) {
	line := []byte("echo hello")
	if got := Boundary(line, len(line)); got != 5 {
		t.Errorf("Boundary = %d, want 5", got)
	}
}

func TestBoundaryWholeLineWhenNoSpace(t *testing.T) {
	line := []byte("echo")
	if got := Boundary(line, len(line)); got != 0 {
		t.Errorf("Boundary = %d, want 0", got)
	}
}

func TestBoundaryEscapedSpaceIsNotABoundary(t *testing.T) {
	line := []byte(`a\ b`)
	if got := Boundary(line, len(line)); got != 0 {
		t.Errorf("Boundary = %d, want 0 (escaped space doesn't split)", got)
	}
}

func TestSplitDirBase(t *testing.T) {
	dir, base := SplitDirBase("usr/local/bi", environ.Linux)
	if dir != "usr/local/" || base != "bi" {
		t.Errorf("SplitDirBase = %q, %q, want usr/local/, bi", dir, base)
	}

	dir, base = SplitDirBase("bi", environ.Linux)
	if dir != "" || base != "bi" {
		t.Errorf("SplitDirBase(no sep) = %q, %q, want empty, bi", dir, base)
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		haystack, needle string
		want             int
	}{
		{"abc", "abc", 0},
		{"abc", "ab", 1},
		{"abc", "ac", 1},
		{"abc", "", 3},
		{"abc", "xyz", -1},
		{"abc", "ba", -1},
	}
	for _, test := range tests {
		if got := Distance(test.haystack, test.needle); got != test.want {
			t.Errorf("Distance(%q,%q) = %d, want %d", test.haystack, test.needle, got, test.want)
		}
	}
}

func TestIDistanceFoldsCase(t *testing.T) {
	if got := IDistance("ABC", "ab"); got != 1 {
		t.Errorf("IDistance(ABC,ab) = %d, want 1", got)
	}
}

// TestScenarioThreeRanking reproduces spec §8 scenario 3: with abc,
// abd, abz in cwd, TAB on "a" cycles abc, abd, abz, then back to "a".
func TestScenarioThreeRanking(t *testing.T) {
	fakeList := func(string) ([]os.DirEntry, error) {
		return []os.DirEntry{
			fakeEntry{"abc", false},
			fakeEntry{"abd", false},
			fakeEntry{"abz", false},
		}, nil
	}

	sess, err := Run(fakeList, "/cwd", "", "a", false)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, c := range sess.Candidates {
		got = append(got, c.Text)
	}
	want := []string{"a", "abc", "abd", "abz"}
	if !equal(got, want) {
		t.Errorf("ranked candidates = %v, want %v", got, want)
	}

	first := sess.Candidates[sess.Cursor].Text
	if first != "a" {
		t.Errorf("zeroth candidate = %q, want %q", first, "a")
	}
	if got := sess.Advance(1); got != "abc" {
		t.Errorf("Advance(1) = %q, want abc", got)
	}
	if got := sess.Advance(1); got != "abd" {
		t.Errorf("Advance(1) = %q, want abd", got)
	}
	if got := sess.Advance(1); got != "abz" {
		t.Errorf("Advance(1) = %q, want abz", got)
	}
	if got := sess.Advance(1); got != "a" {
		t.Errorf("Advance(1) wrap = %q, want a", got)
	}
	if got := sess.Advance(-1); got != "abz" {
		t.Errorf("Advance(-1) wrap = %q, want abz", got)
	}
}

func TestRunRestrictsToDirectories(t *testing.T) {
	fakeList := func(string) ([]os.DirEntry, error) {
		return []os.DirEntry{
			fakeEntry{"dirA", true},
			fakeEntry{"fileB", false},
		}, nil
	}
	sess, err := Run(fakeList, "/cwd", "", "", true)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, c := range sess.Candidates {
		got = append(got, c.Text)
	}
	want := []string{"", "dirA/"}
	if !equal(got, want) {
		t.Errorf("restricted candidates = %v, want %v", got, want)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type fakeEntry struct {
	name  string
	isDir bool
}

func (f fakeEntry) Name() string { return f.name }
func (f fakeEntry) IsDir() bool  { return f.isDir }
func (f fakeEntry) Type() os.FileMode {
	if f.isDir {
		return os.ModeDir
	}
	return 0
}
func (f fakeEntry) Info() (os.FileInfo, error) { return nil, nil }
