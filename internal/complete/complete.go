// Package complete implements drsh's tab-completion engine: token
// boundary detection, directory listing, candidate ranking, and cyclic
// TAB/Shift-TAB selection (spec §4.7).
package complete

import (
	"os"
	"sort"
	"strings"

	"github.com/dr-shell/drsh/internal/environ"
)

// Candidate is one ranked completion candidate (spec §3: "candidate
// word").
type Candidate struct {
	Text         string
	PrefixMatch  bool
	IPrefixMatch bool
	Distance     int
	IDistance    int
}

// Session holds one completion run's state: the token that triggered
// it, its ranked candidates, and the cursor cycling through them.
type Session struct {
	Dirname    string
	Basename   string
	Candidates []Candidate
	Cursor     int
}

// Boundary finds the start offset of the "current token" ending at
// cursor: the nearest unescaped space to the left. A backslash
// immediately preceding a space escapes it (so the space doesn't end
// the token); runs of backslashes are counted to decide whether the
// final one is itself escaped. This mirrors spec §4.7 step 1 and
// spec §9's acknowledged edge case around odd backslash runs.
func Boundary(line []byte, cursor int) int {
	i := cursor
	for i > 0 {
		c := line[i-1]
		if isSpace(c) && !escapedAt(line, i-1) {
			break
		}
		i--
	}
	return i
}

func isSpace(c byte) bool {
	switch c {
	case 0x00, ' ', '\r', '\t', '\n', '\x0C':
		return true
	}
	return false
}

// escapedAt reports whether line[i] is preceded by an odd number of
// backslashes, i.e. is itself escaped.
func escapedAt(line []byte, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && line[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// SplitDirBase splits a token into its directory and basename
// portions, per spec §4.7 step 1: if the token contains a path
// separator, the part before the last one is dirname and the rest is
// basename; otherwise the whole token is basename and dirname is
// empty.
func SplitDirBase(token string, flavor environ.Flavor) (dirname, basename string) {
	last := -1
	for i := 0; i < len(token); i++ {
		if token[i] == '/' || token[i] == flavor.PathSeparator() {
			last = i
		}
	}
	if last < 0 {
		return "", token
	}
	return token[:last+1], token[last+1:]
}

// Lister abstracts directory enumeration so tests can drive ranking
// without touching the filesystem; the production implementation is
// ListDir.
type Lister func(dirname string) ([]os.DirEntry, error)

// ListDir is the production Lister: a plain os.ReadDir. Symlinks are
// resolved to decide directory-ness by Run, not here (spec §4.7 step 3).
func ListDir(dirname string) ([]os.DirEntry, error) {
	return os.ReadDir(dirname)
}

// Run performs one completion: lists dirname (resolved against pwd if
// dirname is empty), filters to directories only when restrictToDirs
// is set, ranks every name (plus basename itself as the zeroth
// candidate) against basename, and returns the sorted Session.
func Run(list Lister, pwd, dirname, basename string, restrictToDirs bool) (*Session, error) {
	resolveDir := dirname
	if resolveDir == "" {
		resolveDir = pwd
		if resolveDir == "" {
			resolveDir = "."
		}
	}

	entries, err := list(resolveDir)
	if err != nil {
		entries = nil
	}

	names := []string{basename}
	for _, ent := range entries {
		name := ent.Name()
		if name == "." || name == ".." {
			continue
		}
		isDir := ent.IsDir()
		if ent.Type()&os.ModeSymlink != 0 {
			if info, statErr := os.Stat(resolveDir + string(os.PathSeparator) + name); statErr == nil {
				isDir = info.IsDir()
			}
		}
		if restrictToDirs && !isDir {
			continue
		}
		if isDir {
			name += "/"
		}
		names = append(names, name)
	}

	candidates := rank(basename, names)
	return &Session{Dirname: dirname, Basename: basename, Candidates: candidates}, nil
}

func rank(basename string, names []string) []Candidate {
	out := make([]Candidate, 0, len(names))
	for _, name := range names {
		d := Distance(name, basename)
		id := IDistance(name, basename)
		if id == -1 {
			continue
		}
		out = append(out, Candidate{
			Text:         name,
			PrefixMatch:  strings.HasPrefix(name, basename),
			IPrefixMatch: strings.HasPrefix(strings.ToLower(name), strings.ToLower(basename)),
			Distance:     d,
			IDistance:    id,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.PrefixMatch != b.PrefixMatch {
			return a.PrefixMatch
		}
		if a.IPrefixMatch != b.IPrefixMatch {
			return a.IPrefixMatch
		}
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.IDistance != b.IDistance {
			return a.IDistance < b.IDistance
		}
		if isDotfile(a.Text) != isDotfile(b.Text) {
			return !isDotfile(a.Text)
		}
		return a.Text < b.Text
	})
	return out
}

func isDotfile(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Distance is the number of byte insertions needed to turn needle into
// haystack: -1 unless needle is an in-order byte subsequence of
// haystack, in which case it's len(haystack)-len(needle) (spec §4.7,
// §8).
func Distance(haystack, needle string) int {
	j := 0
	for i := 0; i < len(haystack) && j < len(needle); i++ {
		if haystack[i] == needle[j] {
			j++
		}
	}
	if j != len(needle) {
		return -1
	}
	return len(haystack) - len(needle)
}

// IDistance is Distance with an ASCII case fold (OR 0x20) applied to
// each byte before comparison.
func IDistance(haystack, needle string) int {
	return Distance(foldLower(haystack), foldLower(needle))
}

func foldLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		b[i] = c | 0x20
	}
	return string(b)
}

// Advance moves the session's cursor by delta (1 for TAB, -1 for
// Shift-TAB), wrapping modulo the candidate count, and returns the
// newly selected candidate's text.
func (s *Session) Advance(delta int) string {
	if len(s.Candidates) == 0 {
		return s.Basename
	}
	n := len(s.Candidates)
	s.Cursor = ((s.Cursor+delta)%n + n) % n
	return s.Candidates[s.Cursor].Text
}
