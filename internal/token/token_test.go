package token

import (
	"testing"

	"github.com/dr-shell/drsh/internal/atom"
	"github.com/dr-shell/drsh/internal/environ"
)

func TestSplitBasic(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"echo hello world", []string{"echo", "hello", "world"}},
		{"  a   b  ", []string{"a", "b"}},
		{"a'b c'd", []string{"a'b c'd"}},
		{`a"b c"d`, []string{`a"b c"d`}},
		{`a\ b`, []string{`a\ b`}},
		{"", nil},
		{"   ", nil},
	}
	for _, test := range tests {
		got := Split([]byte(test.in))
		if !equalStrSlices(toStrings(got), test.want) {
			t.Errorf("Split(%q) = %q, want %q", test.in, toStrings(got), test.want)
		}
	}
}

func toStrings(bs [][]byte) []string {
	if bs == nil {
		return nil
	}
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = string(b)
	}
	return out
}

func equalStrSlices(a, b []string) bool {
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

func newEnv(t *testing.T) (*atom.Table, *environ.Environ) {
	t.Helper()
	tbl := atom.NewTable()
	return tbl, environ.New(tbl, environ.Linux)
}

func TestCanonicalizeVariableExpansion(t *testing.T) {
	tbl, env := newEnv(t)
	env.SetString("X", "hello")

	raw := Split([]byte("$X"))[0]
	got := Canonicalize(tbl, env, raw)
	if got.String() != "hello" {
		t.Errorf("Canonicalize($X) = %q, want %q", got.String(), "hello")
	}
}

func TestCanonicalizeSingleQuoteSuppressesExpansion(t *testing.T) {
	tbl, env := newEnv(t)
	env.SetString("X", "hello")

	raw := Split([]byte(`'$X'`))[0]
	got := Canonicalize(tbl, env, raw)
	if got.String() != "$X" {
		t.Errorf("Canonicalize('$X') = %q, want %q", got.String(), "$X")
	}
}

func TestCanonicalizeBackslashDollarIsLiteralInDoubleQuotes(t *testing.T) {
	tbl, env := newEnv(t)
	env.SetString("X", "hello")

	raw := Split([]byte(`"\$X"`))[0]
	got := Canonicalize(tbl, env, raw)
	if got.String() != "$X" {
		t.Errorf(`Canonicalize("\$X") = %q, want %q`, got.String(), "$X")
	}
}

func TestCanonicalizeDoubleQuoteStillExpands(t *testing.T) {
	tbl, env := newEnv(t)
	env.SetString("X", "hello")

	raw := Split([]byte(`"$X"`))[0]
	got := Canonicalize(tbl, env, raw)
	if got.String() != "hello" {
		t.Errorf(`Canonicalize("$X") = %q, want %q`, got.String(), "hello")
	}
}

func TestCanonicalizeUnsetVariableExpandsEmpty(t *testing.T) {
	tbl, env := newEnv(t)

	raw := Split([]byte("$NOPE"))[0]
	got := Canonicalize(tbl, env, raw)
	if got.String() != "" {
		t.Errorf("Canonicalize($NOPE) = %q, want empty", got.String())
	}
}

func TestCanonicalizeTilde(t *testing.T) {
	tbl, env := newEnv(t)
	env.SetString("HOME", "/home/drsh")

	raw := Split([]byte("~/foo"))[0]
	got := Canonicalize(tbl, env, raw)
	if got.String() != "/home/drsh/foo" {
		t.Errorf("Canonicalize(~/foo) = %q, want %q", got.String(), "/home/drsh/foo")
	}

	raw = Split([]byte("a~b"))[0]
	got = Canonicalize(tbl, env, raw)
	if got.String() != "a~b" {
		t.Errorf("Canonicalize(a~b) = %q, want %q (non-leading ~ unexpanded)", got.String(), "a~b")
	}
}

func TestGlobberNonPosixPassesThrough(t *testing.T) {
	got := Globber(environ.Windows, "*.txt")
	if len(got) != 1 || got[0] != "*.txt" {
		t.Errorf("Globber(Windows) = %v, want literal pass-through", got)
	}
}

func TestGlobberNoMetaPassesThrough(t *testing.T) {
	got := Globber(environ.Linux, "plainfile")
	if len(got) != 1 || got[0] != "plainfile" {
		t.Errorf("Globber(no meta) = %v, want literal pass-through", got)
	}
}

func TestGlobberNoMatchFallsBackToLiteral(t *testing.T) {
	got := Globber(environ.Linux, "/no/such/dir/*.nonexistent")
	if len(got) != 1 || got[0] != "/no/such/dir/*.nonexistent" {
		t.Errorf("Globber(no match) = %v, want literal fallback", got)
	}
}
