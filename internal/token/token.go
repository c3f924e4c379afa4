// Package token implements the word splitter, variable/tilde
// canonicalizer, and POSIX glob expansion that turn an accepted line
// into an argv of interned atoms.
package token

import (
	"path/filepath"

	"github.com/dr-shell/drsh/internal/atom"
	"github.com/dr-shell/drsh/internal/buffer"
	"github.com/dr-shell/drsh/internal/environ"
)

// Split splits line into raw token spans on unquoted, unescaped
// whitespace (NUL, space, CR, TAB, LF, FF), honoring single and double
// quotes and backslash escapes. The returned slices still contain
// their quote characters and escaping backslashes verbatim; Canonicalize
// decodes them.
func Split(line []byte) [][]byte {
	var tokens [][]byte
	var cur []byte
	started := false
	var quote byte

	flush := func() {
		if started {
			tokens = append(tokens, cur)
			cur = nil
			started = false
		}
	}

	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case quote == 0 && c == '\\' && i+1 < len(line):
			cur = append(cur, c, line[i+1])
			started = true
			i += 2
		case quote != 0 && c == '\\' && i+1 < len(line) && line[i+1] == quote:
			cur = append(cur, c, line[i+1])
			started = true
			i += 2
		case quote == 0 && (c == '\'' || c == '"'):
			quote = c
			cur = append(cur, c)
			started = true
			i++
		case quote != 0 && c == quote:
			quote = 0
			cur = append(cur, c)
			i++
		case quote == 0 && isSpace(c):
			flush()
			i++
		default:
			cur = append(cur, c)
			started = true
			i++
		}
	}
	flush()
	return tokens
}

func isSpace(c byte) bool {
	switch c {
	case 0x00, ' ', '\r', '\t', '\n', '\x0C':
		return true
	}
	return false
}

// Canonicalize decodes one raw token (as returned by Split) and
// expands a leading ~ and $NAME references, honoring the same
// quote/backslash rules Split used to find the token's boundary. The
// result is interned and returned as an atom.
func Canonicalize(tbl *atom.Table, env *environ.Environ, raw []byte) *atom.Atom {
	out := buffer.New(len(raw))

	i := 0
	if len(raw) > 0 && raw[0] == '~' {
		if len(raw) == 1 || isSeparator(raw[1], env.Flavor()) {
			if home := env.Home(); home != nil {
				out.Append(home.Bytes...)
			}
			i = 1
		}
	}

	var quote byte
	for i < len(raw) {
		c := raw[i]

		// "\$" is always literal, independent of quoting (spec §4.8).
		if c == '\\' && i+1 < len(raw) && raw[i+1] == '$' {
			out.Append('$')
			i += 2
			continue
		}

		if quote == 0 && c == '\\' {
			if i+1 < len(raw) {
				out.Append(raw[i+1])
				i += 2
			} else {
				i++
			}
			continue
		}

		if quote == 0 && (c == '\'' || c == '"') {
			quote = c
			i++
			continue
		}

		if quote != 0 && c == '\\' && i+1 < len(raw) && raw[i+1] == quote {
			out.Append(quote)
			i += 2
			continue
		}

		if quote != 0 && c == quote {
			quote = 0
			i++
			continue
		}

		if c == '$' && quote != '\'' {
			name, n := scanVarName(raw[i+1:])
			if n == 0 {
				out.Append(c)
				i++
				continue
			}
			if v, ok := env.GetString(string(name)); ok {
				out.Append([]byte(v)...)
			}
			i += 1 + n
			continue
		}

		out.Append(c)
		i++
	}

	return tbl.Atomize(out.Bytes())
}

func scanVarName(b []byte) (name []byte, n int) {
	for n < len(b) && isNameByte(b[n]) {
		n++
	}
	return b[:n], n
}

func isNameByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func isSeparator(c byte, flavor environ.Flavor) bool {
	return c == '/' || c == flavor.PathSeparator()
}

// Globber performs the POSIX-only glob expansion step (spec §4.8): a
// canonicalized token is expanded to every matching path, each becoming
// its own argv entry. Matching is whatever path/filepath.Glob
// implements, so there is no brace expansion. A token without glob
// metacharacters, a malformed pattern, or a pattern with no matches is
// passed through as the literal token ("no-check").
func Globber(flavor environ.Flavor, pattern string) []string {
	if flavor == environ.Windows {
		return []string{pattern}
	}
	if !hasMeta(pattern) {
		return []string{pattern}
	}
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return []string{pattern}
	}
	return matches
}

func hasMeta(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[':
			return true
		}
	}
	return false
}
