// Package resolve implements the program resolver: turning a command
// atom into an executable path by walking PATH (and, on the DOS
// family, probing PATHEXT), per spec §4.9.
package resolve

import (
	"strings"

	"github.com/dr-shell/drsh/internal/atom"
	"github.com/dr-shell/drsh/internal/environ"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when no candidate path exists anywhere along
// the search.
var ErrNotFound = errors.New("resolve: not found")

// defaultPathext is used when PATHEXT is unset on the DOS family.
const defaultPathext = ".exe"

// Exister abstracts the file-existence probe (stat) the resolver needs.
// The real implementation is the trivial os.Stat-based primitive;
// spec §1 treats it as an external collaborator, so tests supply a
// fake to drive the search order deterministically.
type Exister func(path string) bool

// Resolve finds an executable path for program p given env, using
// exists to probe candidate paths. On POSIX, p is used directly if it
// contains a path separator or is absolute; otherwise each PATH entry
// is tried in order. On the DOS family, each candidate is additionally
// probed with every PATHEXT suffix (or the suffix p already carries, if
// it is a recognized one).
func Resolve(env *environ.Environ, p string, exists Exister) (string, error) {
	flavor := env.Flavor()

	if containsSeparator(p, flavor) || isAbsolute(p, flavor) {
		return probeWithExt(flavor, env, p, exists)
	}

	if path, ok := env.GetString("PATH"); ok {
		for _, dir := range splitList(path, flavor) {
			if dir == "" {
				continue
			}
			candidate := dir + string(flavor.PathSeparator()) + p
			if resolved, err := probeWithExt(flavor, env, candidate, exists); err == nil {
				return resolved, nil
			}
		}
	}

	if flavor == environ.Windows {
		if resolved, err := probeWithExt(flavor, env, "."+string(flavor.PathSeparator())+p, exists); err == nil {
			return resolved, nil
		}
	}

	return "", ErrNotFound
}

// probeWithExt probes path as-is on POSIX. On the DOS family, if path
// already ends in a recognized PATHEXT extension, only that exact path
// is probed; otherwise every PATHEXT suffix is tried in order.
func probeWithExt(flavor environ.Flavor, env *environ.Environ, path string, exists Exister) (string, error) {
	if flavor != environ.Windows {
		if exists(path) {
			return path, nil
		}
		return "", ErrNotFound
	}

	exts := pathext(env)
	if ext := matchingExt(path, exts); ext != "" {
		if exists(path) {
			return path, nil
		}
		return "", ErrNotFound
	}

	for _, ext := range exts {
		candidate := path + ext
		if exists(candidate) {
			return candidate, nil
		}
	}
	return "", ErrNotFound
}

func pathext(env *environ.Environ) []string {
	raw, ok := env.GetString("PATHEXT")
	if !ok || raw == "" {
		return []string{defaultPathext}
	}
	var exts []string
	for _, e := range strings.Split(raw, ";") {
		if e != "" {
			exts = append(exts, e)
		}
	}
	if len(exts) == 0 {
		return []string{defaultPathext}
	}
	return exts
}

func matchingExt(path string, exts []string) string {
	lower := strings.ToLower(path)
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return ext
		}
	}
	return ""
}

func splitList(path string, flavor environ.Flavor) []string {
	return strings.Split(path, string(flavor.ListSeparator()))
}

func containsSeparator(p string, flavor environ.Flavor) bool {
	for i := 0; i < len(p); i++ {
		if p[i] == '/' || p[i] == flavor.PathSeparator() {
			return true
		}
	}
	return false
}

func isAbsolute(p string, flavor environ.Flavor) bool {
	if len(p) == 0 {
		return false
	}
	if p[0] == '/' {
		return true
	}
	if flavor == environ.Windows && len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/') {
		return true
	}
	return false
}

// ResolveAtom is Resolve for callers that hold an interned program atom.
func ResolveAtom(env *environ.Environ, p *atom.Atom, exists Exister) (string, error) {
	return Resolve(env, p.String(), exists)
}
