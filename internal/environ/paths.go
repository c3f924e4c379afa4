package environ

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dr-shell/drsh/internal/atom"
	"github.com/pkg/errors"
)

// RefreshCwd reads the OS working directory, stores it as PWD, and
// recomputes the displayed form: a leading HOME match replaced with
// "~", separators normalized to "/" on the DOS family, and each
// interior path component (strictly between the first and last)
// condensed to its first character (spec §4.2).
func (e *Environ) RefreshCwd() error {
	cwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "environ: refresh cwd")
	}
	e.SetAtom(e.table.WellKnown(atom.PWDVar), e.table.Atomize([]byte(cwd)))
	e.displayCwd = e.displayForm(cwd)
	return nil
}

// DisplayCwd returns the last value RefreshCwd computed.
func (e *Environ) DisplayCwd() string { return e.displayCwd }

// displayForm implements the substitution described in spec §4.2.
func (e *Environ) displayForm(cwd string) string {
	norm := cwd
	if e.flavor.PathSeparator() == '\\' {
		norm = strings.ReplaceAll(norm, "\\", "/")
	}

	if home := e.Home(); home != nil {
		h := home.String()
		if e.flavor.PathSeparator() == '\\' {
			h = strings.ReplaceAll(h, "\\", "/")
		}
		if h != "" {
			if norm == h {
				norm = "~"
			} else if strings.HasPrefix(norm, h+"/") {
				norm = "~" + norm[len(h):]
			}
		}
	}

	return condenseInterior(norm)
}

// condenseInterior collapses every path component strictly between the
// first and last to its first character, leaving the leading and final
// components intact. "~/a/bbbb/cccc/dddd" -> "~/a/b/c/dddd".
func condenseInterior(p string) string {
	parts := strings.Split(p, "/")
	if len(parts) <= 2 {
		return p
	}
	for i := 1; i < len(parts)-1; i++ {
		if parts[i] == "" {
			continue // a doubled "/" yields an empty interior part; keep it empty
		}
		r := []rune(parts[i])
		parts[i] = string(r[:1])
	}
	return strings.Join(parts, "/")
}

// RefreshSize queries the window size and updates LINES and COLUMNS.
// The caller supplies the query function (normally (*term.State).Size) so this
// package stays independent of the terminal-I/O layer (spec's
// out-of-scope boundary, §1).
func (e *Environ) RefreshSize(query func() (cols, rows int, err error)) error {
	cols, rows, err := query()
	if err != nil {
		return errors.Wrap(err, "environ: refresh size")
	}
	e.cols, e.rows = cols, rows
	e.SetString("COLUMNS", strconv.Itoa(cols))
	e.SetString("LINES", strconv.Itoa(rows))
	return nil
}

// xdgOrDefault returns the value of envVar if set and non-empty,
// otherwise home joined with fallback.
func xdgOrDefault(env func(string) (string, bool), envVar, home, fallback string) string {
	if v, ok := env(envVar); ok && v != "" {
		return v
	}
	return filepath.Join(home, fallback)
}

// ConfigPath computes the config-file path for this flavor (spec
// §4.2): `$HOME/Library/Application Support/drsh/drsh_config.drsh` on
// APPLE, `%LOCALAPPDATA%\drsh\drsh_config.drsh` on WINDOWS, and
// `${XDG_CONFIG_HOME:-$HOME/.config}/drsh/drsh_config.drsh` elsewhere.
// DRSH_CONFIG overrides when already set.
func (e *Environ) ConfigPath() (string, error) {
	if v, ok := e.GetString("DRSH_CONFIG"); ok && v != "" {
		return v, nil
	}
	return e.platformPath(func(home string) (string, error) {
		switch e.flavor {
		case Apple:
			return filepath.Join(home, "Library", "Application Support", "drsh", "drsh_config.drsh"), nil
		case Windows:
			lad, ok := e.GetString("LOCALAPPDATA")
			if !ok || lad == "" {
				return "", errors.New("environ: LOCALAPPDATA unset")
			}
			return filepath.Join(lad, "drsh", "drsh_config.drsh"), nil
		default:
			base := xdgOrDefault(e.GetString, "XDG_CONFIG_HOME", home, ".config")
			return filepath.Join(base, "drsh", "drsh_config.drsh"), nil
		}
	})
}

// HistoryPath computes the history-file path: the same structure as
// ConfigPath but "drsh_history.txt" under Application Support /
// %LOCALAPPDATA% / ${XDG_STATE_HOME:-XDG_DATA_HOME:-$HOME/.local/state}.
// DRSH_HISTORY overrides when already set.
func (e *Environ) HistoryPath() (string, error) {
	if v, ok := e.GetString("DRSH_HISTORY"); ok && v != "" {
		return v, nil
	}
	return e.platformPath(func(home string) (string, error) {
		switch e.flavor {
		case Apple:
			return filepath.Join(home, "Library", "Application Support", "drsh", "drsh_history.txt"), nil
		case Windows:
			lad, ok := e.GetString("LOCALAPPDATA")
			if !ok || lad == "" {
				return "", errors.New("environ: LOCALAPPDATA unset")
			}
			return filepath.Join(lad, "drsh", "drsh_history.txt"), nil
		default:
			base := home + "/.local/state"
			if v, ok := e.GetString("XDG_STATE_HOME"); ok && v != "" {
				base = v
			} else if v, ok := e.GetString("XDG_DATA_HOME"); ok && v != "" {
				base = v
			}
			return filepath.Join(base, "drsh", "drsh_history.txt"), nil
		}
	})
}

// platformPath is the shared "need HOME, then branch on flavor" shape
// both ConfigPath and HistoryPath follow.
func (e *Environ) platformPath(build func(home string) (string, error)) (string, error) {
	home := e.Home()
	if home == nil {
		return "", errors.New("environ: HOME unset")
	}
	return build(home.String())
}

// ResolveShellPath returns the absolute path to the running drsh
// binary, used to populate SHELL on startup.
func (e *Environ) ResolveShellPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, "environ: resolve shell path")
	}
	abs, err := filepath.Abs(exe)
	if err != nil {
		return "", errors.Wrap(err, "environ: resolve shell path")
	}
	return abs, nil
}
