package shell

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/dr-shell/drsh/internal/atom"
	"github.com/golang/glog"
)

// runBuiltin dispatches one of the well-known first words (spec
// §4.10). ok reports whether first was in fact a built-in; when ok is
// false the caller falls through to program resolution.
func (s *Shell) runBuiltin(first *atom.Atom, argv []string) (code Code, ok bool) {
	w := s.table
	switch first {
	case w.WellKnown(atom.CD):
		return s.builtinCd(argv), true
	case w.WellKnown(atom.PWD):
		return s.builtinPwd(), true
	case w.WellKnown(atom.ECHO):
		return s.builtinEcho(argv), true
	case w.WellKnown(atom.SET):
		return s.builtinSet(argv), true
	case w.WellKnown(atom.EXIT):
		return Exit, true
	case w.WellKnown(atom.SOURCE), w.WellKnown(atom.DOT):
		return s.builtinSource(argv), true
	case w.WellKnown(atom.TIME):
		return s.builtinTime(argv), true
	case w.WellKnown(atom.DEBUG):
		return s.builtinDebug(argv), true
	default:
		return OK, false
	}
}

func (s *Shell) builtinCd(argv []string) Code {
	if len(argv) != 2 {
		fmt.Fprintf(s.out, "cd: expected exactly one argument\r\n")
		return ValueError
	}
	dir := argv[1]
	if err := os.Chdir(dir); err != nil {
		err = Wrapf(ValueError, err, "cd %q", dir)
		fmt.Fprintf(s.out, "cd: %v\r\n", err)
		return CodeOf(err)
	}
	if err := s.env.RefreshCwd(); err != nil {
		err = Wrapf(ValueError, err, "refresh cwd after cd")
		glog.Warningf("shell: %v", err)
		return CodeOf(err)
	}
	return OK
}

func (s *Shell) builtinPwd() Code {
	// pwd prints the canonicalized PWD env var, not the tilde/condensed
	// form the prompt uses (spec §4.10 vs §4.2's displayed cwd).
	pwd, _ := s.env.GetString("PWD")
	fmt.Fprintf(s.out, "%s\r\n", pwd)
	return OK
}

func (s *Shell) builtinEcho(argv []string) Code {
	fmt.Fprintf(s.out, "%s \r\n", strings.Join(argv[1:], " "))
	return OK
}

func (s *Shell) builtinSet(argv []string) Code {
	switch len(argv) {
	case 1:
		s.env.Each(func(key, value *atom.Atom) {
			fmt.Fprintf(s.out, "%s=%s\r\n", key.String(), value.String())
		})
		return OK
	case 3:
		s.env.Set([]byte(argv[1]), []byte(argv[2]))
		return OK
	default:
		fmt.Fprintf(s.out, "set: expected 0 or 2 arguments\r\n")
		return ValueError
	}
}

func (s *Shell) builtinSource(argv []string) Code {
	if len(argv) != 2 {
		fmt.Fprintf(s.out, "source: expected exactly one argument\r\n")
		return ValueError
	}
	f, err := os.Open(argv[1])
	if err != nil {
		err = Wrapf(ValueError, err, "source %q", argv[1])
		fmt.Fprintf(s.out, "source: %v\r\n", err)
		return CodeOf(err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		code := s.RunLine(sc.Text())
		if code == Exit {
			return Exit
		}
	}
	return OK
}

func (s *Shell) builtinTime(argv []string) Code {
	if len(argv) < 2 {
		fmt.Fprintf(s.out, "time: expected a command\r\n")
		return ValueError
	}
	if err := s.spawn(argv[1], argv[1:], true); err != nil {
		return s.reportAndClassify(err)
	}
	return OK
}

func (s *Shell) builtinDebug(argv []string) Code {
	if len(argv) == 1 {
		fmt.Fprintf(s.out, "%v\r\n", s.env.Debug())
		return OK
	}
	if len(argv) != 2 {
		fmt.Fprintf(s.out, "debug: expected 0 or 1 arguments\r\n")
		return ValueError
	}
	switch argv[1] {
	case "on", "true", "1":
		s.env.SetDebug(true)
	case "off", "false", "0":
		s.env.SetDebug(false)
	default:
		fmt.Fprintf(s.out, "debug: unrecognized value %q\r\n", argv[1])
		return ValueError
	}
	return OK
}
