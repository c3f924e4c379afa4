// Package shell ties the atom table, environment, tokenizer, resolver,
// and terminal-state machine together into the dispatch loop: parse a
// line, run a built-in or resolve-and-spawn a program (spec §4.10).
package shell

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/dr-shell/drsh/internal/atom"
	"github.com/dr-shell/drsh/internal/environ"
	"github.com/dr-shell/drsh/internal/resolve"
	"github.com/dr-shell/drsh/internal/term"
	"github.com/dr-shell/drsh/internal/token"
	"github.com/golang/glog"
)

// Shell is the dispatch core: everything needed to turn an accepted
// line into either a built-in's effect or a resolved, spawned process.
type Shell struct {
	table *atom.Table
	env   *environ.Environ
	state *term.State
	out   io.Writer
}

// New creates a Shell. out receives built-in output (pwd, echo, set,
// debug); it is written with CRLF line endings to match the terminal
// contract in spec §6.
func New(table *atom.Table, env *environ.Environ, state *term.State, out io.Writer) *Shell {
	return &Shell{table: table, env: env, state: state, out: out}
}

// RunLine tokenizes, canonicalizes, globs, and dispatches one line,
// per the per-line data flow in spec §2.
func (s *Shell) RunLine(line string) Code {
	raws := token.Split([]byte(line))
	if len(raws) == 0 {
		return OK
	}

	var argv []string
	var atoms []*atom.Atom
	for _, raw := range raws {
		a := token.Canonicalize(s.table, s.env, raw)
		atoms = append(atoms, a)
		for _, expanded := range token.Globber(s.env.Flavor(), a.String()) {
			argv = append(argv, expanded)
		}
	}
	if len(argv) == 0 {
		return OK
	}

	if s.env.Debug() {
		glog.V(1).Infof("shell: dispatch %q", argv)
	}

	if code, ok := s.runBuiltin(atoms[0], argv); ok {
		return code
	}

	if err := s.spawn(argv[0], argv, false); err != nil {
		return s.reportAndClassify(err)
	}
	return OK
}

// spawn resolves program to a path, transitions the terminal to ORIG,
// runs it to completion in the foreground, and transitions back to
// UNKNOWN (spec §4.3, §4.10). When reportTime is set (the `time`
// built-in), user/system CPU time is reported after the child exits.
// It returns a *shell.Error classified per the §7 policy table, or nil
// on success.
func (s *Shell) spawn(program string, argv []string, reportTime bool) error {
	path, err := resolve.Resolve(s.env, program, exists)
	if err != nil {
		return Wrapf(NotFound, err, "resolve %q", program)
	}

	if err := s.state.Orig(); err != nil {
		glog.Warningf("shell: terminal to ORIG before spawn: %v", err)
	}

	cmd := exec.Command(path, argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = s.env.Envp()

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	s.state.Unknown()

	if reportTime {
		reportElapsed(s.out, elapsed, cmd)
	}

	if runErr != nil {
		if _, ok := runErr.(*exec.ExitError); !ok {
			return Wrapf(IOError, runErr, "spawn %q", path)
		}
	}
	return nil
}

// reportAndClassify prints the short diagnostic the §7 policy table
// calls for and returns the Code the caller should propagate.
func (s *Shell) reportAndClassify(err error) Code {
	code := CodeOf(err)
	glog.Warningf("shell: %v", err)
	io.WriteString(s.out, "error\r\n")
	return code
}

// reportElapsed prints wall/user/system time for the `time` built-in.
// User and system CPU time come straight off os.ProcessState, which
// already does the platform-specific rusage accounting.
func reportElapsed(out io.Writer, wall time.Duration, cmd *exec.Cmd) {
	var user, sys time.Duration
	if cmd.ProcessState != nil {
		user = cmd.ProcessState.UserTime()
		sys = cmd.ProcessState.SystemTime()
	}
	fmt.Fprintf(out, "real %s\r\nuser %s\r\nsys %s\r\n", wall, user, sys)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Env returns the underlying environment, for callers (cmd/drsh) that
// need to seed SHELL/SHLVL/PWD before the first prompt.
func (s *Shell) Env() *environ.Environ { return s.env }

// Table returns the underlying atom table.
func (s *Shell) Table() *atom.Table { return s.table }
