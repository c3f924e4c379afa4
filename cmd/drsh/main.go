// Command drsh is an interactive POSIX/DOS command-line shell with
// line-editing and tab-completion.
//
// Usage:
//
//	drsh [-q] [PATH...]
//	drsh -c CMD...
//
// With one or more PATH arguments, each is sourced in sequence and drsh
// exits; with none, drsh enters the interactive read-eval loop. -c runs
// the remaining arguments, joined by spaces, as one command line and
// exits. -q (or -quiet) suppresses the startup log message.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/dr-shell/drsh/internal/atom"
	"github.com/dr-shell/drsh/internal/complete"
	"github.com/dr-shell/drsh/internal/editor"
	"github.com/dr-shell/drsh/internal/environ"
	"github.com/dr-shell/drsh/internal/shell"
	"github.com/dr-shell/drsh/internal/term"
	"github.com/golang/glog"
)

var (
	commandFlag bool
	quietFlag   bool
)

func parseFlags() []string {
	flag.BoolVar(&commandFlag, "c", false, "read the remaining argument as a single command and run it")
	flag.BoolVar(&quietFlag, "q", false, "suppress the startup banner")
	flag.BoolVar(&quietFlag, "quiet", false, "suppress the startup banner")
	flag.Parse()
	return flag.Args()
}

func hostFlavor() environ.Flavor {
	switch runtime.GOOS {
	case "darwin":
		return environ.Apple
	case "windows":
		return environ.Windows
	case "linux":
		return environ.Linux
	default:
		return environ.Other
	}
}

func main() {
	args := parseFlags()

	table := atom.NewTable()
	env := environ.New(table, hostFlavor())

	if err := initEnv(env); err != nil {
		fmt.Fprintf(os.Stderr, "drsh: %v\n", err)
		os.Exit(1)
	}

	state, err := term.NewState(os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "drsh: %v\n", err)
		os.Exit(1)
	}
	defer state.Orig()

	sh := shell.New(table, env, state, os.Stdout)

	if commandFlag {
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "drsh: -c requires a command argument")
			os.Exit(1)
		}
		code := sh.RunLine(strings.Join(args, " "))
		os.Exit(exitStatus(code))
	}

	if len(args) > 0 {
		for _, path := range args {
			code := sh.RunLine("source " + path)
			if code == shell.Exit {
				break
			}
		}
		os.Exit(0)
	}

	runInteractive(sh, env, state)
}

func exitStatus(code shell.Code) int {
	switch code {
	case shell.OK, shell.Exit:
		return 0
	default:
		return 1
	}
}

// initEnv seeds the derived environment state every run needs before
// the first prompt: cwd, SHELL, and SHLVL (spec §4.2, §6). Terminal
// size is refreshed later, in runInteractive.
func initEnv(env *environ.Environ) error {
	if err := env.RefreshCwd(); err != nil {
		return err
	}
	if shellPath, err := env.ResolveShellPath(); err == nil {
		env.SetString("SHELL", shellPath)
	}
	env.IncrementSHLVL()
	return nil
}

func runInteractive(sh *shell.Shell, env *environ.Environ, state *term.State) {
	if !quietFlag {
		glog.V(1).Info("drsh: starting interactive session")
	}

	loadConfig(sh, env)

	histPath, histErr := env.HistoryPath()
	var loaded []string
	if histErr == nil {
		loaded = loadHistory(histPath)
	}

	if err := state.Raw(); err != nil {
		glog.Warningf("drsh: enter raw mode: %v", err)
	}
	if err := env.RefreshSize(state.Size); err != nil {
		glog.Warningf("drsh: refresh size: %v", err)
	}
	if err := term.EnableVTProcessing(os.Stdin, os.Stdout); err != nil {
		glog.Warningf("drsh: enable VT processing: %v", err)
	}

	stop := state.WatchResize(func() {
		if err := env.RefreshSize(state.Size); err != nil {
			glog.Warningf("drsh: refresh size on resize: %v", err)
		}
	})
	defer stop()

	out := term.NewWriter(state.Writer())
	decoder := term.NewDecoder(state.Reader())
	line := editor.New(loaded)
	redisplay := &editor.Redisplayer{}

	defer func() {
		if histErr == nil {
			appendHistory(histPath, line.SessionHistory())
		}
	}()

	for {
		promptText, promptVisualLen := sh.Prompt(time.Now())
		line.NeedsRedisplay = true

		eof, exit := runOneLine(sh, state, decoder, line, redisplay, out, promptText, promptVisualLen, env)
		if eof || exit {
			break
		}

		if err := state.Raw(); err != nil {
			glog.Warningf("drsh: return to raw mode: %v", err)
		}
	}
}

// runOneLine runs a single decode/edit/redisplay/dispatch cycle,
// recovering from an allocation-failure panic the way spec §7's OOM
// policy describes: report it and let the main loop keep running
// rather than crash the whole session.
func runOneLine(sh *shell.Shell, state *term.State, decoder *term.Decoder, line *editor.Line, redisplay *editor.Redisplayer, out *term.Writer, prompt string, promptVisualLen int, env *environ.Environ) (eof, exit bool) {
	defer func() {
		if r := recover(); r != nil {
			glog.Warningf("drsh: %v", shell.Newf(shell.OOM, "recovered panic: %v", r))
		}
	}()

	accepted, lineEOF := readLine(decoder, line, redisplay, out, prompt, promptVisualLen, env)
	if lineEOF {
		return true, false
	}

	if state.IsTerminal() && state.IsOutputTerminal() {
		out.WriteString("\r\n")
		out.Flush()
	}

	code := sh.RunLine(accepted)
	return false, code == shell.Exit
}

// readLine runs the decode -> edit -> redisplay loop until a line is
// accepted or EOF is reached (Ctrl-D on an empty buffer).
func readLine(decoder *term.Decoder, line *editor.Line, redisplay *editor.Redisplayer, out *term.Writer, prompt string, promptVisualLen int, env *environ.Environ) (accepted string, eof bool) {
	for {
		if line.NeedsRedisplay {
			cols, _ := env.Size()
			frame := redisplay.Render(line.NeedsClearScreen, prompt, promptVisualLen, line.Text(), line.Cursor(), cols)
			out.WriteString(frame)
			out.Flush()
			line.NeedsRedisplay = false
			line.NeedsClearScreen = false
		}

		cmd, err := decoder.Next()
		if err != nil {
			// Classify per the §7 policy: a clean EOF (Ctrl-D/closed
			// stdin) ends the loop quietly, while any other read
			// failure is an IOError worth a diagnostic on the way out.
			if !errors.Is(err, io.EOF) {
				glog.Warningf("drsh: %v", shell.Wrapf(shell.IOError, err, "read stdin"))
			}
			return "", true
		}

		switch cmd.Kind {
		case term.Literal:
			line.Insert(cmd.Byte)
		case term.Ctrl:
			if handleCtrl(cmd.Byte, line) {
				return "", true
			}
		case term.DeleteBack:
			line.DeleteBack()
		case term.DeleteForward:
			line.DeleteForward()
		case term.Up:
			line.HistoryUp()
		case term.Down:
			line.HistoryDown()
		case term.Left:
			line.Left()
		case term.Right:
			line.Right()
		case term.Home:
			line.Home()
		case term.End:
			line.End()
		case term.Tab:
			line.Tab(complete.ListDir, pwdOrDot(env), env.Flavor(), true)
		case term.ShiftTab:
			line.Tab(complete.ListDir, pwdOrDot(env), env.Flavor(), false)
		case term.Esc:
			line.TabEscape()
		case term.Enter:
			return line.Accept(), false
		}
	}
}

func pwdOrDot(env *environ.Environ) string {
	if pwd, ok := env.GetString("PWD"); ok && pwd != "" {
		return pwd
	}
	return "."
}

// handleCtrl maps a CTRL_A..CTRL_Z command to its editing action, per
// the bindings implied by spec §4.5. It returns true when the caller
// should treat this as EOF.
func handleCtrl(letter byte, line *editor.Line) bool {
	switch letter {
	case 'A':
		line.Home()
	case 'E':
		line.End()
	case 'B':
		line.Left()
	case 'F':
		line.Right()
	case 'D':
		return line.DeleteForwardOrEOF()
	case 'K':
		line.KillEndOfLine()
	case 'C':
		line.Interrupt()
	case 'L':
		line.ClearScreen()
	case 'P':
		line.HistoryUp()
	case 'N':
		line.HistoryDown()
	}
	return false
}

// loadConfig reads the config file (spec §6: "one command per line; CR/LF
// line endings accepted") and runs each line, mirroring `source` at
// startup. A missing config file is not an error.
func loadConfig(sh *shell.Shell, env *environ.Environ) {
	path, err := env.ConfigPath()
	if err != nil {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	env.SetString("DRSH_CONFIG", path)

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if code := sh.RunLine(line); code == shell.Exit {
			return
		}
	}
}

func loadHistory(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, strings.TrimRight(sc.Text(), "\r"))
	}
	return out
}

func appendHistory(path string, entries []string) {
	if len(entries) == 0 {
		return
	}
	if dir := dirOf(path); dir != "" {
		os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		glog.Warningf("drsh: append history: %v", err)
		return
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range entries {
		fmt.Fprintf(w, "%s\n", e)
	}
	w.Flush()
}

func dirOf(path string) string {
	i := strings.LastIndexAny(path, `/\`)
	if i < 0 {
		return ""
	}
	return path[:i]
}
