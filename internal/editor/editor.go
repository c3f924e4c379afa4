// Package editor implements the line editor: a write buffer and
// cursor driven by decoded editing commands, with history navigation
// and tab-completion state (spec §4.5).
package editor

import (
	"github.com/dr-shell/drsh/internal/buffer"
	"github.com/dr-shell/drsh/internal/complete"
	"github.com/dr-shell/drsh/internal/environ"
)

// Line is one in-progress edited line: the write buffer and cursor,
// history, and tab-completion state (spec §3: "input state").
type Line struct {
	write  buffer.Buffer
	cursor int

	history      []string
	historyStart int // entries before this index were loaded from disk
	historyPos   int // len(history) means "not navigating"

	completion *complete.Session
	tabActive  bool

	NeedsRedisplay   bool
	NeedsClearScreen bool
}

// New creates an empty Line, seeded with any history loaded from disk.
func New(loadedHistory []string) *Line {
	l := &Line{history: append([]string(nil), loadedHistory...)}
	l.historyStart = len(l.history)
	l.historyPos = len(l.history)
	return l
}

// Text returns the write buffer's current contents.
func (l *Line) Text() string { return l.write.String() }

// Cursor returns the current cursor offset into the write buffer.
func (l *Line) Cursor() int { return l.cursor }

// Bytes returns the write buffer's raw bytes (aliases internal
// storage; valid only until the next mutation).
func (l *Line) Bytes() []byte { return l.write.Bytes() }

func (l *Line) endTabCompletion() {
	l.tabActive = false
	l.completion = nil
}

// Insert inserts a single literal byte at the cursor and advances it.
func (l *Line) Insert(b byte) {
	l.write.Insert(l.cursor, []byte{b})
	l.cursor++
	l.endTabCompletion()
	l.NeedsRedisplay = true
}

// Home snaps the cursor to the start of the line.
func (l *Line) Home() {
	l.cursor = 0
	l.endTabCompletion()
	l.NeedsRedisplay = true
}

// End snaps the cursor to the end of the line.
func (l *Line) End() {
	l.cursor = l.write.Len()
	l.endTabCompletion()
	l.NeedsRedisplay = true
}

// Left moves the cursor one byte left, clamped at 0.
func (l *Line) Left() {
	if l.cursor > 0 {
		l.cursor--
	}
	l.endTabCompletion()
	l.NeedsRedisplay = true
}

// Right moves the cursor one byte right, clamped at the buffer length.
func (l *Line) Right() {
	if l.cursor < l.write.Len() {
		l.cursor++
	}
	l.endTabCompletion()
	l.NeedsRedisplay = true
}

// DeleteBack removes the byte at cursor-1, if any.
func (l *Line) DeleteBack() {
	if l.cursor > 0 {
		l.write.Remove(l.cursor-1, l.cursor)
		l.cursor--
	}
	l.endTabCompletion()
	l.NeedsRedisplay = true
}

// DeleteForward removes the byte at cursor, if any.
func (l *Line) DeleteForward() {
	if l.cursor < l.write.Len() {
		l.write.Remove(l.cursor, l.cursor+1)
	}
	l.endTabCompletion()
	l.NeedsRedisplay = true
}

// DeleteForwardOrEOF behaves as DeleteForward, but reports EOF when the
// buffer is empty (spec §4.5: DELETE_FORWARD_OR_EOF, typically bound to
// Ctrl-D).
func (l *Line) DeleteForwardOrEOF() (eof bool) {
	if l.write.Len() == 0 {
		return true
	}
	l.DeleteForward()
	return false
}

// KillEndOfLine truncates the buffer at the cursor.
func (l *Line) KillEndOfLine() {
	l.write.Truncate(l.cursor)
	l.endTabCompletion()
	l.NeedsRedisplay = true
}

// Interrupt clears the buffer and cursor (Ctrl-C while editing).
func (l *Line) Interrupt() {
	l.write.Reset()
	l.cursor = 0
	l.endTabCompletion()
	l.NeedsRedisplay = true
}

// ClearScreen requests a full-screen clear on the next redisplay.
func (l *Line) ClearScreen() {
	l.NeedsClearScreen = true
	l.NeedsRedisplay = true
}

// HistoryUp moves the history cursor back one entry and replaces the
// write buffer with it, if any entries remain.
func (l *Line) HistoryUp() {
	if l.historyPos == 0 {
		return
	}
	l.historyPos--
	l.setFromHistory(l.history[l.historyPos])
}

// HistoryDown moves the history cursor forward one entry; past the
// end, the write buffer becomes empty.
func (l *Line) HistoryDown() {
	if l.historyPos >= len(l.history) {
		return
	}
	l.historyPos++
	if l.historyPos == len(l.history) {
		l.write.Reset()
		l.cursor = 0
	} else {
		l.setFromHistory(l.history[l.historyPos])
	}
	l.endTabCompletion()
	l.NeedsRedisplay = true
}

func (l *Line) setFromHistory(text string) {
	l.write.Reset()
	l.write.Append([]byte(text)...)
	l.cursor = l.write.Len()
	l.endTabCompletion()
	l.NeedsRedisplay = true
}

// Accept returns the current write buffer as the accepted line, pushes
// it onto history (unless empty), and resets editing state for the
// next line.
func (l *Line) Accept() string {
	text := l.write.String()
	if text != "" {
		l.history = append(l.history, text)
	}
	l.write.Reset()
	l.cursor = 0
	l.historyPos = len(l.history)
	l.endTabCompletion()
	return text
}

// History returns every history entry.
func (l *Line) History() []string { return l.history }

// SessionHistory returns only the entries created this session (i.e.
// not loaded from disk at startup), for append-on-exit (spec §6).
func (l *Line) SessionHistory() []string { return l.history[l.historyStart:] }

// Tab runs or advances tab-completion. On the first TAB of a run, it
// builds a fresh Session from the token under the cursor and returns
// its zeroth candidate without advancing; later TABs (forward=true) or
// Shift-TABs (forward=false) advance the existing session. ESC restores
// the zeroth candidate and ends the run (call TabEscape instead).
func (l *Line) Tab(list complete.Lister, pwd string, flavor environ.Flavor, forward bool) {
	if !l.tabActive {
		boundary := complete.Boundary(l.write.Bytes(), l.cursor)
		token := string(l.write.Bytes()[boundary:l.cursor])
		restrictToDirs := isCdLine(l.write.Bytes())
		dirname, basename := complete.SplitDirBase(token, flavor)
		sess, err := complete.Run(list, pwd, dirname, basename, restrictToDirs)
		if err != nil || len(sess.Candidates) == 0 {
			return
		}
		l.completion = sess
		l.tabActive = true
		l.replaceToken(boundary, dirname+sess.Candidates[sess.Cursor].Text)
		return
	}

	delta := 1
	if !forward {
		delta = -1
	}
	replacement := l.completion.Advance(delta)
	boundary := complete.Boundary(l.write.Bytes(), l.cursor)
	l.replaceToken(boundary, l.completion.Dirname+replacement)
}

// TabEscape restores the zeroth candidate and ends tab-completion mode
// (ESC while active, per spec §4.7).
func (l *Line) TabEscape() {
	if !l.tabActive || l.completion == nil {
		return
	}
	boundary := complete.Boundary(l.write.Bytes(), l.cursor)
	l.completion.Cursor = 0
	l.replaceToken(boundary, l.completion.Dirname+l.completion.Candidates[0].Text)
	l.endTabCompletion()
}

// replaceToken swaps the bytes from boundary to the cursor for
// replacement, moving the cursor to the end of the new text.
func (l *Line) replaceToken(boundary int, replacement string) {
	l.write.Remove(boundary, l.cursor)
	l.write.Insert(boundary, []byte(replacement))
	l.cursor = boundary + len(replacement)
	l.NeedsRedisplay = true
}

func isCdLine(line []byte) bool {
	const prefix = "cd "
	return len(line) >= len(prefix) && string(line[:len(prefix)]) == prefix
}
