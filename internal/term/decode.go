package term

import (
	"io"
	"time"

	"github.com/dr-shell/drsh/internal/buffer"
	"github.com/pkg/errors"
)

// Kind classifies a decoded editing command (spec §4.4).
type Kind int

const (
	// Literal carries a plain byte through unmodified (any byte ≥ 0x1B
	// not matched by one of the escape sequences below, or any byte in
	// the printable/ASCII range).
	Literal Kind = iota
	// Ctrl carries a control byte 0x01..0x1A (^A..^Z). Byte holds the
	// letter, e.g. 'A' for ^A, so callers can switch on it readably.
	Ctrl
	DeleteBack
	DeleteForward
	Up
	Down
	Left
	Right
	Home
	End
	ShiftTab
	Tab
	Enter
	Esc
)

// Command is one decoded unit of input: exactly one editing command,
// per the contract in spec §4.4.
type Command struct {
	Kind Kind
	Byte byte // meaningful only for Literal and Ctrl
}

// refillSize is the maximum chunk the decoder reads from the
// underlying source in one call (spec §4.4: "up to 8 KiB per refill").
const refillSize = 8192

// escapeAmbiguityWindow is how long the decoder waits for further bytes
// after a bare ESC before committing to "ESC alone was the whole
// sequence". Real terminal escape sequences arrive back-to-back in a
// single read from the pty/tty driver, so in practice this window is
// only ever exercised by an actual Escape keypress with nothing behind
// it.
const escapeAmbiguityWindow = 50 * time.Millisecond

// deadliner is implemented by *os.File; the decoder degrades to a
// plain blocking Read when the underlying reader doesn't support
// deadlines (e.g. in tests using an io.Reader backed by a pipe).
type deadliner interface {
	SetReadDeadline(time.Time) error
}

// Decoder turns a byte stream into a sequence of editing Commands. It
// owns the read buffer described in spec §3 (buffer + cursor).
type Decoder struct {
	r   io.Reader
	buf buffer.Buffer
	pos int
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Next decodes and returns the next Command, refilling from the
// underlying reader as needed. When the source is closed it returns an
// error wrapping io.EOF (match it with errors.Is); a pending bare ESC
// or partial escape sequence is first returned as Esc.
func (d *Decoder) Next() (Command, error) {
	for {
		if cmd, n, ok := decodeOne(d.buf.Bytes()[d.pos:]); ok {
			d.pos += n
			d.compact()
			return cmd, nil
		}

		if err := d.refill(escapeAmbiguityWindow); err != nil {
			if errors.Is(err, errTimedOutMidEscape) {
				// No more bytes arrived: the pending ESC (or partial
				// CSI) is the whole command after all.
				cmd, n := decodeTimedOut(d.buf.Bytes()[d.pos:])
				d.pos += n
				d.compact()
				return cmd, nil
			}
			return Command{}, err
		}
	}
}

// compact drops already-consumed bytes once the buffer's cursor
// reaches its head, so the buffer doesn't grow unboundedly across a
// long interactive session.
func (d *Decoder) compact() {
	if d.pos == 0 {
		return
	}
	remaining := append([]byte(nil), d.buf.Bytes()[d.pos:]...)
	d.buf.Reset()
	d.buf.Append(remaining...)
	d.pos = 0
}

var errTimedOutMidEscape = errors.New("term: timed out mid-escape-sequence")

// refill reads more bytes into the buffer. If the buffer currently
// holds a pending, ambiguous escape prefix (bare ESC or ESC '['), the
// read is given a short deadline (if the reader supports one); a
// timeout or end of input is reported as errTimedOutMidEscape rather
// than a hard error, letting Next() resolve the ambiguity in favor of
// the shorter decode.
func (d *Decoder) refill(ambiguityWindow time.Duration) error {
	pending := d.buf.Bytes()[d.pos:]
	ambiguous := isAmbiguousPrefix(pending)

	if ambiguous {
		if dl, ok := d.r.(deadliner); ok {
			dl.SetReadDeadline(time.Now().Add(ambiguityWindow))
			defer dl.SetReadDeadline(time.Time{})
		}
	}

	tail := d.buf.WritableTail(refillSize)
	n, err := d.r.Read(tail)
	if n > 0 {
		d.buf.Grow(n)
	}
	if err != nil {
		if ambiguous && (isTimeout(err) || errors.Is(err, io.EOF)) {
			return errTimedOutMidEscape
		}
		return errors.Wrap(err, "term: read")
	}
	return nil
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	te, ok := err.(timeout)
	return ok && te.Timeout()
}

// isAmbiguousPrefix reports whether b is a prefix of some escape
// sequence but not a complete command on its own.
func isAmbiguousPrefix(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	if b[0] != esc {
		return false
	}
	if len(b) == 1 {
		return true // bare ESC so far: could be Escape, or the start of a CSI/SS3 sequence
	}
	switch b[1] {
	case '[':
		if len(b) == 2 {
			return true
		}
		// CSI NUM ~ sequences (only "3~" is recognized) need a third byte.
		if len(b) == 3 && b[2] >= '0' && b[2] <= '9' {
			return true
		}
		return false
	case 'O':
		return len(b) == 2
	default:
		return false
	}
}

const esc = 0x1B

// decodeOne attempts to decode exactly one command from the front of
// b, returning (command, bytes consumed, true) on success, or
// (_, _, false) if b is an ambiguous/incomplete prefix and more input
// is needed.
func decodeOne(b []byte) (Command, int, bool) {
	if len(b) == 0 {
		return Command{}, 0, false
	}

	c := b[0]
	switch {
	case c == esc:
		return decodeEscape(b)
	case c == '\t':
		return Command{Kind: Tab}, 1, true
	case c == '\r' || c == '\n':
		return Command{Kind: Enter}, 1, true
	case c >= 1 && c <= 0x1A:
		return Command{Kind: Ctrl, Byte: 'A' + (c - 1)}, 1, true
	case c == 0x7F:
		return Command{Kind: DeleteBack}, 1, true
	default:
		return Command{Kind: Literal, Byte: c}, 1, true
	}
}

// decodeEscape decodes the ESC-prefixed sequences of spec §4.4:
//
//	ESC [ A|B|C|D|H|F|Z  -> Up/Down/Right/Left/Home/End/ShiftTab
//	ESC [ 3 ~            -> DeleteForward
//	ESC O H|F            -> Home/End
//	bare ESC             -> Esc
func decodeEscape(b []byte) (Command, int, bool) {
	if len(b) == 1 {
		return Command{}, 0, false // ambiguous: need to see if '[' or 'O' follows
	}
	switch b[1] {
	case '[':
		if len(b) == 2 {
			return Command{}, 0, false
		}
		switch b[2] {
		case 'A':
			return Command{Kind: Up}, 3, true
		case 'B':
			return Command{Kind: Down}, 3, true
		case 'C':
			return Command{Kind: Right}, 3, true
		case 'D':
			return Command{Kind: Left}, 3, true
		case 'H':
			return Command{Kind: Home}, 3, true
		case 'F':
			return Command{Kind: End}, 3, true
		case 'Z':
			return Command{Kind: ShiftTab}, 3, true
		case '3':
			if len(b) == 3 {
				return Command{}, 0, false
			}
			if b[3] == '~' {
				return Command{Kind: DeleteForward}, 4, true
			}
			// Not the sequence we recognize: treat the ESC as a bare
			// Escape and let the remaining bytes decode on their own.
			return Command{Kind: Esc}, 1, true
		default:
			return Command{Kind: Esc}, 1, true
		}
	case 'O':
		if len(b) == 2 {
			return Command{}, 0, false
		}
		switch b[2] {
		case 'H':
			return Command{Kind: Home}, 3, true
		case 'F':
			return Command{Kind: End}, 3, true
		default:
			return Command{Kind: Esc}, 1, true
		}
	default:
		return Command{Kind: Esc}, 1, true
	}
}

// decodeTimedOut resolves a pending ambiguous prefix once no more
// bytes arrived in time: the correct decoding is always the bare ESC
// (spec §4.4: "ESC alone is the correct decoding if no following bytes
// arrive").
func decodeTimedOut(b []byte) (Command, int) {
	if len(b) == 0 {
		return Command{Kind: Esc}, 0
	}
	return Command{Kind: Esc}, 1
}
