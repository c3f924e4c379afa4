//go:build windows

package term

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// EnableVTProcessing turns on ENABLE_VIRTUAL_TERMINAL_PROCESSING (for
// output) and ENABLE_VIRTUAL_TERMINAL_INPUT (for input) on the given
// console handles, so the ANSI subset in spec §6 (cursor moves, SGR
// colors) renders on a stock Windows console instead of being echoed
// as literal escape bytes. x/term.MakeRaw does not set these bits, so
// this is called once at startup on the DOS family.
func EnableVTProcessing(in, out *os.File) error {
	var inMode, outMode uint32

	inHandle := windows.Handle(in.Fd())
	if err := windows.GetConsoleMode(inHandle, &inMode); err == nil {
		inMode |= windows.ENABLE_VIRTUAL_TERMINAL_INPUT
		if err := windows.SetConsoleMode(inHandle, inMode); err != nil {
			return errors.Wrap(err, "term: enable VT input processing")
		}
	}

	outHandle := windows.Handle(out.Fd())
	if err := windows.GetConsoleMode(outHandle, &outMode); err == nil {
		outMode |= windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING
		if err := windows.SetConsoleMode(outHandle, outMode); err != nil {
			return errors.Wrap(err, "term: enable VT output processing")
		}
	}

	return nil
}
