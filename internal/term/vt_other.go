//go:build !windows

package term

import "os"

// EnableVTProcessing is a no-op outside the DOS family: POSIX
// terminals already interpret the ANSI subset in spec §6 natively.
func EnableVTProcessing(in, out *os.File) error { return nil }
