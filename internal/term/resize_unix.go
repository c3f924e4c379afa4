//go:build linux || darwin

package term

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// WatchResize starts watching SIGWINCH and calls onResize (normally
// Environ.RefreshSize) whenever the terminal is resized. It returns a
// stop function that cancels the watch. This is the POSIX half of the
// "refresh_size" responsibility (spec §4.2); x/term.GetSize does the
// actual ioctl, golang.org/x/sys/unix only supplies the signal number
// SIGWINCH isn't exported by the syscall package on every GOOS.
func (s *State) WatchResize(onResize func()) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGWINCH)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
				onResize()
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}
