//go:build windows

package term

// WatchResize has no signal-driven equivalent on the DOS family (no
// SIGWINCH): onResize is never called and the returned stop function
// does nothing, so LINES/COLUMNS keep the values cmd/drsh set when the
// interactive session started. This stub keeps the call site in
// cmd/drsh uniform across platforms.
func (s *State) WatchResize(onResize func()) (stop func()) {
	return func() {}
}
