package main

import (
	"testing"

	"github.com/dr-shell/drsh/internal/environ"
)

func TestHostFlavorMatchesKnownGOOS(t *testing.T) {
	switch hostFlavor() {
	case environ.Linux, environ.Apple, environ.Windows, environ.Other:
	default:
		t.Fatalf("hostFlavor() returned an unrecognized Flavor value")
	}
}

func TestDirOf(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/a/b/c.txt", "/a/b"},
		{`C:\a\b.txt`, `C:\a`},
		{"plain.txt", ""},
	}
	for _, test := range tests {
		if got := dirOf(test.in); got != test.want {
			t.Errorf("dirOf(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestExitStatus(t *testing.T) {
	if exitStatus(0) != 0 { // shell.OK
		t.Errorf("exitStatus(OK) != 0")
	}
	if exitStatus(8) != 0 { // shell.Exit
		t.Errorf("exitStatus(Exit) != 0")
	}
	if exitStatus(5) != 1 { // shell.ValueError
		t.Errorf("exitStatus(ValueError) != 1")
	}
}
