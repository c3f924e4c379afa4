package resolve

import (
	"testing"

	"github.com/dr-shell/drsh/internal/atom"
	"github.com/dr-shell/drsh/internal/environ"
)

func newEnv(t *testing.T, flavor environ.Flavor) *environ.Environ {
	t.Helper()
	return environ.New(atom.NewTable(), flavor)
}

func TestResolveAbsolutePath(t *testing.T) {
	env := newEnv(t, environ.Linux)
	exists := func(p string) bool { return p == "/bin/ls" }

	got, err := Resolve(env, "/bin/ls", exists)
	if err != nil || got != "/bin/ls" {
		t.Fatalf("Resolve(/bin/ls) = %q, %v", got, err)
	}
}

func TestResolveWalksPathInOrder(t *testing.T) {
	env := newEnv(t, environ.Linux)
	env.SetString("PATH", "/bin:/usr/bin")
	exists := func(p string) bool { return p == "/usr/bin/ls" }

	got, err := Resolve(env, "ls", exists)
	if err != nil || got != "/usr/bin/ls" {
		t.Fatalf("Resolve(ls) = %q, %v, want /usr/bin/ls", got, err)
	}
}

func TestResolveFirstDirectoryWins(t *testing.T) {
	env := newEnv(t, environ.Linux)
	env.SetString("PATH", "/bin:/usr/bin")
	exists := func(p string) bool { return p == "/bin/ls" || p == "/usr/bin/ls" }

	got, err := Resolve(env, "ls", exists)
	if err != nil || got != "/bin/ls" {
		t.Fatalf("Resolve(ls) = %q, %v, want /bin/ls (first dir wins)", got, err)
	}
}

func TestResolveNotFound(t *testing.T) {
	env := newEnv(t, environ.Linux)
	env.SetString("PATH", "/bin:/usr/bin")
	exists := func(string) bool { return false }

	_, err := Resolve(env, "ls", exists)
	if err != ErrNotFound {
		t.Fatalf("Resolve(missing) err = %v, want ErrNotFound", err)
	}
}

func TestResolveWindowsAppendsPathext(t *testing.T) {
	env := newEnv(t, environ.Windows)
	env.SetString("PATH", `C:\bin`)
	env.SetString("PATHEXT", ".COM;.EXE;.BAT")
	exists := func(p string) bool { return p == `C:\bin\ls.EXE` }

	got, err := Resolve(env, "ls", exists)
	if err != nil || got != `C:\bin\ls.EXE` {
		t.Fatalf("Resolve(ls) = %q, %v, want C:\\bin\\ls.EXE", got, err)
	}
}

func TestResolveWindowsExactExtensionOnlyProbesThatPath(t *testing.T) {
	env := newEnv(t, environ.Windows)
	env.SetString("PATH", `C:\bin`)
	env.SetString("PATHEXT", ".COM;.EXE;.BAT")
	probed := []string{}
	exists := func(p string) bool { probed = append(probed, p); return false }

	_, err := Resolve(env, `C:\bin\ls.bat`, exists)
	if err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(probed) != 1 || probed[0] != `C:\bin\ls.bat` {
		t.Fatalf("probed = %v, want exactly one probe of the literal path", probed)
	}
}

func TestResolveWindowsFallsBackToCwd(t *testing.T) {
	env := newEnv(t, environ.Windows)
	env.SetString("PATH", "")
	env.SetString("PATHEXT", ".EXE")
	exists := func(p string) bool { return p == `.\tool.EXE` }

	got, err := Resolve(env, "tool", exists)
	if err != nil || got != `.\tool.EXE` {
		t.Fatalf("Resolve(tool) = %q, %v, want .\\tool.EXE", got, err)
	}
}

func TestResolveDirectPathBypassesPath(t *testing.T) {
	env := newEnv(t, environ.Linux)
	env.SetString("PATH", "/usr/bin")
	exists := func(p string) bool { return p == "./local/tool" }

	got, err := Resolve(env, "./local/tool", exists)
	if err != nil || got != "./local/tool" {
		t.Fatalf("Resolve(./local/tool) = %q, %v", got, err)
	}
}
