package render

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	perrors "github.com/matzehuels/testplot/pkg/errors"
)

func TestNewGnuplot(t *testing.T) {
	g, err := NewGnuplot("", `-e "set term dumb"`)
	if err != nil {
		t.Fatalf("NewGnuplot() error: %v", err)
	}
	if len(g.Args) != 2 || g.Args[1] != "set term dumb" {
		t.Errorf("Args = %q", g.Args)
	}
	if got := g.Command("out dir/plot.gpi"); got != `gnuplot -e 'set term dumb' 'out dir/plot.gpi'` {
		t.Errorf("Command() = %s", got)
	}

	if _, err := NewGnuplot("gnuplot", `"unterminated`); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("NewGnuplot(bad) error = %v, want INVALID_INPUT", err)
	}
}

func TestRunMissingBinary(t *testing.T) {
	g := &Gnuplot{Binary: "testplot-no-such-engine"}
	err := g.Run(context.Background(), "x.gpi")
	if !perrors.Is(err, perrors.ErrCodeRender) {
		t.Errorf("Run() error = %v, want RENDER_ERROR", err)
	}
}

// fakeEngine writes an executable shell script standing in for gnuplot.
func fakeEngine(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script engine")
	}
	path := filepath.Join(t.TempDir(), "fakeplot")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunExecutesInScriptDir(t *testing.T) {
	bin := fakeEngine(t, `cp "$1" ran.txt`)
	dir := t.TempDir()
	script := filepath.Join(dir, "plot.gpi")
	if err := os.WriteFile(script, []byte("reset\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := (&Gnuplot{Binary: bin}).Run(context.Background(), script); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "ran.txt"))
	if err != nil {
		t.Fatalf("engine did not run in script dir: %v", err)
	}
	if string(got) != "reset\n" {
		t.Errorf("engine saw %q", got)
	}
}

func TestRunFailure(t *testing.T) {
	bin := fakeEngine(t, `echo "line 3: undefined variable" >&2; exit 1`)
	script := filepath.Join(t.TempDir(), "plot.gpi")
	if err := os.WriteFile(script, []byte("plot x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := (&Gnuplot{Binary: bin}).Run(context.Background(), script)
	if !perrors.Is(err, perrors.ErrCodeRender) {
		t.Fatalf("Run() error = %v, want RENDER_ERROR", err)
	}
	if !strings.Contains(err.Error(), "undefined variable") {
		t.Errorf("Run() error %q does not carry engine output", err)
	}
	if perrors.GetPath(err) != script {
		t.Errorf("error path = %q, want %q", perrors.GetPath(err), script)
	}
}

func TestRunMissingScript(t *testing.T) {
	bin := fakeEngine(t, "exit 0")
	err := (&Gnuplot{Binary: bin}).Run(context.Background(), filepath.Join(t.TempDir(), "none.gpi"))
	if !perrors.Is(err, perrors.ErrCodeRender) {
		t.Errorf("Run() error = %v, want RENDER_ERROR", err)
	}
}
