package render

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	perrors "github.com/matzehuels/testplot/pkg/errors"
)

// DefaultBinary is the gnuplot executable looked up on PATH.
const DefaultBinary = "gnuplot"

// Engine runs a script file that writes its own output.
type Engine interface {
	Run(ctx context.Context, scriptPath string) error
}

// Gnuplot runs scripts with the gnuplot executable.
type Gnuplot struct {
	Binary string   // executable name or path, DefaultBinary when empty
	Args   []string // arguments placed before the script path
}

// NewGnuplot returns an engine for binary with extra arguments given as one
// shell-quoted string.
func NewGnuplot(binary, args string) (*Gnuplot, error) {
	parsed, err := shellquote.Split(args)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "parse gnuplot arguments %q", args)
	}
	return &Gnuplot{Binary: binary, Args: parsed}, nil
}

// Command returns the command line that runs scriptPath, quoted for display.
func (g *Gnuplot) Command(scriptPath string) string {
	words := append([]string{g.binary()}, g.Args...)
	return shellquote.Join(append(words, scriptPath)...)
}

// Run executes the script in its own directory. Relative output paths in the
// script therefore resolve next to the script.
func (g *Gnuplot) Run(ctx context.Context, scriptPath string) error {
	bin := g.binary()
	if _, err := exec.LookPath(bin); err != nil {
		return perrors.Wrap(perrors.ErrCodeRender, err, "%s not found. Install with:\n  macOS:  brew install gnuplot\n  Linux:  apt install gnuplot", bin)
	}

	abs, err := filepath.Abs(scriptPath)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeRender, err, "resolve script path")
	}
	if _, err := os.Stat(abs); err != nil {
		return perrors.Wrap(perrors.ErrCodeRender, err, "script %s", scriptPath)
	}

	args := append(append([]string{}, g.Args...), abs)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = filepath.Dir(abs)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &perrors.Error{
			Code:    perrors.ErrCodeRender,
			Message: strings.TrimSpace(bin + ": " + stderr.String()),
			Path:    scriptPath,
			Cause:   err,
		}
	}
	return nil
}

func (g *Gnuplot) binary() string {
	if g.Binary == "" {
		return DefaultBinary
	}
	return g.Binary
}
