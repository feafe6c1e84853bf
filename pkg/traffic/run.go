package traffic

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
	"github.com/kballard/go-shellquote"

	perrors "github.com/matzehuels/testplot/pkg/errors"
)

// Process is a started background command.
type Process interface {
	Stop() error
}

// Starter starts commands in the background.
type Starter interface {
	Start(ctx context.Context, cmd Command) (Process, error)
}

// StopFunc stops a running flow.
type StopFunc func() error

// Runner starts generators. In dry-run mode commands are only logged.
type Runner struct {
	Starter Starter
	Logger  *log.Logger
	DryRun  bool
	// Hint receives the description of every started flow.
	Hint func(hint string)
}

// Run starts the commands of g in order and returns a function stopping
// them in reverse order. When a command fails to start, the ones already
// running are stopped.
func (r *Runner) Run(ctx context.Context, g Generator) (StopFunc, error) {
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	if r.Hint != nil {
		r.Hint(g.Hint)
	}
	for _, c := range g.Commands {
		logger.Debug("traffic", "cmd", shellquote.Join(c...))
	}
	if r.DryRun {
		return func() error { return nil }, nil
	}
	if r.Starter == nil {
		return nil, perrors.New(perrors.ErrCodeInternal, "traffic runner has no starter")
	}

	var started []Process
	stop := func() error {
		var errs []error
		for i := len(started) - 1; i >= 0; i-- {
			errs = append(errs, started[i].Stop())
		}
		return errors.Join(errs...)
	}
	for _, c := range g.Commands {
		p, err := r.Starter.Start(ctx, c)
		if err != nil {
			_ = stop()
			return nil, perrors.Wrap(perrors.ErrCodeInternal, err, "start %s", shellquote.Join(c...))
		}
		started = append(started, p)
	}
	return stop, nil
}

// ExecStarter starts commands as local child processes.
type ExecStarter struct{}

// Start runs cmd without waiting for it.
func (ExecStarter) Start(ctx context.Context, cmd Command) (Process, error) {
	if len(cmd) == 0 {
		return nil, errors.New("empty command")
	}
	c := exec.CommandContext(ctx, cmd[0], cmd[1:]...)
	if err := c.Start(); err != nil {
		return nil, err
	}
	p := &execProcess{cmd: c, done: make(chan error, 1)}
	go func() { p.done <- c.Wait() }()
	return p, nil
}

type execProcess struct {
	cmd  *exec.Cmd
	done chan error
}

// Stop kills the process and reaps it. A process that already exited is
// not an error.
func (p *execProcess) Stop() error {
	select {
	case <-p.done:
		return nil
	default:
	}
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	<-p.done
	return nil
}
