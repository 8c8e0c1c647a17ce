package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// ExitError reports a setup command that exited with a nonzero code.
type ExitError struct {
	Step string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("step %q exited with code %d", e.Step, e.Code)
}

// Runner executes commands to completion, one at a time. Setup steps are
// strictly ordered: a failed step aborts everything that would follow.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a runner that logs through the given logger.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes cmd and blocks until it exits. The child inherits the
// runner's stdout and stderr so tool output reaches the terminal directly.
// Returns *ExitError on a nonzero exit, labeled with step for reporting.
func (r *Runner) Run(ctx context.Context, step string, cmd Command) error {
	if len(cmd.Args) == 0 {
		return fmt.Errorf("step %q: empty command", step)
	}

	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	c.Dir = cmd.Dir
	c.Env = cmd.environ()
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	r.logger.Info("Running command", "step", step, "command", cmd.String(), "dir", cmd.Dir)

	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			r.logger.Error("Command failed", "step", step, "exit_code", code, "command", cmd.String())
			return &ExitError{Step: step, Code: code}
		}
		r.logger.Error("Command could not be started", "step", step, "error", err)
		return fmt.Errorf("step %q: %w", step, err)
	}

	return nil
}
