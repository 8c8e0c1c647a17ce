package process

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
)

// LaunchError means the task never produced a live process.
type LaunchError struct {
	Task string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("task %q failed to launch: %v", e.Task, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// NonZeroExitError means the task's process ran and exited abnormally.
type NonZeroExitError struct {
	Task string
	Code int
}

func (e *NonZeroExitError) Error() string {
	return fmt.Sprintf("task %q exited with code %d", e.Task, e.Code)
}

// Outcome reports how one supervised task finished. Err is nil on a clean
// exit, otherwise *LaunchError or *NonZeroExitError.
type Outcome struct {
	Task string
	Err  error
}

// Task supervises one long-running command. It launches the process,
// registers its handle, waits for exit, and reports exactly one Outcome.
type Task struct {
	name     string
	cmd      Command
	registry *Registry
	logger   *slog.Logger
}

// NewTask creates a supervised task. The registry receives the task's
// handle for the time the process is alive.
func NewTask(name string, cmd Command, registry *Registry, logger *slog.Logger) *Task {
	return &Task{
		name:     name,
		cmd:      cmd,
		registry: registry,
		logger:   logger,
	}
}

// Name returns the task name used in outcomes and logs.
func (t *Task) Name() string { return t.name }

// Start launches the command on its own goroutine. Exactly one Outcome is
// sent on results; results must have capacity for it so a task never blocks
// on a supervisor that has moved on to shutdown.
func (t *Task) Start(results chan<- Outcome) {
	go t.run(results)
}

func (t *Task) run(results chan<- Outcome) {
	c := exec.Command(t.cmd.Args[0], t.cmd.Args[1:]...)
	c.Dir = t.cmd.Dir
	c.Env = t.cmd.environ()
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := c.Start(); err != nil {
		t.logger.Error("Failed to start process", "task", t.name, "error", err, "command", t.cmd.String())
		results <- Outcome{Task: t.name, Err: &LaunchError{Task: t.name, Err: err}}
		return
	}

	t.logger.Info("Process started", "task", t.name, "pid", c.Process.Pid, "command", t.cmd.String())

	// The handle must be visible to the registry before Wait begins, so a
	// concurrent Terminate can never miss a process that is about to be
	// waited on.
	h := &Handle{Task: t.name, Proc: c.Process}
	t.registry.Register(h)

	err := c.Wait()
	t.registry.Unregister(h)

	if err != nil {
		code := exitCodeFromError(err)
		t.logger.Error("Process exited with error", "task", t.name, "exit_code", code)
		results <- Outcome{Task: t.name, Err: &NonZeroExitError{Task: t.name, Code: code}}
		return
	}

	t.logger.Info("Process exited", "task", t.name, "exit_code", 0)
	results <- Outcome{Task: t.name}
}

// exitCodeFromError extracts the exit code from a Wait error.
// Returns 0 for nil, the exit code for ExitError, or 1 for other errors.
func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
