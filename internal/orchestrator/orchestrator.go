// Package orchestrator drives the installer lifecycle: sequential setup
// steps (dependency install, build) followed by concurrent supervision of
// the front-end server and the Baileys companion service.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/jocilejr/docs/internal/events"
	"github.com/jocilejr/docs/internal/npm"
	"github.com/jocilejr/docs/internal/process"
)

// Defaults for optional settings.
const (
	DefaultBaileysScript = "baileys-service.js"
	DefaultGracePeriod   = 5 * time.Second
	DefaultKillTimeout   = 5 * time.Second
)

// InvalidTargetError means the front-end path does not exist or is not a
// directory. Nothing is started when this is returned.
type InvalidTargetError struct {
	Path string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("front-end directory does not exist: %s", e.Path)
}

// Options configures an Orchestrator. FrontendPath is required; the rest
// have defaults.
type Options struct {
	FrontendPath   string
	Port           int
	BaileysCommand []string // override for the Baileys service; empty = node + BaileysScript
	BaileysScript  string
	SkipBuild      bool
	SkipStart      bool
	SkipBaileys    bool
	GracePeriod    time.Duration
	KillTimeout    time.Duration
	Logger         *slog.Logger
	Bus            *events.Bus
}

// Orchestrator runs the setup steps and supervises the long-running tasks.
type Orchestrator struct {
	opts     Options
	logger   *slog.Logger
	bus      *events.Bus
	runner   *process.Runner
	registry *process.Registry

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	phase Phase
}

// New creates an orchestrator. The front-end path is resolved to an
// absolute path so child working directories do not depend on the
// installer's own cwd.
func New(opts Options) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.BaileysScript == "" {
		opts.BaileysScript = DefaultBaileysScript
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = DefaultGracePeriod
	}
	if opts.KillTimeout <= 0 {
		opts.KillTimeout = DefaultKillTimeout
	}
	if abs, err := filepath.Abs(opts.FrontendPath); err == nil {
		opts.FrontendPath = abs
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		opts:     opts,
		logger:   opts.Logger,
		bus:      opts.Bus,
		runner:   process.NewRunner(opts.Logger),
		registry: process.NewRegistry(opts.Logger),
		ctx:      ctx,
		cancel:   cancel,
		phase:    PhaseIdle,
	}
}

// Phase returns the current lifecycle phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// Shutdown requests an orderly stop of all supervised tasks. It is treated
// exactly like an external interrupt and is safe to call at any time.
func (o *Orchestrator) Shutdown() {
	o.cancel()
}

// Run executes the full lifecycle and blocks until everything has stopped.
// It always leaves the process group fully stopped before returning.
func (o *Orchestrator) Run() *Result {
	res := &Result{}

	o.setPhase(PhaseSettingUp)
	if err := o.setup(); err != nil {
		res.Err = err
		o.setPhase(PhaseDone)
		return res
	}

	o.setPhase(PhaseLaunching)
	tasks := o.buildTasks()
	if len(tasks) == 0 {
		o.logger.Info("All long-running tasks skipped, nothing to supervise")
		o.setPhase(PhaseDone)
		return res
	}

	// Buffered to the task count so a task can always deliver its outcome,
	// even after the supervisor has moved on to shutdown.
	results := make(chan process.Outcome, len(tasks))
	for _, t := range tasks {
		t.Start(results)
		o.publishTask(t.Name(), TaskRunning, nil)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	o.setPhase(PhaseRunning)

	pending := len(tasks)
	for pending > 0 {
		select {
		case out := <-results:
			pending--
			o.record(res, out)
			if out.Err != nil {
				o.logger.Error("Task failed, stopping remaining tasks", "task", out.Task, "error", out.Err)
				return o.shutdown(res, results, pending)
			}
			// A clean exit does not end the run; keep waiting for the
			// remaining tasks.
		case sig := <-sigCh:
			o.logger.Warn("Execution interrupted, stopping services", "signal", sig.String())
			res.Interrupted = true
			return o.shutdown(res, results, pending)
		case <-o.ctx.Done():
			o.logger.Warn("Shutdown requested, stopping services")
			res.Interrupted = true
			return o.shutdown(res, results, pending)
		}
	}

	o.setPhase(PhaseDone)
	return res
}

// setup validates the target directory and runs the ordered setup steps.
// Any failure aborts the run before a single task launches.
func (o *Orchestrator) setup() error {
	dir := o.opts.FrontendPath
	o.logger.Info("Front-end directory", "path", dir)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		o.logger.Error("Front-end directory does not exist", "path", dir)
		return &InvalidTargetError{Path: dir}
	}

	tc, err := npm.Detect()
	if err != nil {
		o.logger.Error("Node.js/npm not found on PATH")
		o.logger.Error(npm.InstallHint(runtime.GOOS))
		return fmt.Errorf("install Node.js and npm before running the installer again: %w", err)
	}
	o.logger.Info("Node.js located", "path", tc.Node)
	o.logger.Info("npm located", "path", tc.NPM)

	o.logger.Info("Installing front-end dependencies")
	if err := o.runner.Run(o.ctx, "npm install", npm.Install(dir)); err != nil {
		return err
	}
	o.logger.Info("Ensuring npm dependency", "package", "baileys")
	if err := o.runner.Run(o.ctx, "npm install baileys", npm.InstallPackage(dir, "baileys")); err != nil {
		return err
	}

	if o.opts.SkipBuild {
		o.logger.Info("Front-end build skipped by user")
		return nil
	}
	o.logger.Info("Building front-end")
	return o.runner.Run(o.ctx, "npm run build", npm.RunScript(dir, "build"))
}

// buildTasks assembles the non-skipped long-running tasks.
func (o *Orchestrator) buildTasks() []*process.Task {
	var tasks []*process.Task

	if o.opts.SkipStart {
		o.logger.Info("Front-end start skipped by user")
	} else {
		cmd := npm.RunScript(o.opts.FrontendPath, "start")
		tasks = append(tasks, process.NewTask("frontend", cmd, o.registry, o.logger))
	}

	if o.opts.SkipBaileys {
		o.logger.Info("Baileys service skipped by user")
	} else {
		cmd := o.baileysCommand()
		o.logger.Info("Baileys service configured", "port", o.opts.Port, "command", cmd.String())
		tasks = append(tasks, process.NewTask("baileys", cmd, o.registry, o.logger))
	}

	return tasks
}

// baileysCommand resolves the companion service command: the user override
// when given, otherwise node running the conventional script inside the
// front-end directory. A missing conventional script is logged, not fatal.
func (o *Orchestrator) baileysCommand() process.Command {
	env := []string{fmt.Sprintf("BAILEYS_PORT=%d", o.opts.Port)}

	if len(o.opts.BaileysCommand) > 0 {
		return process.Command{
			Args: o.opts.BaileysCommand,
			Dir:  o.opts.FrontendPath,
			Env:  env,
		}
	}

	if _, err := os.Stat(filepath.Join(o.opts.FrontendPath, o.opts.BaileysScript)); err != nil {
		o.logger.Warn("Default Baileys script not found; create it or pass --baileys-command",
			"script", o.opts.BaileysScript, "path", o.opts.FrontendPath)
	}

	cmd := npm.NodeScript(o.opts.FrontendPath, o.opts.BaileysScript)
	cmd.Env = env
	return cmd
}

// shutdown drives the two-phase stop of everything still registered and
// drains the outstanding outcomes before finishing.
func (o *Orchestrator) shutdown(res *Result, results <-chan process.Outcome, pending int) *Result {
	o.setPhase(PhaseShuttingDown)

	o.registry.Terminate(o.opts.GracePeriod, o.opts.KillTimeout)

	drainDeadline := time.After(o.opts.KillTimeout)
	for pending > 0 {
		select {
		case out := <-results:
			pending--
			o.record(res, out)
		case <-drainDeadline:
			o.logger.Error("Timed out waiting for task outcomes", "pending", pending)
			pending = 0
		}
	}

	o.setPhase(PhaseDone)
	return res
}

func (o *Orchestrator) record(res *Result, out process.Outcome) {
	res.Outcomes = append(res.Outcomes, out)
	if out.Err != nil {
		o.publishTask(out.Task, TaskFailed, out.Err)
	} else {
		o.publishTask(out.Task, TaskSucceeded, nil)
	}
}

func (o *Orchestrator) setPhase(p Phase) {
	o.mu.Lock()
	o.phase = p
	o.mu.Unlock()
	if o.bus != nil {
		o.bus.Publish(events.PhaseChangedEvent{Phase: string(p)})
	}
}

func (o *Orchestrator) publishTask(task, state string, err error) {
	if o.bus == nil {
		return
	}
	ev := events.TaskStateChangedEvent{Task: task, State: state}
	if err != nil {
		ev.Error = err.Error()
	}
	o.bus.Publish(ev)
}
