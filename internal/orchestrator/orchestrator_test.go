package orchestrator

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jocilejr/docs/internal/events"
	"github.com/jocilejr/docs/internal/process"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeShim installs an executable shell script shim into dir.
func writeShim(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write shim %s: %v", name, err)
	}
}

// installToolchain puts npm and node shims on PATH and returns a front-end
// directory containing the conventional Baileys script.
func installToolchain(t *testing.T, npmBody, nodeBody string) string {
	t.Helper()
	bin := t.TempDir()
	writeShim(t, bin, "npm", npmBody)
	writeShim(t, bin, "node", nodeBody)
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))

	frontend := t.TempDir()
	if err := os.WriteFile(filepath.Join(frontend, DefaultBaileysScript), []byte("// stub\n"), 0o644); err != nil {
		t.Fatalf("write baileys script: %v", err)
	}
	return frontend
}

// npmOK answers every npm subcommand with success; "run start" exits after
// a short delay so the run finishes naturally.
const npmOK = `case "$*" in
"run start") sleep 0.1; exit 0 ;;
*) exit 0 ;;
esac`

const nodeOK = `sleep 0.1; exit 0`

func runAsync(o *Orchestrator) <-chan *Result {
	done := make(chan *Result, 1)
	go func() {
		done <- o.Run()
	}()
	return done
}

func awaitResult(t *testing.T, done <-chan *Result, timeout time.Duration) *Result {
	t.Helper()
	select {
	case res := <-done:
		return res
	case <-time.After(timeout):
		t.Fatal("timeout waiting for orchestrator to finish")
		return nil
	}
}

func awaitPhase(t *testing.T, o *Orchestrator, want Phase, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for o.Phase() != want {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for phase %q, at %q", want, o.Phase())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRunAllTasksSucceed(t *testing.T) {
	frontend := installToolchain(t, npmOK, nodeOK)

	o := New(Options{
		FrontendPath: frontend,
		Port:         3002,
		Logger:       testLogger(),
		GracePeriod:  500 * time.Millisecond,
		KillTimeout:  500 * time.Millisecond,
	})

	res := awaitResult(t, runAsync(o), 5*time.Second)

	if res.ExitCode() != 0 {
		t.Errorf("exit code = %d, want 0 (outcomes: %+v, err: %v)", res.ExitCode(), res.Outcomes, res.Err)
	}
	if len(res.Outcomes) != 2 {
		t.Errorf("outcomes = %d, want 2", len(res.Outcomes))
	}
	if o.Phase() != PhaseDone {
		t.Errorf("phase = %q, want done", o.Phase())
	}
	if o.registry.Len() != 0 {
		t.Errorf("registry not empty at done: %d", o.registry.Len())
	}
}

func TestRunTaskFailureTriggersShutdown(t *testing.T) {
	// Front-end exits 7 quickly; Baileys would run much longer but must be
	// stopped once the sibling fails.
	npmBody := `case "$*" in
"run start") sleep 0.05; exit 7 ;;
*) exit 0 ;;
esac`
	nodeBody := `trap 'exit 0' INT TERM; while :; do sleep 0.1; done`
	frontend := installToolchain(t, npmBody, nodeBody)

	o := New(Options{
		FrontendPath: frontend,
		Port:         3002,
		Logger:       testLogger(),
		GracePeriod:  time.Second,
		KillTimeout:  time.Second,
	})

	start := time.Now()
	res := awaitResult(t, runAsync(o), 5*time.Second)

	if res.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", res.ExitCode())
	}
	failures := res.Failures()
	if len(failures) != 1 {
		t.Fatalf("failures = %d, want exactly 1 (%+v)", len(failures), res.Outcomes)
	}
	var exitErr *process.NonZeroExitError
	if !errors.As(failures[0].Err, &exitErr) || exitErr.Code != 7 {
		t.Errorf("failure = %v, want NonZeroExit code 7", failures[0].Err)
	}
	if res.Interrupted {
		t.Error("failure-driven shutdown must not be marked interrupted")
	}
	// Sibling handled SIGINT, so the whole run stays well under the grace period.
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("shutdown took %v, want bounded by grace period plus a delta", elapsed)
	}
	if o.registry.Len() != 0 {
		t.Errorf("registry not empty at done: %d", o.registry.Len())
	}
}

func TestRunSiblingSuccessKeepsWaiting(t *testing.T) {
	// Baileys exits 0 almost immediately; the front-end keeps running for a
	// while. The orchestrator must wait for the front-end instead of
	// treating the first clean exit as completion.
	npmBody := `case "$*" in
"run start") sleep 0.4; exit 0 ;;
*) exit 0 ;;
esac`
	nodeBody := `exit 0`
	frontend := installToolchain(t, npmBody, nodeBody)

	o := New(Options{
		FrontendPath: frontend,
		Port:         3002,
		Logger:       testLogger(),
	})

	start := time.Now()
	res := awaitResult(t, runAsync(o), 5*time.Second)

	if res.ExitCode() != 0 {
		t.Errorf("exit code = %d, want 0", res.ExitCode())
	}
	if len(res.Outcomes) != 2 {
		t.Errorf("outcomes = %d, want 2", len(res.Outcomes))
	}
	if elapsed := time.Since(start); elapsed < 300*time.Millisecond {
		t.Errorf("run finished in %v, should have waited for the long task", elapsed)
	}
}

func TestRunInterruptStopsAllTasks(t *testing.T) {
	// Front-end handles SIGINT; Baileys ignores it and must be force-killed
	// after the grace period.
	npmBody := `case "$*" in
"run start") trap 'exit 0' INT TERM; while :; do sleep 0.1; done ;;
*) exit 0 ;;
esac`
	nodeBody := `trap '' INT TERM; sleep 10`
	frontend := installToolchain(t, npmBody, nodeBody)

	o := New(Options{
		FrontendPath: frontend,
		Port:         3002,
		Logger:       testLogger(),
		GracePeriod:  200 * time.Millisecond,
		KillTimeout:  2 * time.Second,
	})

	done := runAsync(o)
	awaitPhase(t, o, PhaseRunning, 2*time.Second)

	// Give both tasks time to register.
	deadline := time.Now().Add(2 * time.Second)
	for o.registry.Len() != 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	o.Shutdown()
	res := awaitResult(t, done, 5*time.Second)

	if !res.Interrupted {
		t.Error("result not marked interrupted")
	}
	if res.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", res.ExitCode())
	}
	if len(res.Outcomes) != 2 {
		t.Errorf("outcomes = %d, want 2 (%+v)", len(res.Outcomes), res.Outcomes)
	}
	if o.registry.Len() != 0 {
		t.Errorf("registry not empty at done: %d", o.registry.Len())
	}
}

func TestRunBuildFailureAbortsBeforeLaunch(t *testing.T) {
	npmBody := `case "$*" in
"run build") exit 2 ;;
"run start") echo "must not run" >&2; exit 99 ;;
*) exit 0 ;;
esac`
	frontend := installToolchain(t, npmBody, nodeOK)

	o := New(Options{
		FrontendPath: frontend,
		Port:         3002,
		Logger:       testLogger(),
	})

	res := awaitResult(t, runAsync(o), 5*time.Second)

	var exitErr *process.ExitError
	if !errors.As(res.Err, &exitErr) {
		t.Fatalf("expected *process.ExitError, got %T (%v)", res.Err, res.Err)
	}
	if exitErr.Code != 2 || exitErr.Step != "npm run build" {
		t.Errorf("unexpected setup failure: %+v", exitErr)
	}
	if len(res.Outcomes) != 0 {
		t.Errorf("no task should have launched, got outcomes %+v", res.Outcomes)
	}
	if res.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", res.ExitCode())
	}
	if o.Phase() != PhaseDone {
		t.Errorf("phase = %q, want done", o.Phase())
	}
	if o.registry.Len() != 0 {
		t.Errorf("registry must never be populated on setup failure")
	}
}

func TestRunSkipEverything(t *testing.T) {
	frontend := installToolchain(t, npmOK, nodeOK)

	o := New(Options{
		FrontendPath: frontend,
		Port:         3002,
		SkipBuild:    true,
		SkipStart:    true,
		SkipBaileys:  true,
		Logger:       testLogger(),
	})

	res := awaitResult(t, runAsync(o), 5*time.Second)

	if res.ExitCode() != 0 {
		t.Errorf("exit code = %d, want 0 (err: %v)", res.ExitCode(), res.Err)
	}
	if len(res.Outcomes) != 0 {
		t.Errorf("outcomes = %d, want 0", len(res.Outcomes))
	}
	if o.Phase() != PhaseDone {
		t.Errorf("phase = %q, want done", o.Phase())
	}
}

func TestRunInvalidFrontendPath(t *testing.T) {
	installToolchain(t, npmOK, nodeOK)

	o := New(Options{
		FrontendPath: filepath.Join(t.TempDir(), "does-not-exist"),
		Logger:       testLogger(),
	})

	res := awaitResult(t, runAsync(o), 5*time.Second)

	var targetErr *InvalidTargetError
	if !errors.As(res.Err, &targetErr) {
		t.Fatalf("expected *InvalidTargetError, got %T (%v)", res.Err, res.Err)
	}
	if res.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", res.ExitCode())
	}
}

func TestRunBaileysCommandOverride(t *testing.T) {
	// The override replaces node entirely; make the default node shim fail
	// loudly so using it would be caught.
	frontend := installToolchain(t, npmOK, "exit 98")

	o := New(Options{
		FrontendPath:   frontend,
		Port:           4010,
		SkipStart:      true,
		BaileysCommand: []string{"sh", "-c", `test "$BAILEYS_PORT" = "4010"`},
		Logger:         testLogger(),
	})

	res := awaitResult(t, runAsync(o), 5*time.Second)

	if res.ExitCode() != 0 {
		t.Errorf("exit code = %d, want 0 (outcomes: %+v)", res.ExitCode(), res.Outcomes)
	}
}

func TestRunPublishesLifecycleEvents(t *testing.T) {
	frontend := installToolchain(t, npmOK, nodeOK)

	bus := events.New()
	var mu sync.Mutex
	var phases []string
	var taskStates []string
	unsubPhase := bus.Subscribe(func(e events.PhaseChangedEvent) {
		mu.Lock()
		phases = append(phases, e.Phase)
		mu.Unlock()
	})
	defer unsubPhase()
	unsubTask := bus.Subscribe(func(e events.TaskStateChangedEvent) {
		mu.Lock()
		taskStates = append(taskStates, e.Task+":"+e.State)
		mu.Unlock()
	})
	defer unsubTask()

	o := New(Options{
		FrontendPath: frontend,
		Port:         3002,
		Logger:       testLogger(),
		Bus:          bus,
	})

	res := awaitResult(t, runAsync(o), 5*time.Second)
	if res.ExitCode() != 0 {
		t.Fatalf("exit code = %d, want 0", res.ExitCode())
	}

	// Dispatch is asynchronous; give subscribers a moment.
	time.Sleep(500 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	wantPhases := map[string]bool{}
	for _, p := range phases {
		wantPhases[p] = true
	}
	for _, p := range []Phase{PhaseSettingUp, PhaseLaunching, PhaseRunning, PhaseDone} {
		if !wantPhases[string(p)] {
			t.Errorf("missing phase event %q (got %v)", p, phases)
		}
	}
	seen := map[string]bool{}
	for _, s := range taskStates {
		seen[s] = true
	}
	for _, want := range []string{"frontend:running", "baileys:running", "frontend:succeeded", "baileys:succeeded"} {
		if !seen[want] {
			t.Errorf("missing task event %q (got %v)", want, taskStates)
		}
	}
}
