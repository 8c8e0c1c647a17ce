package orchestrator

// Phase represents where the orchestrator is in its lifecycle.
type Phase string

// Lifecycle phases, in order.
const (
	PhaseIdle         Phase = "idle"          // Created, not started
	PhaseSettingUp    Phase = "setting_up"    // Validation, install, build
	PhaseLaunching    Phase = "launching"     // Starting long-running tasks
	PhaseRunning      Phase = "running"       // Tasks alive, collecting outcomes
	PhaseShuttingDown Phase = "shutting_down" // Stopping remaining tasks
	PhaseDone         Phase = "done"          // Terminal
)

// Task states published on the event bus.
const (
	TaskRunning   = "running"
	TaskSucceeded = "succeeded"
	TaskFailed    = "failed"
)
