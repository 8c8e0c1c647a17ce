package events

// Event type constants for kelindar/event.
const (
	TypePhaseChanged uint32 = iota + 1
	TypeTaskStateChanged
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// PhaseChangedEvent is published when the orchestrator transitions between
// lifecycle phases.
type PhaseChangedEvent struct {
	Phase string `json:"phase"`
}

// Type returns the event type identifier for PhaseChangedEvent.
func (e PhaseChangedEvent) Type() uint32 { return TypePhaseChanged }

// TaskStateChangedEvent is published when a supervised task starts or
// finishes. Error is empty for clean transitions.
type TaskStateChangedEvent struct {
	Task  string `json:"task"`
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

// Type returns the event type identifier for TaskStateChangedEvent.
func (e TaskStateChangedEvent) Type() uint32 { return TypeTaskStateChanged }
