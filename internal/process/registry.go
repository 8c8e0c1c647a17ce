package process

import (
	"errors"
	"log/slog"
	"os"
	"sync"
	"syscall"
	"time"
)

// Signal selects the escalation level for Registry.SignalAll.
type Signal int

// Signal kinds.
const (
	SignalGraceful Signal = iota // SIGINT, give the process a chance to clean up
	SignalForceful               // SIGKILL, unconditional
)

// Handle identifies one live child process for signaling and waiting.
type Handle struct {
	Task string
	Proc *os.Process
}

// Registry is the set of currently running child processes. Tasks register
// their handle before they begin waiting for exit and unregister once the
// process has been reaped, so a handle is present exactly while the process
// may still be running.
type Registry struct {
	mu      sync.Mutex
	handles map[*Handle]struct{}
	waiters []chan struct{}
	logger  *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		handles: make(map[*Handle]struct{}),
		logger:  logger,
	}
}

// Register adds a live handle to the registry.
func (r *Registry) Register(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles[h] = struct{}{}
}

// Unregister removes a handle once its process has exited and been reaped.
func (r *Registry) Unregister(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, h)
	if len(r.handles) == 0 {
		for _, w := range r.waiters {
			close(w)
		}
		r.waiters = nil
	}
}

// Snapshot returns the handles registered at the time of the call.
func (r *Registry) Snapshot() []*Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	handles := make([]*Handle, 0, len(r.handles))
	for h := range r.handles {
		handles = append(handles, h)
	}
	return handles
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// SignalAll signals every handle in a snapshot taken at the time of the
// call. Processes that register afterwards are not signaled, and processes
// that exit concurrently are tolerated.
func (r *Registry) SignalAll(kind Signal) {
	for _, h := range r.Snapshot() {
		switch kind {
		case SignalGraceful:
			r.logger.Info("Sending SIGINT to process", "task", h.Task, "pid", h.Proc.Pid)
			if err := h.Proc.Signal(syscall.SIGINT); err != nil && !errors.Is(err, os.ErrProcessDone) {
				r.logger.Warn("Failed to send SIGINT", "task", h.Task, "error", err)
			}
		case SignalForceful:
			r.logger.Warn("Killing process", "task", h.Task, "pid", h.Proc.Pid)
			if err := h.Proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				r.logger.Error("Failed to kill process", "task", h.Task, "error", err)
			}
		}
	}
}

// Terminate stops every registered process with escalation: graceful signal
// first, then SIGKILL for anything still registered after the grace period.
// It returns once the registry has drained or the kill wait elapsed. Calling
// Terminate on an empty registry is a no-op.
func (r *Registry) Terminate(grace, killWait time.Duration) {
	if r.Len() == 0 {
		return
	}

	r.SignalAll(SignalGraceful)
	if r.waitEmpty(grace) {
		return
	}

	r.logger.Warn("Graceful shutdown timeout, forcing kill", "timeout", grace)
	r.SignalAll(SignalForceful)
	if !r.waitEmpty(killWait) {
		r.logger.Error("Processes did not exit after kill signal", "remaining", r.Len())
	}
}

// waitEmpty blocks until the registry drains or the timeout elapses.
func (r *Registry) waitEmpty(timeout time.Duration) bool {
	r.mu.Lock()
	if len(r.handles) == 0 {
		r.mu.Unlock()
		return true
	}
	w := make(chan struct{})
	r.waiters = append(r.waiters, w)
	r.mu.Unlock()

	select {
	case <-w:
		return true
	case <-time.After(timeout):
		return false
	}
}
