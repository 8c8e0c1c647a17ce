package orchestrator

import "github.com/jocilejr/docs/internal/process"

// Result aggregates the run: every task outcome, whether shutdown was
// interrupt-driven, and any fatal error raised before tasks launched.
type Result struct {
	Outcomes    []process.Outcome
	Interrupted bool
	Err         error
}

// Failures returns the outcomes that carry an error.
func (r *Result) Failures() []process.Outcome {
	var failures []process.Outcome
	for _, out := range r.Outcomes {
		if out.Err != nil {
			failures = append(failures, out)
		}
	}
	return failures
}

// ExitCode returns 0 only when setup succeeded, every task reported
// success, and no interrupt occurred.
func (r *Result) ExitCode() int {
	if r.Err != nil || r.Interrupted || len(r.Failures()) > 0 {
		return 1
	}
	return 0
}
