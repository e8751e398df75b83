package harness

import "github.com/roach88/timers/internal/timer"

// TraceEvent is one change published by the engine.
type TraceEvent struct {
	Version int64  `json:"version"`
	Intent  string `json:"intent"`
	TimerID string `json:"timer_id,omitempty"`
	Timers  int    `json:"timers"`
	Digest  string `json:"digest"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace lists the engine's changes in version order.
	Trace []TraceEvent `json:"trace"`

	// Final is the list after the last step.
	Final timer.List `json:"final"`

	// Version is the engine version after the last step.
	Version int64 `json:"version"`

	// Errors contains assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
