package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/timers/internal/engine"
	"github.com/roach88/timers/internal/seed"
	"github.com/roach88/timers/internal/testutil"
	"github.com/roach88/timers/internal/timer"
)

// stepTimeout bounds the wait for the engine to publish a step's change.
const stepTimeout = 2 * time.Second

// Harness drives one engine through a scenario's steps.
type Harness struct {
	engine  *engine.Engine
	tickers *testutil.TickerSource
	changes chan engine.Change
}

// Run executes a scenario against a fresh engine and returns the result.
//
// Execution flow:
// 1. Build the initial list (seed rules: duplicate IDs and negative elapsed are errors)
// 2. Start an engine with sequential IDs and a manual ticker
// 3. Submit each step and wait for its change
// 4. Stop the engine and evaluate assertions on the final list
//
// A returned error means the scenario could not be executed; assertion
// failures are reported in Result.Errors instead.
func Run(scenario *Scenario) (*Result, error) {
	initial, err := seed.Build("scenario "+scenario.Name, &seed.File{Timers: scenario.Initial}, testutil.NewSequentialIDs("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to build initial list: %w", err)
	}

	tickers := testutil.NewTickerSource()
	eng := engine.New(initial,
		engine.WithIDGenerator(testutil.NewSequentialIDs("t")),
		engine.WithTicker(func(d time.Duration) engine.Ticker { return tickers.New(d) }),
	)

	h := &Harness{
		engine:  eng,
		tickers: tickers,
		changes: make(chan engine.Change, 16),
	}
	eng.Subscribe(engine.ObserverFunc(func(c engine.Change) { h.changes <- c }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- eng.Run(ctx) }()

	result := NewResult()
	stepErr := h.executeSteps(scenario.Steps, result)

	eng.Stop()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) && stepErr == nil {
		stepErr = fmt.Errorf("engine: %w", err)
	}
	if stepErr != nil {
		return nil, stepErr
	}

	snap := eng.Snapshot()
	result.Final = snap.Timers
	result.Version = snap.Version

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func (h *Harness) executeSteps(steps []Step, result *Result) error {
	for i, step := range steps {
		if step.Intent == StepTick {
			if err := h.fireTicks(step.Count, result); err != nil {
				return fmt.Errorf("steps[%d]: %w", i, err)
			}
			continue
		}

		in, err := stepIntent(step)
		if err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
		if !h.engine.Dispatch(in) {
			return fmt.Errorf("steps[%d]: engine refused %s", i, step.Intent)
		}
		if err := h.await(result); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	return nil
}

// fireTicks fires n ticks (at least one), waiting for each to be applied.
func (h *Harness) fireTicks(n int, result *Result) error {
	if n == 0 {
		n = 1
	}

	t := h.tickers.Latest(stepTimeout)
	if t == nil {
		return fmt.Errorf("tick driver did not start")
	}

	for k := 1; k <= n; k++ {
		if !t.Fire() {
			return fmt.Errorf("tick %d: ticker stopped", k)
		}
		if err := h.await(result); err != nil {
			return fmt.Errorf("tick %d: %w", k, err)
		}
	}
	return nil
}

// await appends the next published change to the trace.
func (h *Harness) await(result *Result) error {
	select {
	case c := <-h.changes:
		digest, err := timer.Digest(c.Timers)
		if err != nil {
			return err
		}
		result.Trace = append(result.Trace, TraceEvent{
			Version: c.Version,
			Intent:  c.Intent.Kind.String(),
			TimerID: c.Intent.TimerID,
			Timers:  len(c.Timers),
			Digest:  digest,
		})
		return nil
	case <-time.After(stepTimeout):
		return fmt.Errorf("no change published within %s", stepTimeout)
	}
}

func stepIntent(s Step) (engine.Intent, error) {
	switch s.Intent {
	case StepCreate:
		return engine.CreateIntent(timer.CreatePayload{Title: s.Title, Project: s.Project}), nil
	case StepEdit:
		return engine.EditIntent(timer.EditPayload{ID: s.ID, Title: s.Title, Project: s.Project}), nil
	case StepRemove:
		return engine.RemoveIntent(s.ID), nil
	case StepToggle:
		return engine.ToggleIntent(s.ID), nil
	default:
		return engine.Intent{}, fmt.Errorf("unknown intent %q", s.Intent)
	}
}
