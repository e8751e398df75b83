package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/timers/internal/timer"
)

// TraceSnapshot captures the complete trace for a scenario execution.
type TraceSnapshot struct {
	ScenarioName string        `json:"scenario_name"`
	Trace        []TraceEvent  `json:"trace"`
	Final        []timer.Timer `json:"final"`
	Version      int64         `json:"version"`
}

// Snapshot builds the golden form of a result.
func Snapshot(name string, r *Result) TraceSnapshot {
	final := []timer.Timer(r.Final)
	if final == nil {
		final = []timer.Timer{}
	}
	return TraceSnapshot{
		ScenarioName: name,
		Trace:        r.Trace,
		Final:        final,
		Version:      r.Version,
	}
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(Snapshot(scenario.Name, result), "", "  ")
	if err != nil {
		return nil, err
	}
	data = append(data, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result, nil
}
