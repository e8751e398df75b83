package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/timers/internal/seed"
)

// Scenario defines a timer scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Initial is the list the engine starts with, in seed file form.
	Initial []seed.Entry `yaml:"initial,omitempty"`

	// Steps are submitted to the engine in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and final list.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one user intent, or a burst of ticks.
type Step struct {
	// Intent is create, edit, remove, toggle or tick.
	Intent string `yaml:"intent"`

	// ID targets edit, remove and toggle.
	ID string `yaml:"id,omitempty"`

	Title   string `yaml:"title,omitempty"`
	Project string `yaml:"project,omitempty"`

	// Count is the number of ticks to fire for a tick step. Default 1.
	Count int `yaml:"count,omitempty"`
}

// Assertion validates the final state or trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "timer": timer ID exists and matches Expect (subset match)
	// - "absent": no timer has ID
	// - "count": the list holds Count timers
	// - "order": the list IDs equal IDs, in order
	// - "version": the final version equals Version
	// - "trace_count": Intent was applied Count times
	Type string `yaml:"type"`

	ID string `yaml:"id,omitempty"`

	// Expect holds any of title, project, elapsed, running.
	Expect map[string]any `yaml:"expect,omitempty"`

	Count   int      `yaml:"count,omitempty"`
	IDs     []string `yaml:"ids,omitempty"`
	Version int64    `yaml:"version,omitempty"`
	Intent  string   `yaml:"intent,omitempty"`
}

// Assertion type constants.
const (
	AssertTimer      = "timer"
	AssertAbsent     = "absent"
	AssertCount      = "count"
	AssertOrder      = "order"
	AssertVersion    = "version"
	AssertTraceCount = "trace_count"
)

// Step intent names, matching engine.IntentKind.String.
const (
	StepCreate = "create"
	StepEdit   = "edit"
	StepRemove = "remove"
	StepToggle = "toggle"
	StepTick   = "tick"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, s *Step) error {
	switch s.Intent {
	case StepCreate:
	case StepEdit, StepRemove, StepToggle:
		if s.ID == "" {
			return fmt.Errorf("steps[%d]: id is required for %s", index, s.Intent)
		}
	case StepTick:
		if s.Count < 0 {
			return fmt.Errorf("steps[%d]: count must be non-negative", index)
		}
	case "":
		return fmt.Errorf("steps[%d]: intent is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown intent %q", index, s.Intent)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertTimer:
		if a.ID == "" {
			return fmt.Errorf("assertions[%d]: id is required for timer", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for timer", index)
		}
		for k := range a.Expect {
			switch k {
			case "title", "project", "elapsed", "running":
			default:
				return fmt.Errorf("assertions[%d]: unknown expect field %q", index, k)
			}
		}
	case AssertAbsent:
		if a.ID == "" {
			return fmt.Errorf("assertions[%d]: id is required for absent", index)
		}
	case AssertCount, AssertVersion:
		if a.Count < 0 || a.Version < 0 {
			return fmt.Errorf("assertions[%d]: %s must be non-negative", index, a.Type)
		}
	case AssertOrder:
		if a.IDs == nil {
			return fmt.Errorf("assertions[%d]: ids list is required for order", index)
		}
	case AssertTraceCount:
		if a.Intent == "" {
			return fmt.Errorf("assertions[%d]: intent is required for trace_count", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
