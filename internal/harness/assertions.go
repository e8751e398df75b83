package harness

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/roach88/timers/internal/timer"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [v%d] %s %s\n", event.Version, event.Intent, event.TimerID)
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns one message per
// failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertTimer:
		return assertTimer(result, a)
	case AssertAbsent:
		return assertAbsent(result, a)
	case AssertCount:
		return assertCount(result, a)
	case AssertOrder:
		return assertOrder(result, a)
	case AssertVersion:
		return assertVersion(result, a)
	case AssertTraceCount:
		return assertTraceCount(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertTimer checks the fields named in Expect (subset match).
func assertTimer(result *Result, a Assertion) error {
	t, ok := result.Final.Find(a.ID)
	if !ok {
		return &AssertionError{
			Type:     AssertTimer,
			Expected: fmt.Sprintf("timer %s", a.ID),
			Actual:   "not in final list",
			Trace:    result.Trace,
		}
	}

	var mismatches []string
	for field, want := range a.Expect {
		got := timerField(t, field)
		if !valuesEqual(got, want) {
			mismatches = append(mismatches, fmt.Sprintf("%s=%v (want %v)", field, got, want))
		}
	}
	if len(mismatches) > 0 {
		sort.Strings(mismatches)
		return &AssertionError{
			Type:     AssertTimer,
			Expected: fmt.Sprintf("timer %s with %v", a.ID, a.Expect),
			Actual:   strings.Join(mismatches, ", "),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertAbsent(result *Result, a Assertion) error {
	if _, ok := result.Final.Find(a.ID); ok {
		return &AssertionError{
			Type:     AssertAbsent,
			Expected: fmt.Sprintf("no timer %s", a.ID),
			Actual:   "present in final list",
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertCount(result *Result, a Assertion) error {
	if got := result.Final.Len(); got != a.Count {
		return &AssertionError{
			Type:     AssertCount,
			Expected: fmt.Sprintf("%d timers", a.Count),
			Actual:   fmt.Sprintf("%d timers", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertOrder(result *Result, a Assertion) error {
	got := result.Final.IDs()
	if len(got) == 0 && len(a.IDs) == 0 {
		return nil
	}
	if !reflect.DeepEqual(got, a.IDs) {
		return &AssertionError{
			Type:     AssertOrder,
			Expected: fmt.Sprintf("%v", a.IDs),
			Actual:   fmt.Sprintf("%v", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertVersion(result *Result, a Assertion) error {
	if result.Version != a.Version {
		return &AssertionError{
			Type:     AssertVersion,
			Expected: fmt.Sprintf("version %d", a.Version),
			Actual:   fmt.Sprintf("version %d", result.Version),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertTraceCount(result *Result, a Assertion) error {
	n := 0
	for _, ev := range result.Trace {
		if ev.Intent == a.Intent {
			n++
		}
	}
	if n != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%s applied %d times", a.Intent, a.Count),
			Actual:   fmt.Sprintf("applied %d times", n),
			Trace:    result.Trace,
		}
	}
	return nil
}

func timerField(t timer.Timer, field string) any {
	switch field {
	case "title":
		return t.Title
	case "project":
		return t.Project
	case "elapsed":
		return t.Elapsed
	case "running":
		return t.IsRunning
	default:
		return nil
	}
}

// valuesEqual compares a timer field to a YAML-decoded value. Integers
// may arrive as any Go integer type.
func valuesEqual(got, want any) bool {
	if g, ok := got.(int64); ok {
		switch w := want.(type) {
		case int:
			return g == int64(w)
		case int64:
			return g == w
		case uint64:
			return g >= 0 && uint64(g) == w
		case float64:
			return float64(g) == w
		default:
			return false
		}
	}
	return reflect.DeepEqual(got, want)
}
