package engine

import (
	"fmt"

	"github.com/roach88/timers/internal/timer"
)

// IntentKind distinguishes intent kinds.
type IntentKind int

const (
	// IntentCreate adds a new timer at the front of the list.
	IntentCreate IntentKind = iota + 1
	// IntentEdit overwrites a timer's title and project.
	IntentEdit
	// IntentRemove drops a timer.
	IntentRemove
	// IntentToggle starts or stops a timer.
	IntentToggle
	// IntentTick advances every running timer.
	IntentTick
)

var intentKindNames = map[IntentKind]string{
	IntentCreate: "create",
	IntentEdit:   "edit",
	IntentRemove: "remove",
	IntentToggle: "toggle",
	IntentTick:   "tick",
}

// String returns the lowercase intent name, e.g. "toggle".
func (k IntentKind) String() string {
	if name, ok := intentKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("IntentKind(%d)", int(k))
}

// ParseIntentKind is the inverse of IntentKind.String.
func ParseIntentKind(s string) (IntentKind, error) {
	for k, name := range intentKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown intent kind %q", s)
}

// Intent is a discrete request to change the timer list.
//
// Only the fields relevant to Kind are read:
//   - IntentCreate: Title, Project (TimerID is filled in once applied)
//   - IntentEdit:   TimerID, Title, Project
//   - IntentRemove, IntentToggle: TimerID
//   - IntentTick:   Delta (milliseconds)
type Intent struct {
	Kind    IntentKind
	TimerID string
	Title   string
	Project string
	Delta   int64
}

// CreateIntent builds an IntentCreate.
func CreateIntent(p timer.CreatePayload) Intent {
	return Intent{Kind: IntentCreate, Title: p.Title, Project: p.Project}
}

// EditIntent builds an IntentEdit.
func EditIntent(p timer.EditPayload) Intent {
	return Intent{Kind: IntentEdit, TimerID: p.ID, Title: p.Title, Project: p.Project}
}

// RemoveIntent builds an IntentRemove.
func RemoveIntent(id string) Intent {
	return Intent{Kind: IntentRemove, TimerID: id}
}

// ToggleIntent builds an IntentToggle.
func ToggleIntent(id string) Intent {
	return Intent{Kind: IntentToggle, TimerID: id}
}

// TickIntent builds an IntentTick advancing running timers by delta ms.
func TickIntent(delta int64) Intent {
	return Intent{Kind: IntentTick, Delta: delta}
}

// Apply derives the next timer list from l.
//
// The returned Intent is the one actually applied: for IntentCreate its
// TimerID carries the ID the factory assigned, so a journal of applied
// intents can be replayed to the same list.
//
// Only an unrecognised Kind yields an error. Intents naming unknown timers
// are no-ops that return l unchanged.
func Apply(l timer.List, f *timer.Factory, in Intent) (timer.List, Intent, error) {
	switch in.Kind {
	case IntentCreate:
		next, created := timer.Create(l, f, timer.CreatePayload{Title: in.Title, Project: in.Project})
		in.TimerID = created.ID
		return next, in, nil

	case IntentEdit:
		return timer.Edit(l, timer.EditPayload{ID: in.TimerID, Title: in.Title, Project: in.Project}), in, nil

	case IntentRemove:
		return timer.Remove(l, in.TimerID), in, nil

	case IntentToggle:
		return timer.Toggle(l, in.TimerID), in, nil

	case IntentTick:
		return timer.Tick(l, in.Delta), in, nil

	default:
		return l, in, NewIntentError(in.Kind, "unknown intent kind")
	}
}
