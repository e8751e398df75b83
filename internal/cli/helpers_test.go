package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/timers/internal/engine"
	"github.com/roach88/timers/internal/journal"
	"github.com/roach88/timers/internal/timer"
)

const testSessionID = "0190a000-0000-7000-8000-000000000001"

var testStart = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

// writeTestJournal records a short session: create, toggle, tick, edit,
// and a remove of an unknown ID.
func writeTestJournal(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timers.db")

	j, err := journal.Open(path)
	require.NoError(t, err)
	defer j.Close()

	initial := timer.List{{ID: "t1", Title: "Clean Bedroom", Project: "House Chores", Elapsed: 1126099}}
	s, err := j.BeginSession(context.Background(), journal.SessionConfig{
		ID:        testSessionID,
		Initial:   initial,
		StartedAt: testStart,
	})
	require.NoError(t, err)

	factory := timer.NewFactory(timer.NewFixedGenerator("t2"))
	current := initial
	intents := []engine.Intent{
		engine.CreateIntent(timer.CreatePayload{Title: "Write report", Project: "Work"}),
		engine.ToggleIntent("t2"),
		engine.TickIntent(1000),
		engine.EditIntent(timer.EditPayload{ID: "t1", Title: "Clean Kitchen", Project: "House Chores"}),
		engine.RemoveIntent("t9"),
	}
	for i, in := range intents {
		next, applied, err := engine.Apply(current, factory, in)
		require.NoError(t, err)
		require.NoError(t, s.Record(context.Background(), engine.Change{
			Version: int64(i + 1),
			Intent:  applied,
			Timers:  next,
			At:      testStart.Add(time.Duration(i) * time.Second),
		}))
		current = next
	}
	return path
}

// executeCommand runs cmd with args and returns stdout.
func executeCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
