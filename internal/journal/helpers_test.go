package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/timers/internal/engine"
	"github.com/roach88/timers/internal/timer"
)

var testStart = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

// createTestJournal opens a journal in a temp dir.
func createTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

// recordIntents applies intents with engine.Apply, as the live engine would,
// and records each resulting change.
func recordIntents(t *testing.T, s *Session, initial timer.List, ids timer.IDGenerator, intents ...engine.Intent) timer.List {
	t.Helper()

	factory := timer.NewFactory(ids)
	current := initial
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
	return current
}
