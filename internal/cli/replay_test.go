package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/timers/internal/engine"
	"github.com/roach88/timers/internal/journal"
	"github.com/roach88/timers/internal/timer"
)

func replayGolden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestReplay_TextGolden(t *testing.T) {
	path := writeTestJournal(t)

	out, err := executeCommand(t, NewReplayCommand(&RootOptions{Format: "text"}), "--journal", path)
	require.NoError(t, err)

	replayGolden(t).Assert(t, "replay", []byte(out))
}

func TestReplay_JSONGolden(t *testing.T) {
	path := writeTestJournal(t)

	out, err := executeCommand(t, NewReplayCommand(&RootOptions{Format: "json"}), "--journal", path)
	require.NoError(t, err)

	replayGolden(t).Assert(t, "replay_json", []byte(out))
}

func TestReplay_Diverged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.db")
	j, err := journal.Open(path)
	require.NoError(t, err)

	s, err := j.BeginSession(context.Background(), journal.SessionConfig{ID: "bad", StartedAt: testStart})
	require.NoError(t, err)
	// The recorded list does not follow from toggling an empty list.
	require.NoError(t, s.Record(context.Background(), engine.Change{
		Version: 1,
		Intent:  engine.ToggleIntent("t1"),
		Timers:  timer.List{{ID: "t1", IsRunning: true}},
		At:      testStart,
	}))
	require.NoError(t, j.Close())

	out, err := executeCommand(t, NewReplayCommand(&RootOptions{Format: "text"}), "--journal", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E_DIVERGED]")
}

func TestReplay_EmptyJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	j, err := journal.Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	_, err = executeCommand(t, NewReplayCommand(&RootOptions{Format: "text"}), "--journal", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
