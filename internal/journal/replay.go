package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/timers/internal/engine"
	"github.com/roach88/timers/internal/timer"
)

// ReplayResult is the outcome of a successful replay.
type ReplayResult struct {
	SessionID string
	Timers    timer.List
	Version   int64
	Applied   int
}

// DivergenceError reports a journal whose records do not reproduce the
// recorded state: a missing version, or a digest mismatch.
type DivergenceError struct {
	SessionID string
	Version   int64
	Reason    string
}

// Error implements the error interface.
func (e *DivergenceError) Error() string {
	return fmt.Sprintf("session %s diverged at version %d: %s", e.SessionID, e.Version, e.Reason)
}

// IsDivergence reports whether err is, or wraps, a DivergenceError.
func IsDivergence(err error) bool {
	var de *DivergenceError
	return errors.As(err, &de)
}

// Replay rebuilds a session's final timer list from its initial list and
// recorded intents. Created timers get the IDs recorded for them, so the
// rebuilt list matches the live one exactly; every step's digest is
// checked against the journal.
func (j *Journal) Replay(ctx context.Context, sessionID string) (*ReplayResult, error) {
	current, base, err := j.readSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	records, err := j.ReadIntents(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	ids := timer.NewFixedGenerator()
	factory := timer.NewFactory(ids)
	version := base

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if rec.Version != version+1 {
			return nil, &DivergenceError{
				SessionID: sessionID,
				Version:   version + 1,
				Reason:    fmt.Sprintf("missing record (next recorded version is %d)", rec.Version),
			}
		}

		if rec.Intent.Kind == engine.IntentCreate {
			ids.Push(rec.Intent.TimerID)
		}

		next, _, err := engine.Apply(current, factory, rec.Intent)
		if err != nil {
			return nil, fmt.Errorf("replay v%d: %w", rec.Version, err)
		}

		digest, err := timer.Digest(next)
		if err != nil {
			return nil, fmt.Errorf("replay v%d: %w", rec.Version, err)
		}
		if digest != rec.Digest {
			return nil, &DivergenceError{
				SessionID: sessionID,
				Version:   rec.Version,
				Reason:    fmt.Sprintf("digest %s, recorded %s", digest, rec.Digest),
			}
		}

		current = next
		version = rec.Version
	}

	return &ReplayResult{
		SessionID: sessionID,
		Timers:    current,
		Version:   version,
		Applied:   len(records),
	}, nil
}
