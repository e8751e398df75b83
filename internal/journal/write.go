package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/timers/internal/engine"
	"github.com/roach88/timers/internal/timer"
)

// timeLayout is the stored timestamp format. Fixed width keeps string
// ordering equal to time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SessionConfig describes a new journal session.
type SessionConfig struct {
	// ID is the session identifier. Empty means a new UUIDv7, which sorts
	// by creation time.
	ID string

	// Initial is the timer list the engine started with.
	Initial timer.List

	// BaseVersion is the engine version Initial corresponds to.
	BaseVersion int64

	// StartedAt defaults to time.Now().
	StartedAt time.Time
}

// Session appends applied intents for one engine run.
// It implements engine.Observer.
type Session struct {
	j        *Journal
	id       string
	failures atomic.Int64
}

// BeginSession records a new session and its initial list.
func (j *Journal) BeginSession(ctx context.Context, cfg SessionConfig) (*Session, error) {
	if cfg.ID == "" {
		cfg.ID = uuid.Must(uuid.NewV7()).String()
	}
	if cfg.StartedAt.IsZero() {
		cfg.StartedAt = time.Now()
	}

	initial, err := encodeTimers(cfg.Initial)
	if err != nil {
		return nil, fmt.Errorf("begin session: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO sessions (id, started_at, initial, base_version)
		VALUES (?, ?, ?, ?)
	`,
		cfg.ID,
		cfg.StartedAt.UTC().Format(timeLayout),
		initial,
		cfg.BaseVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("begin session: %w", err)
	}

	return &Session{j: j, id: cfg.ID}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Failures returns how many changes could not be recorded.
func (s *Session) Failures() int64 {
	return s.failures.Load()
}

// Record appends one applied intent and the digest of the list it produced.
// Uses ON CONFLICT DO NOTHING so re-recording a version is a no-op.
func (s *Session) Record(ctx context.Context, c engine.Change) error {
	payload, err := encodePayload(c.Intent)
	if err != nil {
		return fmt.Errorf("record intent: %w", err)
	}

	digest, err := timer.Digest(c.Timers)
	if err != nil {
		return fmt.Errorf("record intent: %w", err)
	}

	at := c.At
	if at.IsZero() {
		at = time.Now()
	}

	_, err = s.j.db.ExecContext(ctx, `
		INSERT INTO intents
		(session_id, version, kind, timer_id, payload, digest, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		s.id,
		c.Version,
		c.Intent.Kind.String(),
		c.Intent.TimerID,
		payload,
		digest,
		at.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("record intent: %w", err)
	}

	return nil
}

// OnChange records c. A failed write is logged and counted; it never
// stops the engine.
func (s *Session) OnChange(c engine.Change) {
	if err := s.Record(context.Background(), c); err != nil {
		s.failures.Add(1)
		slog.Error("journal write failed",
			"session", s.id,
			"version", c.Version,
			"kind", c.Intent.Kind.String(),
			"error", err)
	}
}
