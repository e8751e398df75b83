package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/timers/internal/engine"
	"github.com/roach88/timers/internal/timer"
)

// ErrNoSessions is returned when the journal holds no sessions.
var ErrNoSessions = errors.New("journal has no sessions")

// SessionInfo summarises one session.
type SessionInfo struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	BaseVersion int64     `json:"base_version"`
	Intents     int       `json:"intents"`
}

// Record is one stored intent.
type Record struct {
	SessionID  string        `json:"session_id"`
	Version    int64         `json:"version"`
	Intent     engine.Intent `json:"-"`
	Kind       string        `json:"kind"`
	TimerID    string        `json:"timer_id,omitempty"`
	Digest     string        `json:"digest"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// Sessions lists sessions oldest first.
// Returns an empty slice (not nil) if the journal is empty.
func (j *Journal) Sessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT s.id, s.started_at, s.base_version, COUNT(i.version)
		FROM sessions s
		LEFT JOIN intents i ON i.session_id = s.id
		GROUP BY s.id
		ORDER BY s.started_at ASC, s.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []SessionInfo{}
	for rows.Next() {
		var info SessionInfo
		var started string
		if err := rows.Scan(&info.ID, &started, &info.BaseVersion, &info.Intents); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if info.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parse started_at for %s: %w", info.ID, err)
		}
		sessions = append(sessions, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// LatestSession returns the most recently started session.
func (j *Journal) LatestSession(ctx context.Context) (SessionInfo, error) {
	sessions, err := j.Sessions(ctx)
	if err != nil {
		return SessionInfo{}, err
	}
	if len(sessions) == 0 {
		return SessionInfo{}, ErrNoSessions
	}
	return sessions[len(sessions)-1], nil
}

// ReadIntents returns a session's records ordered by version.
// Returns an empty slice (not nil) if the session has no records.
func (j *Journal) ReadIntents(ctx context.Context, sessionID string) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session_id, version, kind, timer_id, payload, digest, recorded_at
		FROM intents
		WHERE session_id = ?
		ORDER BY version ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query intents: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate intents: %w", err)
	}

	return records, nil
}

// readSession loads a session's initial list and base version.
func (j *Journal) readSession(ctx context.Context, sessionID string) (timer.List, int64, error) {
	var data []byte
	var base int64
	err := j.db.QueryRowContext(ctx, `
		SELECT initial, base_version FROM sessions WHERE id = ?
	`, sessionID).Scan(&data, &base)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("session %s: %w", sessionID, sql.ErrNoRows)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("query session: %w", err)
	}

	initial, err := decodeTimers(data)
	if err != nil {
		return nil, 0, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return initial, base, nil
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var rec Record
	var payload []byte
	var recorded string

	if err := rows.Scan(&rec.SessionID, &rec.Version, &rec.Kind, &rec.TimerID, &payload, &rec.Digest, &recorded); err != nil {
		return Record{}, fmt.Errorf("scan intent: %w", err)
	}

	kind, err := engine.ParseIntentKind(rec.Kind)
	if err != nil {
		return Record{}, fmt.Errorf("intent v%d: %w", rec.Version, err)
	}
	rec.Intent = engine.Intent{Kind: kind, TimerID: rec.TimerID}
	if err := decodePayload(payload, &rec.Intent); err != nil {
		return Record{}, fmt.Errorf("intent v%d: %w", rec.Version, err)
	}

	if rec.RecordedAt, err = time.Parse(timeLayout, recorded); err != nil {
		return Record{}, fmt.Errorf("intent v%d: parse recorded_at: %w", rec.Version, err)
	}

	return rec, nil
}
