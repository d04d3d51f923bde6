package runlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/entail/internal/engine"
)

// ErrRunNotFound is returned when a run token has no record.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is the stored summary of one check.
type RunRecord struct {
	Token     string `json:"token"`
	CreatedAt string `json:"created_at"`
	Phase     string `json:"phase"`
	Steps     int    `json:"steps"`
	Branches  int    `json:"branches"`
	Conflict  string `json:"conflict,omitempty"`
	Source    string `json:"source,omitempty"`
}

// ReadRun returns the summary row for a run token.
func (l *Log) ReadRun(ctx context.Context, token string) (*RunRecord, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT token, created_at, phase, steps, branches, conflict, source
		FROM runs
		WHERE token = ?
	`, token)

	var rec RunRecord
	err := row.Scan(&rec.Token, &rec.CreatedAt, &rec.Phase, &rec.Steps,
		&rec.Branches, &rec.Conflict, &rec.Source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, token)
	}
	if err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}
	return &rec, nil
}

// ListRuns returns all run summaries, most recent first. UUIDv7 tokens
// are time-sortable, so token order breaks created_at ties stably.
func (l *Log) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT token, created_at, phase, steps, branches, conflict, source
		FROM runs
		ORDER BY created_at DESC, token COLLATE BINARY DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	recs := []RunRecord{}
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(&rec.Token, &rec.CreatedAt, &rec.Phase, &rec.Steps,
			&rec.Branches, &rec.Conflict, &rec.Source); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// ReadFacts returns the rendered facts of a run's terminal model in
// stored order. Empty (not nil) when the run was unsatisfiable.
func (l *Log) ReadFacts(ctx context.Context, token string) ([]string, error) {
	return l.readRendered(ctx, `
		SELECT rendered FROM facts
		WHERE run_token = ?
		ORDER BY idx ASC
	`, token)
}

// ReadUnhandled returns the rendered unhandled atoms of a run.
func (l *Log) ReadUnhandled(ctx context.Context, token string) ([]string, error) {
	return l.readRendered(ctx, `
		SELECT rendered FROM unhandled
		WHERE run_token = ?
		ORDER BY rendered ASC
	`, token)
}

func (l *Log) readRendered(ctx context.Context, query, token string) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, query, token)
	if err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("read run: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ReadEvents returns a run's trace events in sequence order.
func (l *Log) ReadEvents(ctx context.Context, token string) ([]engine.TraceEvent, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT payload FROM events
		WHERE run_token = ?
		ORDER BY seq ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	defer rows.Close()

	events := []engine.TraceEvent{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("read events: %w", err)
		}
		var ev engine.TraceEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return nil, fmt.Errorf("read events: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
