package runlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/entail/internal/axiom"
	"github.com/roach88/entail/internal/engine"
)

// WriteRun records one completed check: the run row, the facts the
// terminal model entails (empty when unsatisfiable), the trace events,
// and the unhandled atoms. Written in a single transaction so a crash
// never leaves a partial run.
//
// Uses ON CONFLICT DO NOTHING for idempotency - re-recording a run
// token is silently ignored.
func (l *Log) WriteRun(ctx context.Context, res *engine.Result, source string, events []engine.TraceEvent) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	defer tx.Rollback()

	conflict := ""
	if res.Conflict != nil {
		conflict = res.Conflict.Error()
	}
	r, err := tx.ExecContext(ctx, `
		INSERT INTO runs (token, phase, steps, branches, conflict, source)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`, res.RunToken, res.Phase.String(), res.Steps, res.Branches, conflict, source)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	if n, err := r.RowsAffected(); err == nil && n == 0 {
		// run token already recorded
		return nil
	}

	if res.Model != nil {
		for i, fact := range res.Model.Facts() {
			if err := writeAtom(ctx, tx, `
				INSERT INTO facts (run_token, idx, rendered, key)
				VALUES (?, ?, ?, ?)
			`, res.RunToken, i, fact); err != nil {
				return fmt.Errorf("write run facts: %w", err)
			}
		}
	}

	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("write run events: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO events (run_token, seq, type, payload)
			VALUES (?, ?, ?, ?)
		`, res.RunToken, ev.Seq, ev.Type, string(payload))
		if err != nil {
			return fmt.Errorf("write run events: %w", err)
		}
	}

	for _, at := range res.Unhandled {
		key, err := axiom.FactKey(at)
		if err != nil {
			return fmt.Errorf("write run unhandled: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO unhandled (run_token, key, rendered)
			VALUES (?, ?, ?)
			ON CONFLICT DO NOTHING
		`, res.RunToken, key, at.String())
		if err != nil {
			return fmt.Errorf("write run unhandled: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

func writeAtom(ctx context.Context, tx *sql.Tx, query, token string, idx int, at axiom.Atom) error {
	key, err := axiom.FactKey(at)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, token, idx, at.String(), key)
	return err
}
