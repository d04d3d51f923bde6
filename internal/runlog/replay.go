package runlog

import (
	"context"
	"fmt"

	"github.com/roach88/entail/internal/axiom"
	"github.com/roach88/entail/internal/compiler"
	"github.com/roach88/entail/internal/engine"
	"github.com/roach88/entail/internal/model"
)

// ReplayResult compares a recorded run against a fresh re-run of its
// stored source.
type ReplayResult struct {
	Token      string   `json:"token"`
	Match      bool     `json:"match"`
	Mismatches []string `json:"mismatches,omitempty"`

	RecordedPhase string `json:"recorded_phase"`
	FreshPhase    string `json:"fresh_phase"`
}

// Replay recompiles a run's stored source, runs it through a fresh
// engine, and compares the verdict, entailed facts, and unhandled set
// against the recorded ones. The trace itself is not compared: run
// tokens differ between runs by construction.
func (l *Log) Replay(ctx context.Context, token string, reg *axiom.Registry, newModel func() *model.Model) (*ReplayResult, error) {
	rec, err := l.ReadRun(ctx, token)
	if err != nil {
		return nil, err
	}
	if rec.Source == "" {
		return nil, fmt.Errorf("run %s has no stored source to replay", token)
	}

	doc, err := compiler.CompileString(rec.Source)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", token, err)
	}

	eng := engine.New(reg, newModel)
	res, err := eng.Check(ctx, doc.Arena, doc.Axioms...)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", token, err)
	}

	out := &ReplayResult{
		Token:         token,
		RecordedPhase: rec.Phase,
		FreshPhase:    res.Phase.String(),
	}

	if res.Phase.String() != rec.Phase {
		out.Mismatches = append(out.Mismatches,
			fmt.Sprintf("phase: recorded %s, got %s", rec.Phase, res.Phase))
	}

	recordedFacts, err := l.ReadFacts(ctx, token)
	if err != nil {
		return nil, err
	}
	freshFacts := []string{}
	if res.Model != nil {
		for _, f := range res.Model.Facts() {
			freshFacts = append(freshFacts, f.String())
		}
	}
	if diff := diffStrings(recordedFacts, freshFacts); diff != "" {
		out.Mismatches = append(out.Mismatches, "facts: "+diff)
	}

	recordedUnhandled, err := l.ReadUnhandled(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(recordedUnhandled) != len(res.Unhandled) {
		out.Mismatches = append(out.Mismatches,
			fmt.Sprintf("unhandled: recorded %d, got %d", len(recordedUnhandled), len(res.Unhandled)))
	}

	out.Match = len(out.Mismatches) == 0
	return out, nil
}

func diffStrings(recorded, fresh []string) string {
	if len(recorded) != len(fresh) {
		return fmt.Sprintf("recorded %d, got %d", len(recorded), len(fresh))
	}
	for i := range recorded {
		if recorded[i] != fresh[i] {
			return fmt.Sprintf("entry %d: recorded %q, got %q", i, recorded[i], fresh[i])
		}
	}
	return ""
}
