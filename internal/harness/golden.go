package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/entail/internal/engine"
)

// TraceSnapshot captures the complete outcome of a scenario execution
// for golden comparison. Serialization is deterministic: fixed field
// order, sorted facts, logical-clock event sequence.
type TraceSnapshot struct {
	ScenarioName string              `json:"scenario_name"`
	RunToken     string              `json:"run_token,omitempty"`
	Verdict      string              `json:"verdict"`
	Facts        []string            `json:"facts"`
	Unhandled    []string            `json:"unhandled,omitempty"`
	Trace        []engine.TraceEvent `json:"trace"`
}

// RunWithGolden executes a scenario and compares the outcome against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario, result)
}

// AssertGolden compares an already-obtained result against the
// scenario's golden file.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	token := scenario.RunToken
	if token == "" {
		token = DefaultRunToken
	}
	snapshot := TraceSnapshot{
		ScenarioName: scenario.Name,
		RunToken:     token,
		Verdict:      result.Verdict,
		Facts:        result.Facts,
		Unhandled:    result.Unhandled,
		Trace:        result.Trace,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}
