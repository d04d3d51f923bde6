// Package harness runs conformance scenarios: YAML-described axiom
// documents with expectations on the engine's verdict and terminal
// model, plus golden-trace comparison for regression pinning.
package harness

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/entail/internal/compiler"
	"github.com/roach88/entail/internal/engine"
	"github.com/roach88/entail/internal/geo"
	"github.com/roach88/entail/internal/testutil"
)

// DefaultRunToken is used when a scenario does not fix its own token.
const DefaultRunToken = "test-run-default"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	Pass bool `json:"pass"`

	// Verdict is the engine's terminal phase name.
	Verdict string `json:"verdict"`

	// Facts are the terminal model's rendered facts (empty when
	// unsatisfiable).
	Facts []string `json:"facts"`

	// Unhandled are rendered atoms no submodel recognized.
	Unhandled []string `json:"unhandled,omitempty"`

	// Trace contains the run's diagnostic events in order.
	Trace []engine.TraceEvent `json:"trace"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Run executes a scenario against the interval vocabulary and evaluates
// its expectations. An error return means the scenario itself is broken
// (unreadable document, structural violation); expectation mismatches
// land in Result.Errors instead.
func Run(scenario *Scenario) (*Result, error) {
	src := scenario.Source
	if scenario.Document != "" {
		data, err := os.ReadFile(scenario.Document)
		if err != nil {
			return nil, fmt.Errorf("failed to read document: %w", err)
		}
		src = string(data)
	}

	doc, err := compiler.CompileString(src)
	if err != nil {
		return nil, fmt.Errorf("failed to compile document: %w", err)
	}
	reg := geo.NewRegistry()
	if errs := compiler.Validate(doc, reg); len(errs) > 0 {
		return nil, fmt.Errorf("invalid document: %v", errs[0])
	}

	token := scenario.RunToken
	if token == "" {
		token = DefaultRunToken
	}

	tracer := engine.NewTracer()
	eng := engine.New(reg, geo.NewModel,
		engine.WithObserver(tracer),
		engine.WithTokenGenerator(testutil.NewRepeatingTokenGenerator(token)),
	)
	res, err := eng.Check(context.Background(), doc.Arena, doc.Axioms...)
	if err != nil {
		return nil, fmt.Errorf("scenario run failed: %w", err)
	}

	result := &Result{
		Pass:    true,
		Verdict: res.Phase.String(),
		Facts:   []string{},
		Trace:   tracer.Events(),
	}
	if res.Model != nil {
		for _, f := range res.Model.Facts() {
			result.Facts = append(result.Facts, f.String())
		}
	}
	for _, at := range res.Unhandled {
		result.Unhandled = append(result.Unhandled, at.String())
	}

	evaluate(scenario, result)
	return result, nil
}

// evaluate checks the scenario's expectations against the run outcome.
func evaluate(scenario *Scenario, result *Result) {
	if result.Verdict != scenario.Expect.Verdict {
		result.AddError(fmt.Sprintf("verdict: expected %s, got %s",
			scenario.Expect.Verdict, result.Verdict))
	}

	facts := make(map[string]bool, len(result.Facts))
	for _, f := range result.Facts {
		facts[f] = true
	}
	for _, want := range scenario.Expect.Entailed {
		if !facts[want] {
			result.AddError(fmt.Sprintf("entailed: %s missing from model", want))
		}
	}
	for _, bad := range scenario.Expect.NotEntailed {
		if facts[bad] {
			result.AddError(fmt.Sprintf("not_entailed: %s present in model", bad))
		}
	}

	if scenario.Expect.Unhandled != nil && len(result.Unhandled) != *scenario.Expect.Unhandled {
		result.AddError(fmt.Sprintf("unhandled: expected %d, got %d",
			*scenario.Expect.Unhandled, len(result.Unhandled)))
	}
}
