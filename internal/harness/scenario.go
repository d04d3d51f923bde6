package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: one axiom document run
// to completion, with expectations on the verdict and the terminal
// model.
type Scenario struct {
	// Name uniquely identifies this scenario; also the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Document is a path to a CUE axiom document, relative to the
	// scenario file location. Exactly one of Document and Source is set.
	Document string `yaml:"document,omitempty"`

	// Source is an inline CUE axiom document.
	Source string `yaml:"source,omitempty"`

	// RunToken is an optional fixed run token for deterministic golden
	// comparison. Defaults to "test-run-default".
	RunToken string `yaml:"run_token,omitempty"`

	// Expect declares the expected outcome.
	Expect Expectation `yaml:"expect"`
}

// Expectation is the assertion block of a scenario.
type Expectation struct {
	// Verdict is "solved" or "unsatisfiable".
	Verdict string `yaml:"verdict"`

	// Entailed lists rendered atoms the terminal model must contain,
	// told or not. Only meaningful for solved scenarios.
	Entailed []string `yaml:"entailed,omitempty"`

	// NotEntailed lists rendered atoms the terminal model must not
	// contain.
	NotEntailed []string `yaml:"not_entailed,omitempty"`

	// Unhandled, when set, is the expected number of unhandled atoms.
	Unhandled *int `yaml:"unhandled,omitempty"`
}

// LoadScenario reads and validates a YAML scenario file. A relative
// Document path is resolved against the scenario file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expect:" vs "expects:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Document != "" && !filepath.IsAbs(scenario.Document) {
		scenario.Document = filepath.Join(filepath.Dir(path), scenario.Document)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if (s.Document == "") == (s.Source == "") {
		return fmt.Errorf("exactly one of document and source is required")
	}
	switch s.Expect.Verdict {
	case "solved", "unsatisfiable":
	case "":
		return fmt.Errorf("expect.verdict is required")
	default:
		return fmt.Errorf("expect.verdict must be %q or %q, got %q",
			"solved", "unsatisfiable", s.Expect.Verdict)
	}
	return nil
}
