package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a list of operations with
// expected outputs plus property assertions.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Rules is an optional CUE rule directory. Empty means the built-in
	// rule table.
	Rules string `yaml:"rules,omitempty"`

	// Steps are executed in order and recorded in the trace.
	Steps []Step `yaml:"steps"`

	// Assertions check properties that hold for any rule table.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one operation against the processor or the engine.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// Input is the text for single-input operations.
	Input string `yaml:"input,omitempty"`

	// Args are the positional arguments for apply, inflect and conjugate.
	Args []string `yaml:"args,omitempty"`

	// Expect is the expected output. If nil the step is only recorded.
	Expect any `yaml:"expect,omitempty"`
}

// Assertion is a property check evaluated after the steps.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Input is the sentence for correct_idempotent and word_count.
	Input string `yaml:"input,omitempty"`

	// Args are [first, second] for round_trip.
	Args []string `yaml:"args,omitempty"`
}

// Step operations.
const (
	OpApply     = "apply"
	OpReverse   = "reverse"
	OpSplits    = "splits"
	OpValidate  = "validate"
	OpCorrect   = "correct"
	OpParse     = "parse"
	OpInflect   = "inflect"
	OpConjugate = "conjugate"
)

// Assertion type constants.
const (
	AssertRoundTrip         = "round_trip"
	AssertCorrectIdempotent = "correct_idempotent"
	AssertWordCount         = "word_count"
)

// opArgs is the number of positional args each operation takes. Zero
// means the operation reads Input instead.
var opArgs = map[string]int{
	OpApply:     2,
	OpReverse:   0,
	OpSplits:    0,
	OpValidate:  0,
	OpCorrect:   0,
	OpParse:     0,
	OpInflect:   3,
	OpConjugate: 3,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, "")
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving a relative rules directory against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Rules != "" && !filepath.IsAbs(scenario.Rules) && basePath != "" {
		scenario.Rules = filepath.Join(basePath, scenario.Rules)
	}
	return scenario, nil
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 && len(s.Assertions) == 0 {
		return fmt.Errorf("at least one step or assertion is required")
	}

	for i, step := range s.Steps {
		want, ok := opArgs[step.Op]
		if !ok {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if len(step.Args) != want {
			return fmt.Errorf("steps[%d]: %s takes %d args, got %d", i, step.Op, want, len(step.Args))
		}
		if want > 0 && step.Input != "" {
			return fmt.Errorf("steps[%d]: %s takes args, not input", i, step.Op)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertRoundTrip:
		if len(a.Args) != 2 {
			return fmt.Errorf("assertions[%d]: round_trip requires args [first, second]", index)
		}
	case AssertCorrectIdempotent, AssertWordCount:
		if a.Input == "" {
			return fmt.Errorf("assertions[%d]: input is required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
