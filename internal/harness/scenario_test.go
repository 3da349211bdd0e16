package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: test_scenario
description: "Test scenario for validation"
steps:
  - op: apply
    args: [rama, iva]
    expect: rameva
  - op: validate
    input: "rāmaḥ vanam gacchati"
    expect: true
assertions:
  - type: round_trip
    args: [deva, atra]
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	require.Len(t, scenario.Steps, 2)
	assert.Equal(t, []string{"rama", "iva"}, scenario.Steps[0].Args)
	assert.Equal(t, "rameva", scenario.Steps[0].Expect)
	assert.Equal(t, true, scenario.Steps[1].Expect)
	assert.Equal(t, []Assertion{{Type: AssertRoundTrip, Args: []string{"deva", "atra"}}}, scenario.Assertions)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "Misspelled field"
steps:
  - op: reverse
    input: rameva
assertion:
  - type: word_count
    input: a
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "description: x\nsteps:\n  - op: reverse\n    input: a\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: "name: x\nsteps:\n  - op: reverse\n    input: a\n",
			wantErr: "description is required",
		},
		{
			name:    "nothing to do",
			content: "name: x\ndescription: x\n",
			wantErr: "at least one step or assertion",
		},
		{
			name:    "unknown op",
			content: "name: x\ndescription: x\nsteps:\n  - op: translate\n    input: a\n",
			wantErr: `unknown op "translate"`,
		},
		{
			name:    "wrong arity",
			content: "name: x\ndescription: x\nsteps:\n  - op: apply\n    args: [a]\n",
			wantErr: "apply takes 2 args, got 1",
		},
		{
			name:    "args op with input",
			content: "name: x\ndescription: x\nsteps:\n  - op: apply\n    args: [a, b]\n    input: ab\n",
			wantErr: "takes args, not input",
		},
		{
			name:    "round trip without args",
			content: "name: x\ndescription: x\nassertions:\n  - type: round_trip\n",
			wantErr: "round_trip requires args",
		},
		{
			name:    "word count without input",
			content: "name: x\ndescription: x\nassertions:\n  - type: word_count\n",
			wantErr: "input is required for word_count",
		},
		{
			name:    "unknown assertion",
			content: "name: x\ndescription: x\nassertions:\n  - type: trace_order\n",
			wantErr: `unknown assertion type "trace_order"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenarioWithBasePath(t *testing.T) {
	path := writeScenario(t, `
name: custom_rules
description: "Relative rules directory"
rules: rules/minimal
steps:
  - op: reverse
    input: a
`)

	scenario, err := LoadScenarioWithBasePath(path, "/srv/vyakarana")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/vyakarana", "rules/minimal"), scenario.Rules)

	scenario, err = LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "rules/minimal", scenario.Rules)
}
