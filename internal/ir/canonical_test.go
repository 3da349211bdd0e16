package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int64", int64(-100), "-100"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"string slice", []string{"rame", "va"}, `["rame","va"]`},
		{"iast", "rāmaḥ", `"rāmaḥ"`},
		{"quote and backslash", `a"b\c`, `"a\"b\\c"`},
		{"control", "a\x01b", `"a\u0001b"`},
		{"html not escaped", "<&>", `"<&>"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := map[string]any{
		"zebra": 1,
		"alpha": 2,
		"beta":  map[string]any{"y": "1", "x": "2"},
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":{"x":"2","y":"1"},"zebra":1}`, string(result))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "ā" as a + combining macron must serialize like precomposed U+0101.
	decomposed, err := MarshalCanonical("a\u0304")
	require.NoError(t, err)
	precomposed, err := MarshalCanonical("ā")
	require.NoError(t, err)
	assert.Equal(t, string(precomposed), string(decomposed))
}

func TestMarshalCanonicalRejects(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical(1.5)
	assert.Error(t, err)

	_, err = MarshalCanonical([]any{"ok", nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "array[1]")

	_, err = MarshalCanonical(struct{}{})
	assert.Error(t, err)
}
