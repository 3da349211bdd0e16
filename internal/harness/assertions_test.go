package harness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vyakarana/internal/grammar"
	"github.com/roach88/vyakarana/internal/rules"
	"github.com/roach88/vyakarana/internal/sandhi"
)

func engines(t *testing.T) (*sandhi.Processor, *grammar.Engine) {
	t.Helper()
	proc, err := sandhi.New(rules.Default())
	require.NoError(t, err)
	eng, err := grammar.New(rules.Default())
	require.NoError(t, err)
	return proc, eng
}

func TestAssertRoundTrip(t *testing.T) {
	proc, _ := engines(t)

	assert.NoError(t, assertRoundTrip(proc, "rama", "iva"))
	assert.NoError(t, assertRoundTrip(proc, "rāmaḥ", "ca"))

	err := assertRoundTrip(proc, "vāk", "atra")
	require.Error(t, err)

	var assertErr *AssertionError
	require.True(t, errors.As(err, &assertErr))
	assert.Equal(t, AssertRoundTrip, assertErr.Type)
	assert.Equal(t, "reverse gave [vākatra]", assertErr.Actual)
}

func TestAssertRoundTripViaReverse(t *testing.T) {
	proc, _ := engines(t)

	// rame + va joins without a rule and Reverse cuts it back apart.
	assert.NoError(t, assertRoundTrip(proc, "rame", "va"))
}

func TestAssertCorrectIdempotent(t *testing.T) {
	_, eng := engines(t)

	for _, s := range []string{"rāma gacchati vana", "gacchati", "", "a b c"} {
		assert.NoError(t, assertCorrectIdempotent(eng, s), s)
	}
}

func TestAssertWordCount(t *testing.T) {
	_, eng := engines(t)

	assert.NoError(t, assertWordCount(eng, "devāḥ yajñam rakṣanti"))
	assert.NoError(t, assertWordCount(eng, "\trāmaḥ\n"))
}

func TestEvaluateAssertions_UnknownType(t *testing.T) {
	proc, eng := engines(t)

	errs := EvaluateAssertions([]Assertion{
		{Type: "final_state"},
		{Type: AssertRoundTrip, Args: []string{"only-one"}},
	}, proc, eng)

	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], `unknown assertion type "final_state"`)
	assert.Contains(t, errs[1], "round_trip requires two args")
}

func TestAssertionErrorFormat(t *testing.T) {
	err := &AssertionError{Type: AssertWordCount, Subject: "a b", Expected: "2 analyses", Actual: "1 analyses"}
	assert.Equal(t, "Assertion failed: word_count (a b)\n  Expected: 2 analyses\n  Actual: 1 analyses", err.Error())
}
