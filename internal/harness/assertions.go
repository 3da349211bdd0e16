package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/vyakarana/internal/grammar"
	"github.com/roach88/vyakarana/internal/sandhi"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Subject  string // What was checked
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s (%s)\n", e.Type, e.Subject)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// assertRoundTrip joins first and second and checks that the split is
// recovered: either Reverse emits them as adjacent segments or
// IdentifySplits lists them as a candidate.
func assertRoundTrip(proc *sandhi.Processor, first, second string) error {
	combined := proc.Apply(first, second)

	segments := proc.Reverse(combined)
	for i := 0; i+1 < len(segments); i++ {
		if segments[i] == first && segments[i+1] == second {
			return nil
		}
	}

	for _, point := range proc.IdentifySplits(combined) {
		for _, c := range point.Candidates {
			if c.First == first && c.Second == second {
				return nil
			}
		}
	}

	return &AssertionError{
		Type:     AssertRoundTrip,
		Subject:  fmt.Sprintf("%s + %s = %s", first, second, combined),
		Expected: fmt.Sprintf("(%s, %s) recovered by reverse or listed by splits", first, second),
		Actual:   fmt.Sprintf("reverse gave %v", segments),
	}
}

// assertCorrectIdempotent checks that one correction pass is a fixed point.
func assertCorrectIdempotent(eng *grammar.Engine, sentence string) error {
	once := eng.Correct(sentence)
	twice := eng.Correct(once)
	if once == twice {
		return nil
	}
	return &AssertionError{
		Type:     AssertCorrectIdempotent,
		Subject:  sentence,
		Expected: once,
		Actual:   twice,
	}
}

// assertWordCount checks that every word gets exactly one analysis.
func assertWordCount(eng *grammar.Engine, sentence string) error {
	want := len(strings.Fields(sentence))
	got := len(eng.ParseSentence(sentence).Words)
	if want == got {
		return nil
	}
	return &AssertionError{
		Type:     AssertWordCount,
		Subject:  sentence,
		Expected: fmt.Sprintf("%d analyses", want),
		Actual:   fmt.Sprintf("%d analyses", got),
	}
}

// EvaluateAssertions evaluates all assertions.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(assertions []Assertion, proc *sandhi.Processor, eng *grammar.Engine) []string {
	var errors []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertRoundTrip:
			if len(a.Args) != 2 {
				err = fmt.Errorf("assertion[%d]: round_trip requires two args", i)
			} else {
				err = assertRoundTrip(proc, a.Args[0], a.Args[1])
			}
		case AssertCorrectIdempotent:
			err = assertCorrectIdempotent(eng, a.Input)
		case AssertWordCount:
			err = assertWordCount(eng, a.Input)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
