package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/vyakarana/internal/grammar"
	"github.com/roach88/vyakarana/internal/ir"
	"github.com/roach88/vyakarana/internal/sandhi"
	"github.com/roach88/vyakarana/internal/testutil"
)

// Harness executes scenario steps, numbering each one in the trace.
type Harness struct {
	sandhi  *sandhi.Processor
	grammar *grammar.Engine
	steps   *testutil.StepCounter
	logger  *slog.Logger
}

// Run executes a scenario against proc and eng and returns the result.
//
// Expect mismatches and failed assertions are reported in the Result.
// An error is returned for a malformed step or an output that cannot be
// encoded.
func Run(scenario *Scenario, proc *sandhi.Processor, eng *grammar.Engine) (*Result, error) {
	if proc == nil || eng == nil {
		return nil, fmt.Errorf("harness requires a sandhi processor and a grammar engine")
	}

	h := &Harness{
		sandhi:  proc,
		grammar: eng,
		steps:   testutil.NewStepCounter(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	result := NewResult()
	if err := h.executeSteps(scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	for _, errMsg := range EvaluateAssertions(scenario.Assertions, proc, eng) {
		result.AddError(errMsg)
	}

	return result, nil
}

// RunWithTable builds a processor and an engine over table and runs the
// scenario.
func RunWithTable(scenario *Scenario, table *ir.RuleTable) (*Result, error) {
	proc, err := sandhi.New(table)
	if err != nil {
		return nil, err
	}
	eng, err := grammar.New(table)
	if err != nil {
		return nil, err
	}
	return Run(scenario, proc, eng)
}

func (h *Harness) executeSteps(steps []Step, result *Result) error {
	for i, step := range steps {
		if want, ok := opArgs[step.Op]; !ok || len(step.Args) != want {
			return fmt.Errorf("step %d: malformed %q step", i, step.Op)
		}
		input, output := h.execute(step)

		seq := h.steps.Next()
		result.AddTrace(seq, step.Op, input, output)

		got, err := ir.MarshalCanonical(output)
		if err != nil {
			return fmt.Errorf("step %d (%s): encoding output: %w", i, step.Op, err)
		}

		h.logger.Debug("step executed", "step", i, "op", step.Op, "seq", seq, "output", string(got))

		if step.Expect == nil {
			continue
		}
		want, err := ir.MarshalCanonical(step.Expect)
		if err != nil {
			result.AddError(fmt.Sprintf("steps[%d] (%s): invalid expect: %v", i, step.Op, err))
			continue
		}
		if string(want) != string(got) {
			result.AddError(fmt.Sprintf("steps[%d] (%s %v): expected %s, got %s", i, step.Op, input, want, got))
		}
	}
	return nil
}

// execute runs one step and returns its recorded input and its output in
// canonical-JSON-ready form.
func (h *Harness) execute(step Step) ([]string, any) {
	input := step.Args
	if len(input) == 0 {
		input = []string{step.Input}
	}

	switch step.Op {
	case OpApply:
		return input, h.sandhi.Apply(step.Args[0], step.Args[1])
	case OpReverse:
		return input, toAnyList(h.sandhi.Reverse(step.Input))
	case OpSplits:
		return input, splitsToCanonical(h.sandhi.IdentifySplits(step.Input))
	case OpValidate:
		return input, h.grammar.Validate(step.Input)
	case OpCorrect:
		return input, h.grammar.Correct(step.Input)
	case OpInflect:
		form, _ := h.grammar.Inflect(step.Args[0], step.Args[1], step.Args[2])
		return input, form
	case OpConjugate:
		form, _ := h.grammar.Conjugate(step.Args[0], step.Args[1], step.Args[2])
		return input, form
	default: // OpParse
		return input, toAnyList(h.grammar.ParseSentence(step.Input).Tags())
	}
}

func toAnyList(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

func splitsToCanonical(points []sandhi.SplitPoint) []any {
	out := make([]any, len(points))
	for i, p := range points {
		candidates := make([]any, len(p.Candidates))
		for j, c := range p.Candidates {
			candidates[j] = map[string]any{
				"first":    c.First,
				"second":   c.Second,
				"pattern":  c.Pattern,
				"category": string(c.Category),
			}
		}
		out[i] = map[string]any{
			"position":   p.Position,
			"candidates": candidates,
		}
	}
	return out
}
