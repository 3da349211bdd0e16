package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/vyakarana/internal/evaluator"
	"github.com/roach88/vyakarana/internal/ir"
)

// Error codes for failed grammar checks.
const (
	ErrCodeInvalidSentence = "E_INVALID_SENTENCE"
	ErrCodeLowCompliance   = "E_LOW_COMPLIANCE"
)

// SentenceResult is the data payload of the validate command.
type SentenceResult struct {
	Sentence string `json:"sentence"`
	Valid    bool   `json:"valid"`
}

// CorrectResult is the data payload of the correct command.
type CorrectResult struct {
	Sentence  string `json:"sentence"`
	Corrected string `json:"corrected"`
}

// ParseResult is the data payload of the parse command.
type ParseResult struct {
	ir.SentenceAnalysis
	Tags []string `json:"tags"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <sentence>",
		Short: "Check a sentence against the word-order heuristic",
		Long: `Check that a sentence ends in a verb and that some earlier word
carries a subject marker (ḥ or m). Phrases of one or two words only need
one word with a recognized ending.

Exit codes:
  0 - Sentence is valid
  1 - Sentence is not valid
  2 - Command error`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, eng, err := rootOpts.engines(cmd)
			if err != nil {
				return err
			}
			result := SentenceResult{Sentence: args[0], Valid: eng.Validate(args[0])}
			formatter := rootOpts.formatter(cmd)

			if result.Valid {
				if formatter.Format == "json" {
					return formatter.Success(result)
				}
				fmt.Fprintln(formatter.Writer, "✓ valid")
				return nil
			}

			if formatter.Format == "json" {
				if err := formatter.Failure(ErrCodeInvalidSentence, "sentence is not valid", result); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(formatter.Writer, "✗ not valid")
				formatter.VerboseLog("suggested: %s", eng.Correct(args[0]))
			}
			return NewExitError(ExitFailure, "sentence is not valid")
		},
	}
}

// NewCorrectCommand creates the correct command.
func NewCorrectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "correct <sentence>",
		Short:         "Move the verb last and mark subjects",
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, eng, err := rootOpts.engines(cmd)
			if err != nil {
				return err
			}
			result := CorrectResult{Sentence: args[0], Corrected: eng.Correct(args[0])}

			formatter := rootOpts.formatter(cmd)
			if formatter.Format == "json" {
				return formatter.Success(result)
			}
			fmt.Fprintln(formatter.Writer, result.Corrected)
			return nil
		},
	}
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "parse <sentence>",
		Short:         "Classify every word of a sentence",
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, eng, err := rootOpts.engines(cmd)
			if err != nil {
				return err
			}
			analysis := eng.ParseSentence(args[0])
			result := ParseResult{SentenceAnalysis: analysis, Tags: analysis.Tags()}

			formatter := rootOpts.formatter(cmd)
			if formatter.Format == "json" {
				return formatter.Success(result)
			}
			for i, word := range result.Words {
				fmt.Fprintf(formatter.Writer, "%s\t%s\n", word.Text, result.Tags[i])
			}
			return nil
		},
	}
}

// NewEvaluateCommand creates the evaluate command.
func NewEvaluateCommand(rootOpts *RootOptions) *cobra.Command {
	var minCompliance float64

	cmd := &cobra.Command{
		Use:   "evaluate <file|->",
		Short: "Score syntax compliance of one sentence per line",
		Long: `Validate every non-blank line of a file (or stdin with "-") and report
the share of valid sentences with a correction for each invalid one.

Exit codes:
  0 - Compliance is at least --min-compliance
  1 - Compliance is below --min-compliance
  2 - Command error`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			texts, err := readLines(args[0], cmd.InOrStdin())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read input", err)
			}
			_, eng, err := rootOpts.engines(cmd)
			if err != nil {
				return err
			}
			report := evaluator.New(eng).EvaluateSyntax(texts)

			formatter := rootOpts.formatter(cmd)
			failed := report.Compliance < minCompliance
			if formatter.Format == "json" {
				if !failed {
					return formatter.Success(report)
				}
				if err := formatter.Failure(ErrCodeLowCompliance, complianceMessage(report, minCompliance), report); err != nil {
					return err
				}
				return NewExitError(ExitFailure, complianceMessage(report, minCompliance))
			}

			w := formatter.Writer
			fmt.Fprintf(w, "%d/%d valid (syntax compliance %.2f)\n", report.Valid, report.Total, report.Compliance)
			for _, c := range report.Corrections {
				fmt.Fprintf(w, "  %s\n    → %s\n", c.Text, c.Corrected)
			}
			if failed {
				return NewExitError(ExitFailure, complianceMessage(report, minCompliance))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&minCompliance, "min-compliance", 0, "fail when compliance is below this value")

	return cmd
}

func complianceMessage(report evaluator.SyntaxReport, threshold float64) string {
	return fmt.Sprintf("syntax compliance %.2f below %.2f", report.Compliance, threshold)
}

// readLines returns the non-blank lines of path, or of stdin when path is "-".
func readLines(path string, stdin io.Reader) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
