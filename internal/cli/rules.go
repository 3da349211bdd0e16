package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/vyakarana/internal/compiler"
	"github.com/roach88/vyakarana/internal/ir"
	"github.com/roach88/vyakarana/internal/rules"
)

// ValidationResult holds rule check results.
type ValidationResult struct {
	Valid            bool                       `json:"valid"`
	SandhiRules      int                        `json:"sandhi_rules,omitempty"`
	CaseEndings      int                        `json:"case_endings,omitempty"`
	VerbConjugations int                        `json:"verb_conjugations,omitempty"`
	Fingerprint      string                     `json:"fingerprint,omitempty"`
	Errors           []compiler.ValidationError `json:"errors,omitempty"`
}

// NewRulesCommand creates the rules command group.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and check rule tables",
	}

	cmd.AddCommand(newRulesCheckCommand(rootOpts))
	cmd.AddCommand(newRulesDumpCommand(rootOpts))

	return cmd
}

func newRulesCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <rules-dir>",
		Short: "Validate a CUE rule directory",
		Long: `Compile a CUE rule directory and report every validation error.

Exit codes:
  0 - Rules are valid
  1 - Rules compiled but failed validation
  2 - Rules could not be loaded or compiled`,
		Args:          exactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRulesCheck(rootOpts, args[0], cmd)
		},
	}
}

func runRulesCheck(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if files, err := rules.FindCUEFiles(dir); err == nil {
		formatter.VerboseLog("Found %d CUE file(s) in %s", len(files), dir)
	}

	set, err := rules.LoadSetDir(dir)
	if err != nil {
		var loadErr *rules.LoadError
		if errors.As(err, &loadErr) {
			return outputCheckError(formatter, loadErr.Code, loadErr.Error())
		}
		return outputCheckError(formatter, rules.ErrCodeGeneric, err.Error())
	}

	if errs := compiler.Validate(set); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	table, err := compiler.Build(set)
	if err != nil {
		return outputCheckError(formatter, rules.ErrCodeInvalid, err.Error())
	}

	result := ValidationResult{
		Valid:            true,
		SandhiRules:      len(set.Sandhi),
		CaseEndings:      len(set.CaseEndings),
		VerbConjugations: len(set.VerbConjugations),
		Fingerprint:      table.Fingerprint(),
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Rules valid (%d sandhi, %d case endings, %d conjugations)\n",
		result.SandhiRules, result.CaseEndings, result.VerbConjugations)
	formatter.VerboseLog("fingerprint %s", result.Fingerprint)
	return nil
}

// outputCheckError outputs a load failure.
func outputCheckError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Load failures are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, message)
}

// outputValidationErrors outputs every validation error.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	message := fmt.Sprintf("validation failed with %d error(s)", len(errs))

	if formatter.Format == "json" {
		result := ValidationResult{Valid: false, Errors: errs}
		if err := formatter.Failure(errs[0].Code, errs[0].Message, result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, message)
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s %s: %s\n", err.Code, err.Field, err.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, message)
}

func newRulesDumpCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the active rule table",
		Long: `Print the rule table selected by --rules or the config file, or the
built-in table. Sandhi rules are listed in scan order.`,
		Args:          exactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := rootOpts.ruleTable()
			if err != nil {
				return err
			}
			formatter := rootOpts.formatter(cmd)
			if formatter.Format == "json" {
				return formatter.Success(table.Set())
			}
			outputTableText(formatter, table)
			return nil
		},
	}
}

func outputTableText(formatter *OutputFormatter, table *ir.RuleTable) {
	w := formatter.Writer

	fmt.Fprintln(w, "sandhi:")
	for _, r := range table.SandhiRules() {
		fmt.Fprintf(w, "  %-10s %-4s %4d ", r.Category, r.Pattern, r.Priority)
		for i, s := range r.Splits {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprintf(w, "%s+%s", s.First, s.Second)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "word endings: %v (lookback %d)\n", table.WordEndings(), table.Lookback())

	fmt.Fprintln(w, "grammar:")
	for _, r := range table.GrammarRules() {
		fmt.Fprintf(w, "  %-16s %s/%s  -%s +%s\n", r.Kind, r.Class, r.Label, r.Pattern, r.Replacement)
	}

	fmt.Fprintln(w, "meta:")
	for _, m := range table.MetaRules() {
		fmt.Fprintf(w, "  %s %d\n", m.Name, m.Priority)
	}

	fmt.Fprintf(w, "fingerprint: %s\n", table.Fingerprint())
}
