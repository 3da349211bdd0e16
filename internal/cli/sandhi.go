package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/vyakarana/internal/sandhi"
	"github.com/roach88/vyakarana/internal/tokenizer"
)

// ApplyResult is the data payload of the apply command.
type ApplyResult struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Result string `json:"result"`
}

// ReverseResult is the data payload of the reverse command.
type ReverseResult struct {
	Text     string   `json:"text"`
	Segments []string `json:"segments"`
}

// SplitsResult is the data payload of the splits command.
type SplitsResult struct {
	Text   string              `json:"text"`
	Splits []sandhi.SplitPoint `json:"splits"`
}

// TokenizeResult is the data payload of the tokenize command.
type TokenizeResult struct {
	Text     string     `json:"text"`
	Tokens   []string   `json:"tokens"`
	Phonemes [][]string `json:"phonemes,omitempty"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <first> <second>",
		Short: "Join two words with sandhi",
		Long: `Join two words, rewriting the boundary with the first matching
vowel, visarga or consonant rule.

Example:
  vyakarana apply rama iva        # rameva`,
		Args:          exactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, _, err := rootOpts.engines(cmd)
			if err != nil {
				return err
			}
			result := ApplyResult{First: args[0], Second: args[1], Result: proc.Apply(args[0], args[1])}

			formatter := rootOpts.formatter(cmd)
			if formatter.Format == "json" {
				return formatter.Success(result)
			}
			fmt.Fprintln(formatter.Writer, result.Result)
			return nil
		},
	}
}

// NewReverseCommand creates the reverse command.
func NewReverseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reverse <text>",
		Short: "Segment text at sandhi boundaries",
		Long: `Segment text with the greedy boundary scan. The segments always
concatenate back to the input.

Example:
  vyakarana reverse rameva        # rame + va`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, _, err := rootOpts.engines(cmd)
			if err != nil {
				return err
			}
			result := ReverseResult{Text: args[0], Segments: proc.Reverse(args[0])}

			formatter := rootOpts.formatter(cmd)
			if formatter.Format == "json" {
				return formatter.Success(result)
			}
			fmt.Fprintln(formatter.Writer, strings.Join(result.Segments, " + "))
			return nil
		},
	}
}

// NewSplitsCommand creates the splits command.
func NewSplitsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "splits <text>",
		Short: "List every candidate sandhi split",
		Long: `List every interior position where a registered result pattern
ends, with each (first, second) pair that would produce it.`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, _, err := rootOpts.engines(cmd)
			if err != nil {
				return err
			}
			splits := proc.IdentifySplits(args[0])
			if splits == nil {
				splits = []sandhi.SplitPoint{}
			}
			result := SplitsResult{Text: args[0], Splits: splits}

			formatter := rootOpts.formatter(cmd)
			if formatter.Format == "json" {
				return formatter.Success(result)
			}
			outputSplitsText(formatter, result)
			return nil
		},
	}
}

func outputSplitsText(formatter *OutputFormatter, result SplitsResult) {
	w := formatter.Writer
	if len(result.Splits) == 0 {
		fmt.Fprintf(w, "No split points in %q\n", result.Text)
		return
	}
	for _, point := range result.Splits {
		fmt.Fprintf(w, "position %d:\n", point.Position)
		for _, c := range point.Candidates {
			fmt.Fprintf(w, "  %s + %s  (%s, %s)\n", c.First, c.Second, c.Pattern, c.Category)
		}
	}
}

// NewTokenizeCommand creates the tokenize command.
func NewTokenizeCommand(rootOpts *RootOptions) *cobra.Command {
	var phonemes bool

	cmd := &cobra.Command{
		Use:   "tokenize <text>",
		Short: "Split text into sandhi segments",
		Long: `Normalize text to NFC, split it on whitespace and segment each word.
With --phonemes every token is also broken into IAST phoneme units.`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, _, err := rootOpts.engines(cmd)
			if err != nil {
				return err
			}
			adapter := tokenizer.NewAdapter(proc)
			result := TokenizeResult{Text: args[0], Tokens: adapter.Tokenize(args[0])}
			if result.Tokens == nil {
				result.Tokens = []string{}
			}
			if phonemes {
				for _, tok := range result.Tokens {
					result.Phonemes = append(result.Phonemes, adapter.Phonemes(tok))
				}
			}

			formatter := rootOpts.formatter(cmd)
			if formatter.Format == "json" {
				return formatter.Success(result)
			}
			if !phonemes {
				fmt.Fprintln(formatter.Writer, strings.Join(result.Tokens, " "))
				return nil
			}
			for i, tok := range result.Tokens {
				fmt.Fprintf(formatter.Writer, "%s\t%s\n", tok, strings.Join(result.Phonemes[i], " "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&phonemes, "phonemes", false, "also split each token into phonemes")

	return cmd
}
