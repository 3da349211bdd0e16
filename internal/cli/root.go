package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/vyakarana/internal/config"
	"github.com/roach88/vyakarana/internal/grammar"
	"github.com/roach88/vyakarana/internal/ir"
	"github.com/roach88/vyakarana/internal/rules"
	"github.com/roach88/vyakarana/internal/sandhi"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Rules   string // CUE rule directory; overrides the config file
	Config  string // config file path

	// IDs generates trace ids for JSON responses. If nil, UUIDv7Generator
	// is used.
	IDs IDGenerator

	cfg *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the vyakarana CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "vyakarana",
		Short: "Sanskrit sandhi processor and grammar checker",
		Long: `Join and split Sanskrit words by sandhi rules and check sentences
against a rule-based grammar. Rule tables are written in CUE.`,
		Version:       ir.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if err := config.LoadDotEnv(); err != nil {
				return WrapExitError(ExitCommandError, "failed to load .env", err)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Rules, "rules", "", "CUE rule directory (default: built-in rules)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file (default: "+config.DefaultPath+")")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	// Add subcommands
	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewReverseCommand(opts))
	cmd.AddCommand(NewSplitsCommand(opts))
	cmd.AddCommand(NewTokenizeCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewCorrectCommand(opts))
	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewEvaluateCommand(opts))
	cmd.AddCommand(NewRulesCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// exactArgs is cobra.ExactArgs reported as a command error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, "invalid arguments", err)
		}
		return nil
	}
}

// settings loads the config file once and applies the --rules flag.
func (o *RootOptions) settings() (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}
	cfg, err := config.Load(o.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.Rules != "" {
		cfg.Rules = o.Rules
	}
	o.cfg = cfg
	return cfg, nil
}

// ruleTable loads the configured rule directory, or the built-in table.
func (o *RootOptions) ruleTable() (*ir.RuleTable, error) {
	cfg, err := o.settings()
	if err != nil {
		return nil, err
	}
	table, err := rules.Load(cfg.Rules)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load rules", err)
	}
	return table, nil
}

// logger returns a text logger on w at the configured level, or Debug
// with --verbose.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if cfg, err := o.settings(); err == nil {
		if l, err := cfg.SlogLevel(); err == nil {
			level = l
		}
	}
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// engines builds the sandhi processor and the grammar engine over the
// configured rule table.
func (o *RootOptions) engines(cmd *cobra.Command) (*sandhi.Processor, *grammar.Engine, error) {
	table, err := o.ruleTable()
	if err != nil {
		return nil, nil, err
	}
	logger := o.logger(cmd.ErrOrStderr())
	proc, err := sandhi.New(table, sandhi.WithLogger(logger))
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to build sandhi processor", err)
	}
	eng, err := grammar.New(table, grammar.WithLogger(logger))
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to build grammar engine", err)
	}
	return proc, eng, nil
}

// traceID returns a fresh trace id for one response.
func (o *RootOptions) traceID() string {
	if o.IDs == nil {
		return UUIDv7Generator{}.Generate()
	}
	return o.IDs.Generate()
}

// formatter returns an OutputFormatter for cmd with a fresh trace id.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
		TraceID:   o.traceID(),
	}
}
