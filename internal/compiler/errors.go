package compiler

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileError is a structural error in the CUE rule source: a value of the
// wrong kind, an unreadable list, and so on. Semantic problems are reported
// by Validate instead.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigError aggregates every ValidationError found in a RuleSet.
// A ConfigError means no engine may be constructed from the set.
type ConfigError struct {
	Errors []ValidationError
}

func (e *ConfigError) Error() string {
	if len(e.Errors) == 0 {
		return "invalid rule table"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("invalid rule table: %s", e.Errors[0].Error())
	}
	return fmt.Sprintf("invalid rule table: %s (and %d more)", e.Errors[0].Error(), len(e.Errors)-1)
}

// Unwrap exposes the individual validation errors to errors.As.
func (e *ConfigError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, ve := range e.Errors {
		out[i] = ve
	}
	return out
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(field string, err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Field: field, Message: err.Error()}
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   field,
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return &CompileError{Field: field, Message: firstErr.Error()}
}
