package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/vyakarana/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// General (E100)
	ErrEmptyRuleSet = "E100" // no rule set supplied

	// Sandhi rule errors (E101-E109)
	ErrEmptyPattern     = "E101" // result pattern is required
	ErrNoSplits         = "E102" // at least one candidate split required
	ErrIdentitySplit    = "E103" // split concatenates to its own pattern
	ErrUnknownCategory  = "E104" // category must be vowel, visarga or consonant
	ErrDuplicatePattern = "E105" // pattern declared twice in one category
	ErrEmptySplit       = "E106" // split with both parts empty

	// Case-ending errors (E110-E112)
	ErrCaseEndingKey         = "E110" // gender and case label required
	ErrCaseEndingReplacement = "E111" // replacement required
	ErrDuplicateCaseEnding   = "E112" // (gender, case) declared twice

	// Verb-conjugation errors (E113-E115)
	ErrConjugationKey         = "E113" // tense and person-number required
	ErrConjugationReplacement = "E114" // replacement required
	ErrDuplicateConjugation   = "E115" // (tense, person-number) declared twice

	// Meta rule errors (E120-E121)
	ErrMetaRuleName      = "E120" // name required
	ErrDuplicateMetaRule = "E121" // name declared twice

	// Segmentation settings (E130-E131)
	ErrEmptyWordEnding = "E130" // word-ending marker must be non-empty
	ErrLookback        = "E131" // lookback window must be at least 1
)

// ValidationError represents a rule-table validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a RuleSet for configuration errors.
// Returns all errors found (does not fail-fast).
func Validate(set *ir.RuleSet) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateSandhi(set.Sandhi)...)
	errs = append(errs, validateGrammarRules("case_endings", set.CaseEndings,
		ErrCaseEndingKey, ErrCaseEndingReplacement, ErrDuplicateCaseEnding, "gender", "case")...)
	errs = append(errs, validateGrammarRules("verb_conjugations", set.VerbConjugations,
		ErrConjugationKey, ErrConjugationReplacement, ErrDuplicateConjugation, "tense", "person-number")...)
	errs = append(errs, validateMetaRules(set.MetaRules)...)

	for i, ending := range set.WordEndings {
		if ending == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("word_endings[%d]", i),
				Message: "word-ending marker must be non-empty",
				Code:    ErrEmptyWordEnding,
			})
		}
	}

	if set.Lookback < 1 {
		errs = append(errs, ValidationError{
			Field:   "lookback",
			Message: fmt.Sprintf("lookback window must be at least 1, got %d", set.Lookback),
			Code:    ErrLookback,
		})
	}

	return errs
}

func validateSandhi(rules []ir.SandhiRule) []ValidationError {
	var errs []ValidationError

	// Track patterns per category for duplicate detection
	seen := make(map[ir.Category]map[string]bool)

	for i, rule := range rules {
		field := fmt.Sprintf("sandhi[%d]", i)

		// E104: known category
		if !rule.Category.Valid() {
			errs = append(errs, ValidationError{
				Field:   field + ".category",
				Message: fmt.Sprintf("unknown category %q, must be \"vowel\", \"visarga\" or \"consonant\"", rule.Category),
				Code:    ErrUnknownCategory,
			})
		}

		// E101: pattern required
		if rule.Pattern == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".pattern",
				Message: "result pattern is required and must be non-empty",
				Code:    ErrEmptyPattern,
			})
		} else {
			// E105: duplicate pattern within category
			if seen[rule.Category] == nil {
				seen[rule.Category] = make(map[string]bool)
			}
			if seen[rule.Category][rule.Pattern] {
				errs = append(errs, ValidationError{
					Field:   field + ".pattern",
					Message: fmt.Sprintf("duplicate %s pattern %q", rule.Category, rule.Pattern),
					Code:    ErrDuplicatePattern,
				})
			}
			seen[rule.Category][rule.Pattern] = true
		}

		// E102: at least one split
		if len(rule.Splits) == 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".splits",
				Message: fmt.Sprintf("pattern %q must have at least one candidate split", rule.Pattern),
				Code:    ErrNoSplits,
			})
		}

		for j, split := range rule.Splits {
			splitField := fmt.Sprintf("%s.splits[%d]", field, j)

			// E106: both parts empty
			if split.First == "" && split.Second == "" {
				errs = append(errs, ValidationError{
					Field:   splitField,
					Message: "split must have a non-empty first or second part",
					Code:    ErrEmptySplit,
				})
				continue
			}

			// E103: a rule encodes a contraction, never an identity
			if split.First+split.Second == rule.Pattern {
				errs = append(errs, ValidationError{
					Field:   splitField,
					Message: fmt.Sprintf("split (%q, %q) concatenates to its own pattern %q", split.First, split.Second, rule.Pattern),
					Code:    ErrIdentitySplit,
				})
			}
		}
	}

	return errs
}

func validateGrammarRules(name string, rules []ir.GrammarRule, keyCode, replacementCode, duplicateCode, className, labelName string) []ValidationError {
	var errs []ValidationError
	seen := make(map[[2]string]bool)

	for i, rule := range rules {
		field := fmt.Sprintf("%s[%d]", name, i)

		if strings.TrimSpace(rule.Class) == "" || strings.TrimSpace(rule.Label) == "" {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%s and %s are required", className, labelName),
				Code:    keyCode,
			})
			continue
		}

		key := [2]string{rule.Class, rule.Label}
		if seen[key] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate rule for (%s, %s)", rule.Class, rule.Label),
				Code:    duplicateCode,
			})
		}
		seen[key] = true

		if rule.Replacement == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".replacement",
				Message: fmt.Sprintf("rule (%s, %s) is missing its replacement", rule.Class, rule.Label),
				Code:    replacementCode,
			})
		}
	}

	return errs
}

func validateMetaRules(rules []ir.MetaRule) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)

	for i, rule := range rules {
		field := fmt.Sprintf("meta_rules[%d]", i)
		if strings.TrimSpace(rule.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: "meta rule name is required",
				Code:    ErrMetaRuleName,
			})
			continue
		}
		if seen[rule.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate meta rule %q", rule.Name),
				Code:    ErrDuplicateMetaRule,
			})
		}
		seen[rule.Name] = true
	}

	return errs
}

// Build validates set and, if it is clean, returns the immutable table.
// Any validation error yields a *ConfigError and no table.
func Build(set *ir.RuleSet) (*ir.RuleTable, error) {
	if set == nil {
		return nil, &ConfigError{Errors: []ValidationError{{
			Field:   "rules",
			Message: "rule set is nil",
			Code:    ErrEmptyRuleSet,
		}}}
	}
	if errs := Validate(set); len(errs) > 0 {
		return nil, &ConfigError{Errors: errs}
	}
	return ir.NewRuleTable(*set), nil
}
