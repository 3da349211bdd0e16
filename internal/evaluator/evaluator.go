// Package evaluator scores generated text against the grammar engine's
// word-order heuristic.
package evaluator

import "strings"

// Checker validates and corrects sentences. *grammar.Engine satisfies it.
type Checker interface {
	Validate(sentence string) bool
	Correct(sentence string) string
}

// Correction pairs an invalid text with its corrected form.
type Correction struct {
	Text      string `json:"text"`
	Corrected string `json:"corrected"`
}

// SyntaxReport summarizes a batch of texts.
//
// Compliance is Valid/Total, or 0 for an empty batch or when no checker
// is configured.
type SyntaxReport struct {
	Total       int          `json:"total"`
	Valid       int          `json:"valid"`
	Compliance  float64      `json:"syntax_compliance"`
	Corrections []Correction `json:"corrections,omitempty"`
}

// Evaluator scores text with an optional Checker.
type Evaluator struct {
	checker Checker
}

// New returns an Evaluator. A nil checker yields zero compliance for
// every batch.
func New(checker Checker) *Evaluator {
	return &Evaluator{checker: checker}
}

// EvaluateSyntax validates every text and records a correction for each
// invalid one. Blank texts count toward Total and are never valid.
func (e *Evaluator) EvaluateSyntax(texts []string) SyntaxReport {
	report := SyntaxReport{Total: len(texts)}
	if e.checker == nil || len(texts) == 0 {
		return report
	}

	for _, text := range texts {
		if e.checker.Validate(text) {
			report.Valid++
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		report.Corrections = append(report.Corrections, Correction{
			Text:      text,
			Corrected: e.checker.Correct(text),
		})
	}

	report.Compliance = float64(report.Valid) / float64(report.Total)
	return report
}
