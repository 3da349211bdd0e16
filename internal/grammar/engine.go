// Package grammar validates, corrects and analyzes Sanskrit sentences with
// a minimal subject-object-verb heuristic, and applies the case-ending and
// verb-conjugation rules of an ir.RuleTable.
//
// Sentence operations never fail. Empty or whitespace-only input is
// reported as "no structure recognized": Validate returns false, Correct
// returns the empty string and ParseSentence returns no words.
package grammar

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/vyakarana/internal/ir"
)

// ErrNilTable is returned by New when no rule table is supplied.
var ErrNilTable = errors.New("grammar: rule table is nil")

// Engine is the grammar engine. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	table          *ir.RuleTable
	rules          []ir.GrammarRule
	preferSpecific bool
	logger         *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for construction diagnostics.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine over table.
func New(table *ir.RuleTable, opts ...EngineOption) (*Engine, error) {
	if table == nil {
		return nil, ErrNilTable
	}

	e := &Engine{
		table:  table,
		rules:  table.GrammarRules(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}

	proximity, _ := table.MetaPriority(ir.MetaProximity)
	specificity, hasSpecificity := table.MetaPriority(ir.MetaSpecificity)
	e.preferSpecific = hasSpecificity && specificity > proximity

	e.logger.Debug("grammar engine ready",
		"grammar_rules", len(e.rules),
		"prefer_specific", e.preferSpecific,
	)

	return e, nil
}

// Validate reports whether sentence passes the word-order heuristic.
//
// With three or more words the last must be a verb (ti, nti) and some
// earlier word must end in ḥ or m. With one or two words any word ending
// in ḥ, m, ām, ā, ti or nti suffices. Empty input is invalid.
func (e *Engine) Validate(sentence string) bool {
	words := strings.Fields(sentence)

	switch {
	case len(words) == 0:
		return false
	case len(words) >= 3:
		if !isVerb(words[len(words)-1]) {
			return false
		}
		for _, w := range words[:len(words)-1] {
			if hasAnySuffix(w, subjectMarkers) {
				return true
			}
		}
		return false
	default:
		for _, w := range words {
			if hasAnySuffix(w, fragmentEndings) {
				return true
			}
		}
		return false
	}
}

// Correct rewrites sentence toward verb-final order with marked nominals.
//
// If the last word is not a verb, the first earlier verb is moved to the
// end; the other words keep their order. Then every word except the last
// that ends in bare a gets a visarga. Words are re-joined with single
// spaces. Correct is idempotent.
func (e *Engine) Correct(sentence string) string {
	words := strings.Fields(sentence)

	if len(words) >= 2 && !isVerb(words[len(words)-1]) {
		for i, w := range words[:len(words)-1] {
			if isVerb(w) {
				words = append(words[:i], words[i+1:]...)
				words = append(words, w)
				break
			}
		}
	}

	for i := 0; i < len(words)-1; i++ {
		if strings.HasSuffix(words[i], bareStemEnding) {
			words[i] += visarga
		}
	}

	return strings.Join(words, " ")
}

// ParseSentence classifies every whitespace-delimited word of sentence.
//
// The first matching suffix wins: ti/nti is a present verb (plural for
// nti), ḥ a masculine nominative noun, m an accusative noun. Anything
// else is unknown.
func (e *Engine) ParseSentence(sentence string) ir.SentenceAnalysis {
	words := strings.Fields(sentence)
	analysis := ir.SentenceAnalysis{
		Sentence: sentence,
		Words:    make([]ir.WordAnalysis, 0, len(words)),
	}
	for _, w := range words {
		analysis.Words = append(analysis.Words, classify(w))
	}
	return analysis
}

func classify(word string) ir.WordAnalysis {
	switch {
	case isVerb(word):
		number := ir.NumberSingular
		if strings.HasSuffix(word, pluralVerbEnding) {
			number = ir.NumberPlural
		}
		return ir.WordAnalysis{Text: word, Kind: ir.KindVerb, Tense: ir.TensePresent, Number: number}
	case strings.HasSuffix(word, visarga):
		return ir.WordAnalysis{Text: word, Kind: ir.KindNoun, Case: ir.CaseNominative, Gender: ir.GenderMasculine}
	case strings.HasSuffix(word, accusativeEnding):
		return ir.WordAnalysis{Text: word, Kind: ir.KindNoun, Case: ir.CaseAccusative}
	default:
		return ir.WordAnalysis{Text: word, Kind: ir.KindUnknown}
	}
}
