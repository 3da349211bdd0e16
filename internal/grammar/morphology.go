package grammar

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/roach88/vyakarana/internal/ir"
)

// Inflect applies the (gender, caseLabel) case-ending rule to stem.
// It returns false when no such rule exists or stem does not end with the
// rule's pattern.
func (e *Engine) Inflect(stem, gender, caseLabel string) (string, bool) {
	rule, ok := e.table.CaseEnding(gender, caseLabel)
	if !ok {
		return "", false
	}
	return rewrite(stem, rule)
}

// Conjugate applies the (tense, personNumber) conjugation rule to root.
func (e *Engine) Conjugate(root, tense, personNumber string) (string, bool) {
	rule, ok := e.table.VerbConjugation(tense, personNumber)
	if !ok {
		return "", false
	}
	return rewrite(root, rule)
}

func rewrite(word string, rule ir.GrammarRule) (string, bool) {
	if word == "" || !strings.HasSuffix(word, rule.Pattern) {
		return "", false
	}
	return strings.TrimSuffix(word, rule.Pattern) + rule.Replacement, true
}

// Derivation is one way word could have been produced by a grammar rule.
// Stem is word with the rule undone.
type Derivation struct {
	Rule ir.GrammarRule `json:"rule"`
	Stem string         `json:"stem"`
}

// Derivations returns every grammar rule whose replacement ends word,
// most preferred first.
//
// When the specificity meta rule outranks proximity, longer replacements
// come first and declaration order breaks ties. Otherwise declaration
// order alone decides.
func (e *Engine) Derivations(word string) []Derivation {
	var out []Derivation
	for _, rule := range e.rules {
		if rule.Replacement == "" || !strings.HasSuffix(word, rule.Replacement) {
			continue
		}
		stem := strings.TrimSuffix(word, rule.Replacement) + rule.Pattern
		if stem == "" {
			continue
		}
		out = append(out, Derivation{Rule: rule, Stem: stem})
	}

	if e.preferSpecific {
		sort.SliceStable(out, func(i, j int) bool {
			return utf8.RuneCountInString(out[i].Rule.Replacement) > utf8.RuneCountInString(out[j].Rule.Replacement)
		})
	}
	return out
}

// Resolve returns the preferred derivation of word.
func (e *Engine) Resolve(word string) (Derivation, bool) {
	ds := e.Derivations(word)
	if len(ds) == 0 {
		return Derivation{}, false
	}
	return ds[0], true
}
