package ir

import (
	"sort"
	"unicode/utf8"
)

// RuleTable is the immutable rule configuration shared by the sandhi
// processor and the grammar engine.
//
// Build tables with compiler.Build, which validates the RuleSet first.
// NewRuleTable itself performs no validation.
//
// INVARIANTS:
//   - sandhi is ordered by (category rank, priority desc, declaration order)
//   - byLength holds the same rules, longest pattern first, ties in scan order
//   - no field is mutated after NewRuleTable returns
type RuleTable struct {
	sandhi      []SandhiRule
	byLength    []SandhiRule
	wordEndings []string
	lookback    int
	caseEndings []GrammarRule
	verbs       []GrammarRule
	derived     []GrammarRule
	meta        []MetaRule
}

// NewRuleTable copies set into an immutable RuleTable.
func NewRuleTable(set RuleSet) *RuleTable {
	t := &RuleTable{
		sandhi:      cloneSandhi(set.Sandhi),
		wordEndings: append([]string(nil), set.WordEndings...),
		lookback:    set.Lookback,
		caseEndings: append([]GrammarRule(nil), set.CaseEndings...),
		verbs:       append([]GrammarRule(nil), set.VerbConjugations...),
		meta:        append([]MetaRule(nil), set.MetaRules...),
	}

	sort.SliceStable(t.sandhi, func(i, j int) bool {
		ri, rj := t.sandhi[i].Category.Rank(), t.sandhi[j].Category.Rank()
		if ri != rj {
			return ri < rj
		}
		return t.sandhi[i].Priority > t.sandhi[j].Priority
	})

	t.byLength = cloneSandhi(t.sandhi)
	sort.SliceStable(t.byLength, func(i, j int) bool {
		return utf8.RuneCountInString(t.byLength[i].Pattern) > utf8.RuneCountInString(t.byLength[j].Pattern)
	})

	for _, rule := range t.sandhi {
		if rule.Category == CategoryConsonant {
			continue
		}
		for _, split := range rule.Splits {
			t.derived = append(t.derived, GrammarRule{
				Kind:        KindSandhi,
				Class:       string(rule.Category),
				Label:       rule.Pattern,
				Pattern:     split.First + split.Second,
				Replacement: rule.Pattern,
			})
		}
	}

	return t
}

// SandhiRules returns the sandhi rules in scan order.
func (t *RuleTable) SandhiRules() []SandhiRule {
	return cloneSandhi(t.sandhi)
}

// SandhiRulesByLength returns the sandhi rules ordered longest pattern first.
func (t *RuleTable) SandhiRulesByLength() []SandhiRule {
	return cloneSandhi(t.byLength)
}

// WordEndings returns the word-boundary markers used by segmentation.
func (t *RuleTable) WordEndings() []string {
	return append([]string(nil), t.wordEndings...)
}

// Lookback returns the segmentation lookback window in code points.
func (t *RuleTable) Lookback() int {
	return t.lookback
}

// CaseEnding returns the case-ending rule for (gender, caseLabel).
func (t *RuleTable) CaseEnding(gender, caseLabel string) (GrammarRule, bool) {
	return findRule(t.caseEndings, gender, caseLabel)
}

// VerbConjugation returns the conjugation rule for (tense, personNumber).
func (t *RuleTable) VerbConjugation(tense, personNumber string) (GrammarRule, bool) {
	return findRule(t.verbs, tense, personNumber)
}

// GrammarRules returns every grammar rule in declaration order: case
// endings, then verb conjugations, then sandhi-derived rules.
func (t *RuleTable) GrammarRules() []GrammarRule {
	out := make([]GrammarRule, 0, len(t.caseEndings)+len(t.verbs)+len(t.derived))
	out = append(out, t.caseEndings...)
	out = append(out, t.verbs...)
	out = append(out, t.derived...)
	return out
}

// MetaRules returns the meta rules in declaration order.
func (t *RuleTable) MetaRules() []MetaRule {
	return append([]MetaRule(nil), t.meta...)
}

// MetaPriority returns the priority of the named meta rule.
func (t *RuleTable) MetaPriority(name string) (int, bool) {
	for _, m := range t.meta {
		if m.Name == name {
			return m.Priority, true
		}
	}
	return 0, false
}

// Set returns a RuleSet equivalent to the table, with sandhi rules in
// scan order.
func (t *RuleTable) Set() RuleSet {
	return RuleSet{
		Sandhi:           t.SandhiRules(),
		WordEndings:      t.WordEndings(),
		Lookback:         t.lookback,
		CaseEndings:      append([]GrammarRule(nil), t.caseEndings...),
		VerbConjugations: append([]GrammarRule(nil), t.verbs...),
		MetaRules:        t.MetaRules(),
	}
}

func findRule(rules []GrammarRule, class, label string) (GrammarRule, bool) {
	for _, r := range rules {
		if r.Class == class && r.Label == label {
			return r, true
		}
	}
	return GrammarRule{}, false
}

func cloneSandhi(rules []SandhiRule) []SandhiRule {
	if rules == nil {
		return nil
	}
	out := make([]SandhiRule, len(rules))
	for i, r := range rules {
		out[i] = r
		out[i].Splits = append([]Split(nil), r.Splits...)
	}
	return out
}
