// Package rules holds the built-in rule table and loads rule tables from
// CUE source directories.
package rules

import (
	"fmt"

	"github.com/roach88/vyakarana/internal/compiler"
	"github.com/roach88/vyakarana/internal/ir"
)

// DefaultSet returns the built-in rule source. Each call returns a fresh
// copy that the caller may modify.
func DefaultSet() *ir.RuleSet {
	return &ir.RuleSet{
		Sandhi: []ir.SandhiRule{
			// Vowel sandhi. a+a, a+i and a+u are scanned first.
			vowel("ā", 100, "a", "a", "a", "ā", "ā", "a", "ā", "ā"),
			vowel("e", 90, "a", "i", "ā", "i"),
			vowel("o", 80, "a", "u", "ā", "u"),
			vowel("ai", 70, "a", "e", "ā", "e"),
			vowel("au", 60, "a", "o", "ā", "o"),
			vowel("ī", 50, "i", "i"),
			vowel("ū", 40, "u", "u"),

			// Visarga sandhi.
			rule(ir.CategoryVisarga, "o", 100, "aḥ", ""),
			rule(ir.CategoryVisarga, "ss", 90, "ḥ", "s"),
			rule(ir.CategoryVisarga, "śc", 80, "ḥ", "c"),
			rule(ir.CategoryVisarga, "ṣṭ", 70, "ḥ", "ṭ"),

			// Consonant sandhi.
			rule(ir.CategoryConsonant, "nn", 100, "t", "n"),
			rule(ir.CategoryConsonant, "ñc", 90, "n", "c"),
			rule(ir.CategoryConsonant, "ṅg", 80, "n", "g"),
			rule(ir.CategoryConsonant, "ṇṭ", 70, "n", "ṭ"),
			rule(ir.CategoryConsonant, "cc", 60, "t", "c"),
			rule(ir.CategoryConsonant, "jj", 50, "t", "j"),
			rule(ir.CategoryConsonant, "ṭṭ", 40, "t", "ṭ"),
			rule(ir.CategoryConsonant, "dd", 30, "t", "d"),
		},
		WordEndings: []string{"aḥ", "am", "ām", "a", "i", "ī", "u", "ū", "e", "o"},
		Lookback:    compiler.DefaultLookback,
		CaseEndings: []ir.GrammarRule{
			caseEnding("masculine", "nom_sg", "a", "aḥ"),
			caseEnding("masculine", "acc_sg", "a", "am"),
			caseEnding("masculine", "ins_sg", "a", "ena"),
			caseEnding("feminine", "nom_sg", "ā", "ā"),
			caseEnding("feminine", "acc_sg", "ā", "ām"),
			caseEnding("feminine", "ins_sg", "ā", "ayā"),
		},
		VerbConjugations: []ir.GrammarRule{
			{Kind: ir.KindVerbConjugation, Class: "present", Label: "3sg", Pattern: "", Replacement: "ti"},
			{Kind: ir.KindVerbConjugation, Class: "present", Label: "3pl", Pattern: "", Replacement: "nti"},
		},
		MetaRules: []ir.MetaRule{
			{Name: ir.MetaProximity, Priority: 1},
			{Name: ir.MetaSpecificity, Priority: 2},
		},
	}
}

// Default builds the built-in rule table.
// It panics if the built-in data fails validation, which the package
// tests rule out.
func Default() *ir.RuleTable {
	table, err := compiler.Build(DefaultSet())
	if err != nil {
		panic(fmt.Sprintf("built-in rule table is invalid: %v", err))
	}
	return table
}

func vowel(pattern string, priority int, parts ...string) ir.SandhiRule {
	return rule(ir.CategoryVowel, pattern, priority, parts...)
}

// rule builds a SandhiRule from alternating first/second parts.
func rule(category ir.Category, pattern string, priority int, parts ...string) ir.SandhiRule {
	r := ir.SandhiRule{Pattern: pattern, Category: category, Priority: priority}
	for i := 0; i+1 < len(parts); i += 2 {
		r.Splits = append(r.Splits, ir.Split{First: parts[i], Second: parts[i+1]})
	}
	return r
}

func caseEnding(gender, label, pattern, replacement string) ir.GrammarRule {
	return ir.GrammarRule{
		Kind:        ir.KindCaseEnding,
		Class:       gender,
		Label:       label,
		Pattern:     pattern,
		Replacement: replacement,
	}
}
