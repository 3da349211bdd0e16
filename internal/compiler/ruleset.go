package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"

	"github.com/roach88/vyakarana/internal/ir"
)

// DefaultLookback is the segmentation lookback window used when the rule
// source does not set one.
const DefaultLookback = 3

// CompileRuleSet parses a CUE value into a RuleSet.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// Expected shape (every top-level field is optional):
//
//	sandhi: {
//		vowel: [{pattern: "ā", priority: 100, splits: [{first: "a", second: "a"}]}]
//		visarga: [...]
//		consonant: [...]
//	}
//	word_endings: ["aḥ", "am", "a"]
//	lookback: 3
//	case_endings: masculine: nom_sg: {pattern: "a", replacement: "aḥ"}
//	verb_conjugations: present: "3sg": {pattern: "", replacement: "ti"}
//	meta_rules: {proximity: 1, specificity: 2}
//
// CompileRuleSet only rejects values of the wrong kind. Missing or empty
// fields come through as zero values so that Validate can report all of
// them at once.
func CompileRuleSet(v cue.Value) (*ir.RuleSet, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError("rules", err)
	}

	set := &ir.RuleSet{Lookback: DefaultLookback}

	var err error
	if set.Sandhi, err = parseSandhi(v); err != nil {
		return nil, err
	}

	endingsVal := v.LookupPath(cue.ParsePath("word_endings"))
	if endingsVal.Exists() {
		if set.WordEndings, err = parseStringList(endingsVal, "word_endings"); err != nil {
			return nil, err
		}
	}

	lookbackVal := v.LookupPath(cue.ParsePath("lookback"))
	if lookbackVal.Exists() {
		n, err := lookbackVal.Int64()
		if err != nil {
			return nil, formatCUEError("lookback", err)
		}
		set.Lookback = int(n)
	}

	if set.CaseEndings, err = parseGrammarRules(v, "case_endings", ir.KindCaseEnding); err != nil {
		return nil, err
	}
	if set.VerbConjugations, err = parseGrammarRules(v, "verb_conjugations", ir.KindVerbConjugation); err != nil {
		return nil, err
	}
	if set.MetaRules, err = parseMetaRules(v); err != nil {
		return nil, err
	}

	return set, nil
}

// parseSandhi walks sandhi.<category>: [rule, ...] in declaration order.
func parseSandhi(v cue.Value) ([]ir.SandhiRule, error) {
	sandhiVal := v.LookupPath(cue.ParsePath("sandhi"))
	if !sandhiVal.Exists() {
		return nil, nil
	}

	iter, err := sandhiVal.Fields()
	if err != nil {
		return nil, formatCUEError("sandhi", err)
	}

	var rules []ir.SandhiRule
	for iter.Next() {
		category := ir.Category(unquote(iter.Label()))
		field := "sandhi." + string(category)

		list, err := iter.Value().List()
		if err != nil {
			return nil, formatCUEError(field, err)
		}
		for i := 0; list.Next(); i++ {
			rule, err := parseSandhiRule(list.Value(), category, fmt.Sprintf("%s[%d]", field, i))
			if err != nil {
				return nil, err
			}
			rules = append(rules, rule)
		}
	}

	return rules, nil
}

func parseSandhiRule(v cue.Value, category ir.Category, field string) (ir.SandhiRule, error) {
	rule := ir.SandhiRule{Category: category}

	var err error
	if rule.Pattern, err = optionalString(v, "pattern", field); err != nil {
		return rule, err
	}

	priorityVal := v.LookupPath(cue.ParsePath("priority"))
	if priorityVal.Exists() {
		p, err := priorityVal.Int64()
		if err != nil {
			return rule, formatCUEError(field+".priority", err)
		}
		rule.Priority = int(p)
	}

	splitsVal := v.LookupPath(cue.ParsePath("splits"))
	if !splitsVal.Exists() {
		return rule, nil // zero splits is reported by Validate
	}
	list, err := splitsVal.List()
	if err != nil {
		return rule, formatCUEError(field+".splits", err)
	}
	for i := 0; list.Next(); i++ {
		splitField := fmt.Sprintf("%s.splits[%d]", field, i)
		var split ir.Split
		if split.First, err = optionalString(list.Value(), "first", splitField); err != nil {
			return rule, err
		}
		if split.Second, err = optionalString(list.Value(), "second", splitField); err != nil {
			return rule, err
		}
		rule.Splits = append(rule.Splits, split)
	}

	return rule, nil
}

// parseGrammarRules walks <name>: <class>: <label>: {pattern, replacement}.
func parseGrammarRules(v cue.Value, name string, kind ir.GrammarRuleKind) ([]ir.GrammarRule, error) {
	rootVal := v.LookupPath(cue.ParsePath(name))
	if !rootVal.Exists() {
		return nil, nil
	}

	classIter, err := rootVal.Fields()
	if err != nil {
		return nil, formatCUEError(name, err)
	}

	var rules []ir.GrammarRule
	for classIter.Next() {
		class := unquote(classIter.Label())
		labelIter, err := classIter.Value().Fields()
		if err != nil {
			return nil, formatCUEError(name+"."+class, err)
		}
		for labelIter.Next() {
			label := unquote(labelIter.Label())
			field := name + "." + class + "." + label

			rule := ir.GrammarRule{Kind: kind, Class: class, Label: label}
			if rule.Pattern, err = optionalString(labelIter.Value(), "pattern", field); err != nil {
				return nil, err
			}
			if rule.Replacement, err = optionalString(labelIter.Value(), "replacement", field); err != nil {
				return nil, err
			}
			rules = append(rules, rule)
		}
	}

	return rules, nil
}

// parseMetaRules reads meta_rules: {name: priority}.
func parseMetaRules(v cue.Value) ([]ir.MetaRule, error) {
	metaVal := v.LookupPath(cue.ParsePath("meta_rules"))
	if !metaVal.Exists() {
		return nil, nil
	}

	iter, err := metaVal.Fields()
	if err != nil {
		return nil, formatCUEError("meta_rules", err)
	}

	var rules []ir.MetaRule
	for iter.Next() {
		name := unquote(iter.Label())
		p, err := iter.Value().Int64()
		if err != nil {
			return nil, formatCUEError("meta_rules."+name, err)
		}
		rules = append(rules, ir.MetaRule{Name: name, Priority: int(p)})
	}

	return rules, nil
}

func parseStringList(v cue.Value, field string) ([]string, error) {
	list, err := v.List()
	if err != nil {
		return nil, formatCUEError(field, err)
	}
	var out []string
	for i := 0; list.Next(); i++ {
		s, err := list.Value().String()
		if err != nil {
			return nil, formatCUEError(fmt.Sprintf("%s[%d]", field, i), err)
		}
		out = append(out, s)
	}
	return out, nil
}

// optionalString returns "" when the field is absent and an error when it
// is present but not a string.
func optionalString(v cue.Value, name, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(field+"."+name, err)
	}
	return s, nil
}

func unquote(label string) string {
	return strings.Trim(label, `"`)
}
