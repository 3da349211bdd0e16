package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainRuleTable prefixes rule-table fingerprints. The version suffix
// tracks RuleFormatVersion.
const DomainRuleTable = "vyakarana/ruletable/v" + RuleFormatVersion

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns a content hash of the rule set. Two sets with the
// same rules in the same order have the same fingerprint, wherever they
// were loaded from. Strings are hashed as raw code points, not NFC, since
// the engines match code points: precomposed and decomposed rules are
// different tables.
func Fingerprint(set RuleSet) (string, error) {
	canonical, err := marshalCanonicalRaw(set.canonical())
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRuleTable, canonical), nil
}

// Fingerprint returns the content hash of the table's rules.
func (t *RuleTable) Fingerprint() string {
	fp, err := Fingerprint(t.Set())
	if err != nil {
		// Every field is a string or an int.
		panic(err)
	}
	return fp
}

func (s RuleSet) canonical() map[string]any {
	sandhi := make([]any, len(s.Sandhi))
	for i, r := range s.Sandhi {
		splits := make([]any, len(r.Splits))
		for j, sp := range r.Splits {
			splits[j] = map[string]any{"first": sp.First, "second": sp.Second}
		}
		sandhi[i] = map[string]any{
			"pattern":  r.Pattern,
			"category": string(r.Category),
			"priority": r.Priority,
			"splits":   splits,
		}
	}

	meta := make([]any, len(s.MetaRules))
	for i, m := range s.MetaRules {
		meta[i] = map[string]any{"name": m.Name, "priority": m.Priority}
	}

	return map[string]any{
		"sandhi":            sandhi,
		"word_endings":      append([]string{}, s.WordEndings...),
		"lookback":          s.Lookback,
		"case_endings":      canonicalGrammar(s.CaseEndings),
		"verb_conjugations": canonicalGrammar(s.VerbConjugations),
		"meta_rules":        meta,
	}
}

func canonicalGrammar(rules []GrammarRule) []any {
	out := make([]any, len(rules))
	for i, r := range rules {
		out[i] = map[string]any{
			"kind":        string(r.Kind),
			"class":       r.Class,
			"label":       r.Label,
			"pattern":     r.Pattern,
			"replacement": r.Replacement,
		}
	}
	return out
}
