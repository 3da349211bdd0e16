package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterminism(t *testing.T) {
	fp1, err := Fingerprint(testSet())
	require.NoError(t, err)

	fp2, err := Fingerprint(testSet())
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2, "Fingerprint must be deterministic")
	assert.Len(t, fp1, 64, "SHA-256 hex is 64 characters")
}

func TestFingerprintChangesWithRules(t *testing.T) {
	base, err := Fingerprint(testSet())
	require.NoError(t, err)

	mutations := map[string]func(*RuleSet){
		"priority":    func(s *RuleSet) { s.Sandhi[0].Priority++ },
		"split":       func(s *RuleSet) { s.Sandhi[2].Splits[0].Second = "ī" },
		"word ending": func(s *RuleSet) { s.WordEndings = append(s.WordEndings, "o") },
		"lookback":    func(s *RuleSet) { s.Lookback = 2 },
		"case ending": func(s *RuleSet) { s.CaseEndings[0].Replacement = "aḥ " },
		"meta":        func(s *RuleSet) { s.MetaRules[0].Priority = 3 },
		"rule order":  func(s *RuleSet) { s.Sandhi[2], s.Sandhi[3] = s.Sandhi[3], s.Sandhi[2] },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			set := testSet()
			mutate(&set)
			fp, err := Fingerprint(set)
			require.NoError(t, err)
			assert.NotEqual(t, base, fp)
		})
	}
}

func TestFingerprintDistinguishesDecomposedIAST(t *testing.T) {
	composed := testSet()
	composed.Sandhi[3].Splits = []Split{{"\u0101", "a"}}
	decomposed := testSet()
	decomposed.Sandhi[3].Splits = []Split{{"a\u0304", "a"}}

	fp1, err := Fingerprint(composed)
	require.NoError(t, err)
	fp2, err := Fingerprint(decomposed)
	require.NoError(t, err)
	assert.NotEqual(t, fp1, fp2, "tables that match different code points must not share a fingerprint")

	// The canonical JSON used for goldens still treats them as equal.
	j1, err := MarshalCanonical(composed.canonical())
	require.NoError(t, err)
	j2, err := MarshalCanonical(decomposed.canonical())
	require.NoError(t, err)
	assert.Equal(t, string(j1), string(j2))
}

func TestRuleTableFingerprint(t *testing.T) {
	table := NewRuleTable(testSet())

	fp, err := Fingerprint(table.Set())
	require.NoError(t, err)
	assert.Equal(t, fp, table.Fingerprint())
	assert.Equal(t, table.Fingerprint(), NewRuleTable(testSet()).Fingerprint())
}

func TestHashWithDomainSeparation(t *testing.T) {
	data := []byte(`{"lookback":3}`)
	assert.NotEqual(t, hashWithDomain(DomainRuleTable, data), hashWithDomain("vyakarana/other/v1", data))
	assert.Equal(t, "vyakarana/ruletable/v1", DomainRuleTable)
}
