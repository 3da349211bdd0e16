package ir

// Category tags a sandhi rule with the phonological class it belongs to.
type Category string

const (
	CategoryVowel     Category = "vowel"
	CategoryVisarga   Category = "visarga"
	CategoryConsonant Category = "consonant"
)

// CategoryOrder is the fixed scan order used when joining segments.
var CategoryOrder = []Category{CategoryVowel, CategoryVisarga, CategoryConsonant}

// Rank returns the position of c in CategoryOrder, or -1 if c is unknown.
func (c Category) Rank() int {
	for i, known := range CategoryOrder {
		if known == c {
			return i
		}
	}
	return -1
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c.Rank() >= 0
}

// Split is one candidate (first-part, second-part) decomposition of a
// sandhi result pattern.
type Split struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// SandhiRule maps a result pattern to the splits that produce it.
//
// Higher Priority is scanned first within a category. Rules with equal
// priority keep declaration order.
type SandhiRule struct {
	Pattern  string   `json:"pattern"`
	Category Category `json:"category"`
	Priority int      `json:"priority"`
	Splits   []Split  `json:"splits"`
}

// GrammarRuleKind identifies the family a GrammarRule belongs to.
type GrammarRuleKind string

const (
	KindSandhi          GrammarRuleKind = "sandhi"
	KindCaseEnding      GrammarRuleKind = "case_ending"
	KindVerbConjugation GrammarRuleKind = "verb_conjugation"
)

// GrammarRule is a suffix rewrite keyed by (Class, Label).
//
// For case endings Class is the gender and Label the case label ("nom_sg").
// For verb conjugations Class is the tense and Label the person-number
// ("3pl"). Sandhi-derived rules use the category and the result pattern.
// Pattern is the suffix the rule consumes; Replacement is what it writes.
type GrammarRule struct {
	Kind        GrammarRuleKind `json:"kind"`
	Class       string          `json:"class"`
	Label       string          `json:"label"`
	Pattern     string          `json:"pattern"`
	Replacement string          `json:"replacement"`
}

// Well-known meta rule names.
const (
	MetaProximity   = "proximity"
	MetaSpecificity = "specificity"
)

// MetaRule names a disambiguation strategy. When two grammar rules apply at
// the same position the strategy with the higher priority decides.
type MetaRule struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"`
}

// RuleSet is the unvalidated source description of a rule table, as
// produced by the compiler or the built-in defaults.
type RuleSet struct {
	Sandhi           []SandhiRule  `json:"sandhi"`
	WordEndings      []string      `json:"word_endings"`
	Lookback         int           `json:"lookback"`
	CaseEndings      []GrammarRule `json:"case_endings"`
	VerbConjugations []GrammarRule `json:"verb_conjugations"`
	MetaRules        []MetaRule    `json:"meta_rules"`
}
