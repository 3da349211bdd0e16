package ir

import "strings"

// WordKind is the classification variant of a WordAnalysis.
type WordKind string

const (
	KindVerb    WordKind = "verb"
	KindNoun    WordKind = "noun"
	KindUnknown WordKind = "unknown"
)

// Morphological feature values produced by the grammar engine.
const (
	TensePresent = "present"

	NumberSingular = "singular"
	NumberPlural   = "plural"

	CaseNominative = "nominative"
	CaseAccusative = "accusative"

	GenderMasculine = "masculine"
)

// WordAnalysis classifies a single whitespace-delimited word.
//
// Tense and Number are set only for verbs; Case and Gender only for nouns.
// Gender may be empty when the suffix does not determine it.
type WordAnalysis struct {
	Text   string   `json:"text"`
	Kind   WordKind `json:"pos"`
	Tense  string   `json:"tense,omitempty"`
	Number string   `json:"number,omitempty"`
	Case   string   `json:"case,omitempty"`
	Gender string   `json:"gender,omitempty"`
}

// Tag renders the classification, e.g. "verb(present,plural)",
// "noun(nominative,masculine)", "noun(accusative)" or "unknown".
func (w WordAnalysis) Tag() string {
	var features []string
	switch w.Kind {
	case KindVerb:
		features = []string{w.Tense, w.Number}
	case KindNoun:
		features = []string{w.Case, w.Gender}
	default:
		return string(KindUnknown)
	}

	var parts []string
	for _, f := range features {
		if f != "" {
			parts = append(parts, f)
		}
	}
	if len(parts) == 0 {
		return string(w.Kind)
	}
	return string(w.Kind) + "(" + strings.Join(parts, ",") + ")"
}

// SentenceAnalysis holds one WordAnalysis per word, in sentence order.
type SentenceAnalysis struct {
	Sentence string         `json:"sentence"`
	Words    []WordAnalysis `json:"words"`
}

// Tags returns the Tag of every word in order.
func (s SentenceAnalysis) Tags() []string {
	tags := make([]string, len(s.Words))
	for i, w := range s.Words {
		tags[i] = w.Tag()
	}
	return tags
}
