package grammar

import "strings"

// Fixed suffix tables. These are independent of the rule table: the
// sentence heuristics classify by surface endings only.
var (
	// verbEndings are present-tense markers, plural first.
	verbEndings = []string{"nti", "ti"}

	// subjectMarkers are the non-final endings required by the strict
	// word-order check: visarga and accusative m.
	subjectMarkers = []string{"ḥ", "m"}

	// fragmentEndings relax the check for phrases of one or two words.
	fragmentEndings = []string{"ḥ", "m", "ām", "ā", "ti", "nti"}
)

const (
	pluralVerbEnding = "nti"
	visarga          = "ḥ"
	accusativeEnding = "m"
	bareStemEnding   = "a"
)

func isVerb(word string) bool {
	return hasAnySuffix(word, verbEndings)
}

func hasAnySuffix(word string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(word, s) {
			return true
		}
	}
	return false
}
