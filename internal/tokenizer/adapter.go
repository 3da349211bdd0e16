// Package tokenizer pre-segments surface text with sandhi reversal before
// phonemic tokenization, and re-joins tokens with sandhi on the way back.
//
// Vocabulary and ID mapping live outside this module; the adapter works on
// strings only.
package tokenizer

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Segmenter splits a combined string into segments.
type Segmenter interface {
	Reverse(text string) []string
}

// Joiner re-joins segments, applying sandhi at every boundary from left
// to right.
type Joiner interface {
	JoinAll(tokens []string) string
}

// SegmentJoiner is satisfied by *sandhi.Processor.
type SegmentJoiner interface {
	Segmenter
	Joiner
}

// Adapter connects a sandhi processor to the tokenizer boundary.
type Adapter struct {
	sandhi SegmentJoiner
}

// NewAdapter returns an Adapter backed by sj.
func NewAdapter(sj SegmentJoiner) *Adapter {
	return &Adapter{sandhi: sj}
}

// Tokenize NFC-normalizes text, splits it on whitespace and reverses
// sandhi inside every word. The sandhi core itself never normalizes, so
// decomposed input is composed here first.
func (a *Adapter) Tokenize(text string) []string {
	var tokens []string
	for _, word := range strings.Fields(norm.NFC.String(text)) {
		tokens = append(tokens, a.sandhi.Reverse(word)...)
	}
	return tokens
}

// Detokenize re-joins tokens into surface text.
func (a *Adapter) Detokenize(tokens []string) string {
	return a.sandhi.JoinAll(tokens)
}

// aspirated consonants written with a trailing h in IAST.
var aspirates = map[string]bool{
	"kh": true, "gh": true, "ch": true, "jh": true, "ṭh": true,
	"ḍh": true, "th": true, "dh": true, "ph": true, "bh": true,
}

var diphthongs = map[string]bool{"ai": true, "au": true}

// Phonemes splits an IAST word into phoneme units. Aspirates and the
// diphthongs ai and au stay together; everything else is one rune.
func (a *Adapter) Phonemes(word string) []string {
	runes := []rune(norm.NFC.String(word))
	var units []string
	for i := 0; i < len(runes); i++ {
		if i+1 < len(runes) {
			pair := string(runes[i : i+2])
			if aspirates[pair] || diphthongs[pair] {
				units = append(units, pair)
				i++
				continue
			}
		}
		units = append(units, string(runes[i]))
	}
	return units
}
