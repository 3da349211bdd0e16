// Package sandhi joins and segments Sanskrit text at word boundaries using
// the sandhi rules of an ir.RuleTable.
//
// A Processor is immutable after New returns. Every method is a pure
// function of its arguments and the table, so a single Processor may be
// shared by any number of goroutines.
package sandhi

import (
	"errors"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/roach88/vyakarana/internal/ir"
)

// ErrNilTable is returned by New when no rule table is supplied.
var ErrNilTable = errors.New("sandhi: rule table is nil")

// Processor applies and reverses sandhi.
//
// INVARIANTS:
//   - joins holds the single-rune splits in scan order (category, priority)
//   - patterns is ordered longest first and holds only patterns that fit
//     the lookback window
//   - nothing is mutated after New returns
type Processor struct {
	table    *ir.RuleTable
	joins    []join
	patterns [][]rune
	endings  [][]rune
	splits   []splitRule
	logger   *slog.Logger
}

// join is a boundary pair that Apply rewrites to pattern.
type join struct {
	first    rune
	second   rune
	pattern  string
	category ir.Category
}

// splitRule is a sandhi rule pre-split into runes for IdentifySplits.
type splitRule struct {
	pattern []rune
	rule    ir.SandhiRule
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger sets the logger used for construction diagnostics.
// The per-call methods never log.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Processor over table.
//
// The table has already been validated by compiler.Build, so the only
// failure is a nil table.
func New(table *ir.RuleTable, opts ...ProcessorOption) (*Processor, error) {
	if table == nil {
		return nil, ErrNilTable
	}

	p := &Processor{
		table:  table,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}

	skipped := 0
	for _, rule := range table.SandhiRules() {
		p.splits = append(p.splits, splitRule{pattern: []rune(rule.Pattern), rule: rule})
		for _, split := range rule.Splits {
			first, ok1 := singleRune(split.First)
			second, ok2 := singleRune(split.Second)
			if !ok1 || !ok2 {
				skipped++
				continue
			}
			p.joins = append(p.joins, join{
				first:    first,
				second:   second,
				pattern:  rule.Pattern,
				category: rule.Category,
			})
		}
	}

	lookback := table.Lookback()
	for _, rule := range table.SandhiRulesByLength() {
		pattern := []rune(rule.Pattern)
		if len(pattern) > lookback {
			continue
		}
		p.patterns = append(p.patterns, pattern)
	}

	for _, ending := range table.WordEndings() {
		p.endings = append(p.endings, []rune(ending))
	}

	p.logger.Debug("sandhi processor ready",
		"rules", len(p.splits),
		"joins", len(p.joins),
		"reverse_only_splits", skipped,
		"word_endings", len(p.endings),
		"lookback", lookback,
	)

	return p, nil
}

// Table returns the rule table the processor was built from.
func (p *Processor) Table() *ir.RuleTable {
	return p.table
}

// Apply joins first and second.
//
// If either segment is empty the other is returned unchanged. Otherwise
// the trailing rune of first and the leading rune of second are matched
// against the single-rune splits of the vowel, then visarga, then
// consonant rules. The first match replaces both runes with the rule's
// result pattern. Without a match the segments are concatenated.
func (p *Processor) Apply(first, second string) string {
	if first == "" || second == "" {
		return first + second
	}

	last, lastSize := utf8.DecodeLastRuneInString(first)
	lead, leadSize := utf8.DecodeRuneInString(second)

	for _, j := range p.joins {
		if j.first == last && j.second == lead {
			return first[:len(first)-lastSize] + j.pattern + second[leadSize:]
		}
	}
	return first + second
}

// JoinAll folds Apply left to right over tokens.
func (p *Processor) JoinAll(tokens []string) string {
	var out string
	for _, tok := range tokens {
		out = p.Apply(out, tok)
	}
	return out
}

// Reverse segments text with a greedy, non-backtracking scan.
//
// Runes accumulate into a buffer. After each rune, if the buffer ends
// with a word-ending marker and with some result pattern no longer than
// the lookback window, the buffer is emitted as a segment and cleared.
// Any remainder is emitted at the end. The concatenation of the result
// always equals text; input with no cut point comes back as a single
// segment.
func (p *Processor) Reverse(text string) []string {
	if text == "" {
		return []string{""}
	}

	var (
		segments []string
		buf      []rune
	)
	for _, r := range text {
		buf = append(buf, r)
		if p.atBoundary(buf) {
			segments = append(segments, string(buf))
			buf = buf[:0]
		}
	}
	if len(buf) > 0 {
		segments = append(segments, string(buf))
	}
	return segments
}

func (p *Processor) atBoundary(buf []rune) bool {
	ended := false
	for _, ending := range p.endings {
		if hasRuneSuffix(buf, ending) {
			ended = true
			break
		}
	}
	if !ended {
		return false
	}
	for _, pattern := range p.patterns {
		if hasRuneSuffix(buf, pattern) {
			return true
		}
	}
	return false
}

// Candidate is one possible undoing of sandhi at a split point.
type Candidate struct {
	First    string      `json:"first"`
	Second   string      `json:"second"`
	Pattern  string      `json:"pattern"`
	Category ir.Category `json:"category"`
}

// SplitPoint lists every candidate for a result pattern ending at Position,
// a rune index into the input.
type SplitPoint struct {
	Position   int         `json:"position"`
	Candidates []Candidate `json:"candidates"`
}

// IdentifySplits enumerates every place where a registered result pattern
// ends at an interior rune position, with the rewrites its splits imply.
//
// Each candidate is rebuilt against the full input as (prefix+first,
// second+suffix). Positions ascend; candidates at one position keep the
// table's scan order. Nothing is committed, so no registered candidate is
// ever dropped.
func (p *Processor) IdentifySplits(text string) []SplitPoint {
	runes := []rune(text)
	var points []SplitPoint

	for i := 1; i < len(runes)-1; i++ {
		var candidates []Candidate
		for _, sr := range p.splits {
			start := i - len(sr.pattern) + 1
			if start < 0 || !equalRunes(runes[start:i+1], sr.pattern) {
				continue
			}
			prefix := string(runes[:start])
			suffix := string(runes[i+1:])
			for _, split := range sr.rule.Splits {
				candidates = append(candidates, Candidate{
					First:    prefix + split.First,
					Second:   split.Second + suffix,
					Pattern:  sr.rule.Pattern,
					Category: sr.rule.Category,
				})
			}
		}
		if len(candidates) > 0 {
			points = append(points, SplitPoint{Position: i, Candidates: candidates})
		}
	}

	return points
}

func singleRune(s string) (rune, bool) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		return 0, false
	}
	return r, true
}

func hasRuneSuffix(s, suffix []rune) bool {
	if len(suffix) > len(s) {
		return false
	}
	return equalRunes(s[len(s)-len(suffix):], suffix)
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
