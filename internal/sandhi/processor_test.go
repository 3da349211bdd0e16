package sandhi

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vyakarana/internal/compiler"
	"github.com/roach88/vyakarana/internal/ir"
	"github.com/roach88/vyakarana/internal/rules"
)

func newDefault(t *testing.T) *Processor {
	t.Helper()
	p, err := New(rules.Default())
	require.NoError(t, err)
	return p
}

func TestNewNilTable(t *testing.T) {
	p, err := New(nil)
	assert.ErrorIs(t, err, ErrNilTable)
	assert.Nil(t, p)
}

func TestApplyRegisteredVowelRules(t *testing.T) {
	p := newDefault(t)

	tests := []struct {
		first, second, want string
	}{
		{"rama", "iva", "rameva"},
		{"deva", "atra", "devātra"},
		{"gaccha", "uta", "gacchota"},
		{"mahā", "indra", "mahendra"},
		{"deva", "eva", "devaiva"},
		{"kavi", "iti", "kavīti"},
	}

	for _, tt := range tests {
		t.Run(tt.first+"+"+tt.second, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Apply(tt.first, tt.second))
		})
	}
}

func TestApplyFallsThroughCategories(t *testing.T) {
	p := newDefault(t)

	assert.Equal(t, "rāmaśca", p.Apply("rāmaḥ", "ca"), "visarga")
	assert.Equal(t, "tanna", p.Apply("tat", "na"), "consonant")
	assert.Equal(t, "tacca", p.Apply("tat", "ca"), "consonant")
	assert.Equal(t, "vākatra", p.Apply("vāk", "atra"), "no rule")
	assert.Equal(t, "mahāṛṣi", p.Apply("mahā", "ṛṣi"), "no rule")
}

func TestApplyEmptyOperand(t *testing.T) {
	p := newDefault(t)

	for _, s := range []string{"a", "rama", "iva", "ḥ", "देव"} {
		assert.Equal(t, s, p.Apply("", s))
		assert.Equal(t, s, p.Apply(s, ""))
	}
	assert.Equal(t, "", p.Apply("", ""))
}

func TestApplyPriorityWithinCategory(t *testing.T) {
	set := &ir.RuleSet{
		Sandhi: []ir.SandhiRule{
			{Pattern: "x", Category: ir.CategoryVowel, Priority: 1, Splits: []ir.Split{{First: "a", Second: "i"}}},
			{Pattern: "y", Category: ir.CategoryVowel, Priority: 5, Splits: []ir.Split{{First: "a", Second: "i"}}},
			{Pattern: "z", Category: ir.CategoryConsonant, Priority: 99, Splits: []ir.Split{{First: "a", Second: "i"}}},
		},
		Lookback: 3,
	}
	table, err := compiler.Build(set)
	require.NoError(t, err)
	p, err := New(table)
	require.NoError(t, err)

	assert.Equal(t, "kyk", p.Apply("ka", "ik"))
}

func TestJoinAll(t *testing.T) {
	p := newDefault(t)

	assert.Equal(t, "", p.JoinAll(nil))
	assert.Equal(t, "rama", p.JoinAll([]string{"rama"}))
	assert.Equal(t, "rameva", p.JoinAll([]string{"rama", "iva"}))
	assert.Equal(t, "devātreva", p.JoinAll([]string{"deva", "atra", "iva"}))
}

func TestReverse(t *testing.T) {
	p := newDefault(t)

	tests := []struct {
		text string
		want []string
	}{
		{"rameva", []string{"rame", "va"}},
		{"devātra", []string{"de", "vātra"}},
		{"gacchota", []string{"gaccho", "ta"}},
		{"vanam", []string{"vanam"}},
		{"", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Reverse(tt.text))
		})
	}
}

func TestReverseNeverDropsCharacters(t *testing.T) {
	p := newDefault(t)

	inputs := []string{
		"rameva", "devātra", "gacchota", "rāmaḥvanamgacchati",
		"tanna", "devaiva", "kavīti", "a", "ḥ", "देवात्र", "aaaaaa",
	}
	for _, in := range inputs {
		segments := p.Reverse(in)
		require.NotEmpty(t, segments, in)
		assert.Equal(t, in, strings.Join(segments, ""), in)
		for _, seg := range segments {
			assert.NotEmpty(t, seg, "empty segment for %q", in)
		}
	}
}

func TestReverseLookbackWindow(t *testing.T) {
	build := func(lookback int) *Processor {
		table, err := compiler.Build(&ir.RuleSet{
			Sandhi: []ir.SandhiRule{
				{Pattern: "ai", Category: ir.CategoryVowel, Splits: []ir.Split{{First: "a", Second: "e"}}},
			},
			WordEndings: []string{"i"},
			Lookback:    lookback,
		})
		require.NoError(t, err)
		p, err := New(table)
		require.NoError(t, err)
		return p
	}

	assert.Equal(t, []string{"devai", "tra"}, build(2).Reverse("devaitra"))
	assert.Equal(t, []string{"devaitra"}, build(1).Reverse("devaitra"))
}

func TestIdentifySplits(t *testing.T) {
	p := newDefault(t)

	t.Run("rameva", func(t *testing.T) {
		points := p.IdentifySplits("rameva")
		require.Len(t, points, 1)
		assert.Equal(t, SplitPoint{
			Position: 3,
			Candidates: []Candidate{
				{First: "rama", Second: "iva", Pattern: "e", Category: ir.CategoryVowel},
				{First: "ramā", Second: "iva", Pattern: "e", Category: ir.CategoryVowel},
			},
		}, points[0])
	})

	t.Run("positions are rune indices", func(t *testing.T) {
		points := p.IdentifySplits("devātra")
		require.Len(t, points, 2)
		assert.Equal(t, 1, points[0].Position)
		assert.Equal(t, 3, points[1].Position)
		assert.Equal(t, []Candidate{
			{First: "deva", Second: "atra", Pattern: "ā", Category: ir.CategoryVowel},
			{First: "deva", Second: "ātra", Pattern: "ā", Category: ir.CategoryVowel},
			{First: "devā", Second: "atra", Pattern: "ā", Category: ir.CategoryVowel},
			{First: "devā", Second: "ātra", Pattern: "ā", Category: ir.CategoryVowel},
		}, points[1].Candidates)
	})

	t.Run("candidates keep scan order across categories", func(t *testing.T) {
		points := p.IdentifySplits("gacchota")
		require.Len(t, points, 2)

		assert.Equal(t, 3, points[0].Position)
		assert.Equal(t, []Candidate{
			{First: "gat", Second: "chota", Pattern: "cc", Category: ir.CategoryConsonant},
		}, points[0].Candidates)

		assert.Equal(t, 5, points[1].Position)
		assert.Equal(t, []Candidate{
			{First: "gaccha", Second: "uta", Pattern: "o", Category: ir.CategoryVowel},
			{First: "gacchā", Second: "uta", Pattern: "o", Category: ir.CategoryVowel},
			{First: "gacchaḥ", Second: "ta", Pattern: "o", Category: ir.CategoryVisarga},
		}, points[1].Candidates)
	})

	t.Run("no interior position", func(t *testing.T) {
		assert.Empty(t, p.IdentifySplits(""))
		assert.Empty(t, p.IdentifySplits("ā"))
		assert.Empty(t, p.IdentifySplits("ai"))
	})
}

func TestIdentifySplitsDiphthongs(t *testing.T) {
	p := newDefault(t)

	at := func(points []SplitPoint, pos int) []Candidate {
		for _, point := range points {
			if point.Position == pos {
				return point.Candidates
			}
		}
		return nil
	}

	assert.Equal(t, []Candidate{
		{First: "deva", Second: "eta", Pattern: "ai", Category: ir.CategoryVowel},
		{First: "devā", Second: "eta", Pattern: "ai", Category: ir.CategoryVowel},
	}, at(p.IdentifySplits("devaita"), 4))

	assert.Equal(t, []Candidate{
		{First: "deva", Second: "ota", Pattern: "au", Category: ir.CategoryVowel},
		{First: "devā", Second: "ota", Pattern: "au", Category: ir.CategoryVowel},
	}, at(p.IdentifySplits("devauta"), 4))
}

// Every registered split that Apply can produce must be listed again by
// IdentifySplits once it is joined inside surrounding text. Bare operands
// would not do: apply("a", "a") is "ā", which has no interior position.
func TestApplyIdentifySplitsRoundTrip(t *testing.T) {
	p := newDefault(t)

	for _, rule := range p.Table().SandhiRules() {
		for _, split := range rule.Splits {
			if split.First == "" || split.Second == "" {
				continue // Apply is a no-op on an empty operand
			}
			x := "dev" + split.First
			y := split.Second + "tra"
			combined := p.Apply(x, y)

			found := false
			for _, point := range p.IdentifySplits(combined) {
				for _, c := range point.Candidates {
					if c.First == x && c.Second == y {
						found = true
					}
				}
			}
			assert.True(t, found, "%s rule %q: (%s, %s) joined to %q is not listed",
				rule.Category, rule.Pattern, x, y, combined)
		}
	}
}

func TestWithLoggerLogsOnlyAtConstruction(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p, err := New(rules.Default(), WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "sandhi processor ready")
	assert.Contains(t, buf.String(), "reverse_only_splits=1")

	n := buf.Len()
	p.Apply("rama", "iva")
	p.Reverse("rameva")
	p.IdentifySplits("rameva")
	assert.Equal(t, n, buf.Len())
}

func TestConcurrentUse(t *testing.T) {
	p := newDefault(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "rameva", p.Apply("rama", "iva"))
				assert.Equal(t, []string{"rame", "va"}, p.Reverse("rameva"))
				assert.Len(t, p.IdentifySplits("devātra"), 2)
			}
		}()
	}
	wg.Wait()
}
