package extract

import (
	"math"
	"strings"

	"github.com/az-ai-labs/numscan/lexicon"
	"github.com/az-ai-labs/numscan/normalize"
	"github.com/az-ai-labs/numscan/tokenizer"
)

// Merger joins adjacent annotations that read as one number, such as
// "5 thousand" followed by "million", or "5" followed by "and a half".
type Merger struct {
	lex *lexicon.Lexicon
	cfg lexicon.Config
}

// NewMerger returns a merger gated by lex's configuration.
func NewMerger(lex *lexicon.Lexicon) *Merger {
	return &Merger{lex: lex, cfg: lex.Config()}
}

// Merge applies the enabled stages to anns, which must be sorted by Start
// with offsets into text. It returns anns unchanged when merging is off or
// there is at most one annotation.
func (m *Merger) Merge(anns []Annotation, text string) []Annotation {
	if !m.cfg.Merge || len(anns) <= 1 {
		return anns
	}
	for _, stage := range []struct {
		on  bool
		run func([]Annotation, string) []Annotation
	}{
		{m.cfg.MergeMultiples, m.multiples},
		{m.cfg.MergePoints, passThrough},
		{m.cfg.MergeImplied, passThrough},
		{m.cfg.MergeInformals, m.informals},
	} {
		if stage.on {
			anns = stage.run(anns, text)
		}
	}
	return anns
}

func passThrough(anns []Annotation, _ string) []Annotation { return anns }

// pairwise walks adjacent pairs and replaces each pair join accepts with
// the joined annotation. A joined annotation does not join again.
func pairwise(anns []Annotation, join func(a, b Annotation) (Annotation, bool)) []Annotation {
	out := make([]Annotation, 0, len(anns))
	for i := 0; i < len(anns); i++ {
		if i+1 < len(anns) {
			if j, ok := join(anns[i], anns[i+1]); ok {
				out = append(out, j)
				i++
				continue
			}
		}
		out = append(out, anns[i])
	}
	return out
}

// multiples joins a number with a following scale word: "5 thousand" and
// "million" become 5e9, "two" and "hundred thousand" become 200000.
func (m *Merger) multiples(anns []Annotation, text string) []Annotation {
	return pairwise(anns, func(a, b Annotation) (Annotation, bool) {
		if !isGap(text, a, b) || a.ValueType == ComplexValue || b.Value < 1 {
			return Annotation{}, false
		}
		if !m.scaleRooted(m.words(b.Text)) {
			return Annotation{}, false
		}
		mag := magnitude(b.Value)
		return joined(text, a, b, a.Value*mag+(b.Value-mag))
	})
}

// scaleRooted reports whether words open with a scale word above hundred,
// or with "hundred" followed by one ("hundred thousand").
func (m *Merger) scaleRooted(words []string) bool {
	for i, w := range words {
		c := m.lex.Classify(w)
		switch {
		case c.Ordinal:
			return false
		case c.Category == lexicon.Scale:
			return true
		case c.Category == lexicon.Hundred && i == 0:
		default:
			return false
		}
	}
	return false
}

// informals joins a number with a following informal quantity separated
// by space or "and": "5" and "a half" become 5.5.
func (m *Merger) informals(anns []Annotation, text string) []Annotation {
	return pairwise(anns, func(a, b Annotation) (Annotation, bool) {
		if a.End > b.Start || a.ValueType == ComplexValue || b.ValueType == ComplexValue {
			return Annotation{}, false
		}
		if gap := strings.TrimSpace(text[a.End:b.Start]); gap != "" && m.lex.Classify(gap).Category != lexicon.And {
			return Annotation{}, false
		}
		words := m.words(b.Text)
		if len(words) == 0 {
			return Annotation{}, false
		}
		if _, ok := m.lex.Informal(words[len(words)-1]); !ok {
			return Annotation{}, false
		}
		return joined(text, a, b, a.Value+b.Value)
	})
}

// magnitude returns the largest power of ten not above v, for v >= 1.
func magnitude(v float64) float64 {
	mag := 1.0
	for mag*10 <= v {
		mag *= 10
	}
	return mag
}

func (m *Merger) words(s string) []string {
	return tokenizer.Words(normalize.Normalize(s, m.lex))
}

// isGap reports whether only whitespace separates a and b.
func isGap(text string, a, b Annotation) bool {
	return a.End <= b.Start && strings.TrimSpace(text[a.End:b.Start]) == ""
}

func joined(text string, a, b Annotation, v float64) (Annotation, bool) {
	if a.End > b.Start || math.IsNaN(v) || math.IsInf(v, 0) {
		return Annotation{}, false
	}
	return Annotation{
		Text:       text[a.Start:b.End],
		Value:      v,
		Start:      a.Start,
		End:        b.End,
		NumberType: Spoken,
		ValueType:  valueTypeOf(v),
	}, true
}
