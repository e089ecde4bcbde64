package numtext

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/az-ai-labs/numscan/lexicon"
)

// groupedThousand matches a first token like "2,500", which reads as a
// decimal ("2.5 million") rather than an integer.
var groupedThousand = regexp.MustCompile(`^\d,\d{3}$`)

// phrase holds the parallel views of a token list: as written, folded for
// lexicon lookups, and converted.
type phrase struct {
	lex    *lexicon.Lexicon
	words  []string
	folded []string
	vals   []Scalar
}

func newPhrase(words []string, lex *lexicon.Lexicon) phrase {
	fold := cases.Lower(language.Make(lex.Language()))
	folded := make([]string, len(words))
	for i, w := range words {
		folded[i] = fold.String(w)
	}
	return phrase{lex: lex, words: words, folded: folded, vals: Convert(words, lex)}
}

func (p phrase) len() int { return len(p.words) }

func (p phrase) slice(from, to int) phrase {
	return phrase{lex: p.lex, words: p.words[from:to], folded: p.folded[from:to], vals: p.vals[from:to]}
}

func (p phrase) category(i int) lexicon.Category {
	return p.lex.Classify(p.folded[i]).Category
}

func (p phrase) is(i int, c lexicon.Category) bool {
	return i >= 0 && i < p.len() && p.category(i) == c
}

func (p phrase) index(c lexicon.Category) int {
	for i := range p.words {
		if p.is(i, c) {
			return i
		}
	}
	return -1
}

// isMultiplier reports a scale word or an informal quantity.
func (p phrase) isMultiplier(i int) bool {
	switch p.category(i) {
	case lexicon.Hundred, lexicon.Scale, lexicon.Informal:
		return true
	}
	return false
}

// evaluate applies the combination rules in order. The caller guarantees
// at least two tokens.
func (p phrase) evaluate() (float64, bool) {
	if v, ok := p.power(); ok {
		return v, true
	}

	sign := 1.0
	if p.is(0, lexicon.Negative) {
		sign = -1
		p = p.slice(1, p.len())
	}
	if p.is(0, lexicon.And) {
		p = p.slice(1, p.len())
	}

	var (
		v  float64
		ok bool
	)
	switch {
	case p.len() == 0:
		return 0, false
	case p.len() == 1:
		v, ok = p.vals[0].Value()
	case p.index(lexicon.Point) >= 0:
		v, ok = p.decimal(p.index(lexicon.Point))
	case p.len() == 2:
		v, ok = p.pair()
	default:
		v, ok = p.general()
	}
	return sign * v, ok
}

// power handles a number followed by one multiplier, optionally after a
// negative: "two dozen", "5 million", "minus three quarters". An "and"
// right before the multiplier adds instead ("five and a half").
func (p phrase) power() (float64, bool) {
	var idx []int
	for i := range p.words {
		if !p.is(i, lexicon.And) {
			idx = append(idx, i)
		}
	}
	if len(idx) < 2 || len(idx) > 3 {
		return 0, false
	}
	sign := 1.0
	if len(idx) == 3 {
		if !p.is(idx[0], lexicon.Negative) {
			return 0, false
		}
		sign = -1
		idx = idx[1:]
	}

	a, b := idx[0], idx[1]
	if !p.isMultiplier(b) {
		return 0, false
	}
	num, ok := p.vals[a].Value()
	if !ok {
		return 0, false
	}
	mult, ok := p.vals[b].Value()
	if !ok {
		return 0, false
	}
	if p.is(b-1, lexicon.And) {
		return sign * (num + mult), true
	}
	return sign * num * mult, true
}

// decimal reads "WHOLE point D D ... [SCALE]".
func (p phrase) decimal(at int) (float64, bool) {
	whole, frac := p.slice(0, at), p.slice(at+1, p.len())

	mult := 1.0
	if last := frac.len() - 1; last >= 0 {
		if c := frac.category(last); c == lexicon.Hundred || c == lexicon.Scale {
			mult, _ = frac.vals[last].Value()
			frac = frac.slice(0, last)
		}
	}
	if frac.len() == 0 {
		return 0, false
	}

	var digits strings.Builder
	digits.WriteString("0.")
	for _, s := range frac.vals {
		d, ok := s.Value()
		if !ok || d < 0 || d >= 100 || d != math.Trunc(d) {
			return 0, false
		}
		digits.WriteString(strconv.FormatInt(int64(d), 10))
	}
	dec, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return 0, false
	}

	w := 0.0
	if whole.len() > 0 {
		var ok bool
		if w, ok = whole.general(); !ok {
			return 0, false
		}
	}
	return (w + dec) * mult, true
}

// pair combines exactly two values: ascending or equal multiplies ("five
// hundred", "ten ten"), descending adds ("twenty one").
func (p phrase) pair() (float64, bool) {
	v1, ok := p.vals[0].Value()
	if !ok {
		return 0, false
	}
	v2, ok := p.vals[1].Value()
	if !ok {
		return 0, false
	}
	if groupedThousand.MatchString(p.words[0]) {
		v1 /= 1000
	}
	if v1 <= v2 {
		return v1 * v2, true
	}
	return v1 + v2, true
}

type item struct {
	v     float64
	scale bool
}

// general sums buckets of small values with the hundred-carry rule and
// closes each bucket with the scale word that follows it.
func (p phrase) general() (float64, bool) {
	frac, fracAdds, hasFrac := 0.0, false, false
	if n := p.len(); n >= 2 {
		if v, ok := p.vals[n-1].Value(); ok && v > 0 && v < 1 {
			if p.is(n-2, lexicon.And) {
				frac, fracAdds, hasFrac = v, true, true
				p = p.slice(0, n-1)
			} else if _, ok := p.vals[n-2].Value(); ok {
				frac, hasFrac = v, true
				p = p.slice(0, n-1)
			}
		}
	}

	items := make([]item, 0, p.len())
	for i, s := range p.vals {
		if p.is(i, lexicon.And) {
			continue
		}
		v, ok := s.Value()
		if !ok {
			return 0, false
		}
		items = append(items, item{v: v, scale: p.is(i, lexicon.Scale)})
	}
	if len(items) == 0 {
		return 0, false
	}

	total, bucket, open := 0.0, 0.0, false
	for _, it := range items {
		switch {
		case it.scale && open:
			total += bucket * it.v
			bucket, open = 0, false
		case it.scale:
			total += it.v
		case !open:
			bucket, open = it.v, true
		case it.v == 100:
			bucket *= 100
		default:
			bucket += it.v
		}
	}
	if open {
		total += bucket
	}

	switch {
	case !hasFrac:
	case fracAdds:
		total += frac
	default:
		total *= frac
	}
	return total, true
}
