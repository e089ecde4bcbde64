package numtext

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/az-ai-labs/numscan/lexicon"
)

// Kind discriminates the variants of a Scalar.
type Kind int

const (
	KindText  Kind = iota // Not yet recognized as a number
	KindInt               // Integral literal
	KindFloat             // Anything else with a value
)

var kindNames = [...]string{
	KindText:  "text",
	KindInt:   "int",
	KindFloat: "float",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Scalar is a token on its way to becoming a number. Only the field
// selected by Kind is meaningful.
type Scalar struct {
	Kind  Kind
	Text  string
	Int   int64
	Float float64
}

// Text returns a text scalar.
func Text(s string) Scalar { return Scalar{Kind: KindText, Text: s} }

// Int returns an integer scalar.
func Int(n int64) Scalar { return Scalar{Kind: KindInt, Int: n} }

// Float returns a float scalar.
func Float(f float64) Scalar { return Scalar{Kind: KindFloat, Float: f} }

// Value returns the numeric value of s, or false for text.
func (s Scalar) Value() (float64, bool) {
	switch s.Kind {
	case KindInt:
		return float64(s.Int), true
	case KindFloat:
		return s.Float, true
	default:
		return 0, false
	}
}

// IsText reports whether s has not been converted.
func (s Scalar) IsText() bool { return s.Kind == KindText }

// String returns a debug representation, e.g. int(42).
func (s Scalar) String() string {
	switch s.Kind {
	case KindInt:
		return fmt.Sprintf("int(%d)", s.Int)
	case KindFloat:
		return fmt.Sprintf("float(%g)", s.Float)
	default:
		return fmt.Sprintf("text(%q)", s.Text)
	}
}

// Stage upgrades the text scalars it recognizes. It never touches a scalar
// that already has a value.
type Stage func([]Scalar) []Scalar

// Stages returns the conversion stages for lex in the order they run:
// direct literal, ordinal numeral, metric suffix, glyph, lexicon word.
func Stages(lex *lexicon.Lexicon) []Stage {
	return []Stage{
		mapText(func(s string) (Scalar, bool) { return literal(s, lex) }),
		mapText(func(s string) (Scalar, bool) { return ordinalNumeral(s, lex) }),
		mapText(func(s string) (Scalar, bool) { return suffixed(s, lex) }),
		mapText(func(s string) (Scalar, bool) { return glyphs(s, lex) }),
		wordStage(lex),
	}
}

// Convert runs every stage over tokens and returns the resulting scalars.
func Convert(tokens []string, lex *lexicon.Lexicon) []Scalar {
	out := make([]Scalar, len(tokens))
	for i, t := range tokens {
		out[i] = Text(t)
	}
	for _, stage := range Stages(lex) {
		out = stage(out)
	}
	return out
}

// mapText lifts a per-token converter into a Stage.
func mapText(conv func(string) (Scalar, bool)) Stage {
	return func(in []Scalar) []Scalar {
		out := make([]Scalar, len(in))
		for i, s := range in {
			out[i] = s
			if !s.IsText() {
				continue
			}
			if v, ok := conv(s.Text); ok {
				out[i] = v
			}
		}
		return out
	}
}

// wordStage looks tokens up in the lexicon after folding them with a caser
// for the lexicon's language. A Caser is stateful, so one is built per call.
func wordStage(lex *lexicon.Lexicon) Stage {
	tag := language.Make(lex.Language())
	return func(in []Scalar) []Scalar {
		fold := cases.Lower(tag)
		return mapText(func(s string) (Scalar, bool) {
			if v, ok := lex.Value(fold.String(s)); ok {
				return Float(v), true
			}
			return Scalar{}, false
		})(in)
	}
}

// literalRe is the grammar a literal must satisfy after separators are
// removed.
var literalRe = regexp.MustCompile(`^[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?$`)

var separatorStripper = strings.NewReplacer(",", "", "_", "", "'", "", " ", "")

// literal parses radix-prefixed and decimal literals. Digit-group
// separators are removed only when the lexicon accepts the grouping.
func literal(s string, lex *lexicon.Lexicon) (Scalar, bool) {
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseInt(s[2:], base, 64)
			if err != nil {
				return Scalar{}, false
			}
			return Int(n), true
		}
	}

	clean := s
	if lex.AnyNumber().FullMatch(strings.TrimLeft(s, "+-")) {
		clean = separatorStripper.Replace(s)
	}
	if !literalRe.MatchString(clean) {
		return Scalar{}, false
	}
	if !strings.ContainsAny(clean, ".eE") {
		if n, err := strconv.ParseInt(clean, 10, 64); err == nil {
			return Int(n), true
		}
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsInf(f, 0) {
		return Scalar{}, false
	}
	return Float(f), true
}

// ordinalNumeral parses "21st" as 21.
func ordinalNumeral(s string, lex *lexicon.Lexicon) (Scalar, bool) {
	m := lex.Ordinal()
	sub := m.FullSubmatch(s)
	if sub == nil {
		return Scalar{}, false
	}
	return literal(sub[m.FullSubexpIndex("number")], lex)
}

// suffixed parses "2.5k" as 2500.
func suffixed(s string, lex *lexicon.Lexicon) (Scalar, bool) {
	m := lex.Suffix()
	sub := m.FullSubmatch(s)
	if sub == nil {
		return Scalar{}, false
	}
	n, ok := literal(sub[m.FullSubexpIndex("number")], lex)
	if !ok {
		return Scalar{}, false
	}
	mult, ok := lex.SuffixValue(sub[m.FullSubexpIndex("suffix")])
	if !ok {
		return Scalar{}, false
	}
	v, _ := n.Value()
	return Float(v * mult), true
}

// glyphs parses a run of superscript or subscript digits, or a single
// vulgar fraction.
func glyphs(s string, lex *lexicon.Lexicon) (Scalar, bool) {
	runes := []rune(s)
	if len(runes) == 0 {
		return Scalar{}, false
	}
	if len(runes) == 1 {
		if v, ok := lex.Fraction(runes[0]); ok {
			return Float(v), true
		}
	}
	for _, lookup := range []func(rune) (float64, bool){lex.Superscript, lex.Subscript} {
		if _, ok := lookup(runes[0]); !ok {
			continue
		}
		var digits strings.Builder
		for _, r := range runes {
			d, ok := lookup(r)
			if !ok {
				return Scalar{}, false
			}
			digits.WriteString(strconv.FormatFloat(d, 'f', -1, 64))
		}
		n, err := strconv.ParseInt(digits.String(), 10, 64)
		if err != nil {
			return Scalar{}, false
		}
		return Int(n), true
	}
	return Scalar{}, false
}
