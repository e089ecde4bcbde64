// Package normalize rewrites free text into a canonical spacing that the
// number classifier can tokenize without ambiguity.
//
// Normalize composes the text to NFC, replaces long whitespace runs and
// doubled commas with sentinel words, strips the comma after a scale word
// ("two million, three" becomes "two million three"), splits hyphenated
// number compounds, and pads punctuation and signs with spaces. The output
// is joined on single spaces.
//
// Normalization is idempotent: Normalize(Normalize(s)) == Normalize(s).
//
// All functions are safe for concurrent use by multiple goroutines.
//
// Known limitations:
//
//   - Offsets into the normalized text do not map back to the input; callers
//     that need spans recover them by searching the original text.
//   - Only ASCII digits count as digits for padding purposes.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/az-ai-labs/numscan/lexicon"
)

// maxInputBytes is the maximum input size for Normalize.
// Inputs exceeding this are returned unchanged.
const maxInputBytes = 1 << 20 // 1 MiB

// Sentinel words that stand in for layout the tokenizer would otherwise lose.
const (
	SpaceSentinel = "SPACE"
	CommaSentinel = "COMMA"
)

var (
	longSpaceRe   = regexp.MustCompile(lexicon.Space + `{4,}`)
	doubleCommaRe = regexp.MustCompile(`,` + lexicon.Space + `*,`)
)

// Normalize returns the canonical form of s under lex. A nil lex uses
// lexicon.Default(). Empty or oversized (>1 MiB) input is returned unchanged.
func Normalize(s string, lex *lexicon.Lexicon) string {
	if s == "" || len(s) > maxInputBytes {
		return s
	}
	if lex == nil {
		lex = lexicon.Default()
	}
	return normalize(s, lex)
}

func normalize(s string, lex *lexicon.Lexicon) string {
	s = norm.NFC.String(s)
	s = longSpaceRe.ReplaceAllLiteralString(s, " "+SpaceSentinel+" ")
	s = doubleCommaRe.ReplaceAllLiteralString(s, " "+CommaSentinel+" ")
	if re := lex.MultiplierComma().Regexp(); re != nil {
		s = re.ReplaceAllString(s, "${1} ")
	}
	s = splitCompounds(s, lex)
	s = pad([]rune(s), lex.Config().BoundedNumbers)
	return strings.Join(strings.Fields(s), " ")
}

// splitCompounds replaces the hyphen of every number compound with a space
// until none is left. "twenty-five-thousand" needs two rounds because the
// matches share "five".
func splitCompounds(s string, lex *lexicon.Lexicon) string {
	re := lex.Hyphen().Regexp()
	if re == nil {
		return s
	}
	for {
		next := re.ReplaceAllStringFunc(s, func(m string) string {
			return strings.ReplaceAll(m, "-", " ")
		})
		if next == s {
			return s
		}
		s = next
	}
}

// pad surrounds punctuation and signs with spaces. Every decision looks at
// the input neighbours, never at inserted spaces.
func pad(rs []rune, bounded bool) string {
	var b strings.Builder
	b.Grow(len(rs) + len(rs)/2)

	at := func(i int) rune {
		if i < 0 || i >= len(rs) {
			return 0
		}
		return rs[i]
	}

	for i, r := range rs {
		p, pp, n := at(i-1), at(i-2), at(i+1)
		before, after := false, false

		switch {
		case r == '-' && i > 0 && i+1 < len(rs) &&
			(isDigit(p) && isDigit(n) || isText(p) && isText(n)):
			before, after = true, true
		case r == '-' || r == '+':
			// "1e-5" keeps its sign attached.
			before = i > 0 && !unicode.IsSpace(p) && !(isExponent(p) && isDigit(pp))
			after = unicode.IsLetter(n)
		case r == '.', r == ',', r == '\'', r == '`':
			before = !isDigit(n)
			after = before
		case !bounded && unicode.IsLetter(r) && isDigit(n) && !isDigit(p):
			after = true
		}

		if before {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		if after {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isExponent(r rune) bool { return r == 'e' || r == 'E' }

// isText reports a rune that is neither a digit nor whitespace.
func isText(r rune) bool {
	return r != 0 && !isDigit(r) && !unicode.IsSpace(r)
}
