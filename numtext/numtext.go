// Package numtext converts number phrases to values and back.
//
// The package provides conversion in both directions:
//
//   - Parse turns a phrase ("three hundred and fifty-six", "2.5k", "5th",
//     "minus two dozen") into a float64.
//   - Spell turns an integer into English cardinal words.
//
// Parse first tries the phrase as a single literal. Otherwise it normalizes
// and tokenizes the phrase, drops articles and stray punctuation, converts
// each token through the Stages pipeline (literal, ordinal numeral, metric
// suffix, glyph, lexicon word), and combines the values with the compound
// arithmetic of spoken numbers: hundreds carry, scale words close a group,
// "point" starts decimal digits, and a trailing fraction after "and" adds.
//
// All functions are safe for concurrent use by multiple goroutines.
//
// Known limitations:
//
//   - Values are float64; integers beyond 2^53 lose precision.
//   - A scale word following a larger scale word adds rather than
//     multiplies ("five thousand million" is 1005000).
//   - Spell covers |n| <= 10^18 in English only.
package numtext

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/az-ai-labs/numscan/lexicon"
	"github.com/az-ai-labs/numscan/normalize"
	"github.com/az-ai-labs/numscan/tokenizer"
)

// maxInputBytes is the maximum input size for Parse.
const maxInputBytes = 1 << 20 // 1 MiB

// Parse returns the value of the number phrase s under lex. A nil lex uses
// lexicon.Default(). It reports false for empty, oversized (>1 MiB), or
// unrecognized input, and for results that are not finite.
func Parse(s string, lex *lexicon.Lexicon) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxInputBytes {
		return 0, false
	}
	if lex == nil {
		lex = lexicon.Default()
	}
	v, ok := parse(s, lex)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Tokens returns the tokens Parse combines for s: normalized, with articles
// and stray "." and "," removed.
func Tokens(s string, lex *lexicon.Lexicon) []string {
	if s == "" || len(s) > maxInputBytes {
		return nil
	}
	if lex == nil {
		lex = lexicon.Default()
	}
	return phraseTokens(s, lex)
}

func parse(s string, lex *lexicon.Lexicon) (float64, bool) {
	for _, conv := range []func(string, *lexicon.Lexicon) (Scalar, bool){
		literal, ordinalNumeral, suffixed, glyphs,
	} {
		if v, ok := conv(s, lex); ok {
			return v.Value()
		}
	}

	words := phraseTokens(s, lex)
	if len(words) == 0 {
		return 0, false
	}
	p := newPhrase(words, lex)
	if len(p.vals) == 1 {
		return p.vals[0].Value()
	}
	return p.evaluate()
}

// phraseTokens prepares s for conversion.
func phraseTokens(s string, lex *lexicon.Lexicon) []string {
	s = collapseSpaceGroups(s, lex)
	fold := cases.Lower(language.Make(lex.Language()))

	var out []string
	for _, w := range tokenizer.Words(normalize.Normalize(s, lex)) {
		if w == "." || w == "," {
			continue
		}
		if lex.Classify(fold.String(w)).Category == lexicon.Article {
			continue
		}
		out = append(out, w)
	}
	return out
}

// collapseSpaceGroups removes the spaces of space-grouped integers
// ("12 000" becomes "12000") so the tokenizer keeps them whole.
func collapseSpaceGroups(s string, lex *lexicon.Lexicon) string {
	locs := lex.SpaceGrouped().FindAllIndex(s)
	if len(locs) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	prev := 0
	for _, loc := range locs {
		b.WriteString(s[prev:loc[0]])
		b.WriteString(strings.ReplaceAll(s[loc[0]:loc[1]], " ", ""))
		prev = loc[1]
	}
	b.WriteString(s[prev:])
	return b.String()
}
