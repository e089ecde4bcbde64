package lexicon

import (
	"maps"
	"slices"
	"strings"

	"github.com/az-ai-labs/numscan/pattern"
)

// patterns holds every compiled matcher derived from the tables and config.
type patterns struct {
	integer, float, anyNumber   *pattern.Matcher
	complex                     *pattern.Matcher
	binary, hex, octal          *pattern.Matcher
	power                       *pattern.Matcher
	suffix, suffixName          *pattern.Matcher
	informalExact, informalMult *pattern.Matcher
	ordinal                     *pattern.Matcher
	superscript, subscript      *pattern.Matcher
	fraction                    *pattern.Matcher
	hyphen, multiplierComma     *pattern.Matcher
	spaceGrouped                *pattern.Matcher

	first []*pattern.Matcher
	last  []*pattern.Matcher
}

// Digit-group separators in the order their integer alternatives are tried.
var groupSeparators = []string{",", "_", "'", " "}

// Space matches one rune for which unicode.IsSpace reports true. RE2's \s
// is ASCII-only and misses \v, U+0085, and the Z categories.
const Space = `[\s\v\x{85}\p{Z}]`

const (
	exponent = `[eE][-+]?\d+`
	decimal  = `\.\d+`
	sign     = `[-+]?`
)

var (
	// rightLetters rejects only a trailing letter or underscore.
	rightLetters = pattern.Boundary{Right: pattern.Letters.Right}
	// leftWords keeps "1d" inside "0x1d" from reading as a suffixed number.
	leftWords = pattern.Boundary{Left: pattern.Words.Left}
)

func keys(ms ...map[string]float64) []string {
	var out []string
	for _, m := range ms {
		out = append(out, slices.Collect(maps.Keys(m))...)
	}
	return out
}

// alternation escapes and joins the keys of ms longest first.
func alternation(ms ...map[string]float64) string {
	return pattern.Join(pattern.EscapeAll(keys(ms...)))
}

// integerExpr returns the integer pattern text.
func (l *Lexicon) integerExpr() string {
	var alts []string
	for _, sep := range groupSeparators {
		if l.cfg.allowsSeparator(sep) {
			alts = append(alts, `\d{1,3}(?:`+pattern.Escape(sep)+`\d{3})+`)
		}
	}
	alts = append(alts, `\d+`)
	expr := "(?:" + strings.Join(alts, "|") + ")"
	if l.cfg.BoundedNumbers {
		expr = `\b` + expr
	}
	if l.cfg.SignsAllowed {
		expr = sign + expr
	}
	return expr
}

func (l *Lexicon) floatExpr() string {
	intre := l.integerExpr()
	if !l.cfg.allowsSeparator(".") {
		return "(?:" + intre + exponent + ")"
	}
	lead := decimal
	if l.cfg.SignsAllowed {
		lead = sign + decimal
	}
	return "(?:" + strings.Join([]string{
		intre + decimal + pattern.Optional(exponent),
		intre + pattern.Optional(decimal) + exponent,
		lead + pattern.Optional(exponent),
	}, "|") + ")"
}

func (l *Lexicon) anyNumberExpr() string {
	return "(?:" + l.floatExpr() + "|" + l.integerExpr() + ")"
}

// multiplesExpr joins scale words, optionally without hundred.
func (l *Lexicon) multiplesExpr(withHundred bool) string {
	var words []string
	for _, m := range []map[string]float64{l.tables.Multiples, l.tables.OrdinalMultiples} {
		for w, v := range m {
			if withHundred || v >= 1000 {
				words = append(words, w)
			}
		}
	}
	return pattern.Join(pattern.EscapeAll(words))
}

func (l *Lexicon) suffixExpr() string {
	if l.cfg.excludesAllSuffixes() {
		return ""
	}
	names := alternation(l.tables.SuffixNames)
	symbols := alternation(l.suffixes)
	var parts []string
	if names != "" {
		parts = append(parts, `\s*`+pattern.Fold(names))
	}
	if symbols != "" {
		parts = append(parts, symbols)
	}
	if len(parts) == 0 {
		return ""
	}
	return pattern.Named("number", l.anyNumberExpr()) +
		pattern.Named("suffix", strings.Join(parts, "|")) + `\b`
}

func (l *Lexicon) hyphenExpr() string {
	ones := alternation(l.tables.Ones)
	ordOnes := alternation(l.tables.OrdinalOnes)
	teens := alternation(l.tables.Teens)
	tens := alternation(l.tables.Tens)
	mults := alternation(l.tables.Multiples, l.tables.OrdinalMultiples)

	var alts []string
	if right := pattern.Join([]string{ones, ordOnes, mults}); tens != "" && right != "" {
		alts = append(alts, tens+"-"+right)
	}
	if ones != "" && mults != "" {
		alts = append(alts, ones+"-"+mults)
	}
	if teens != "" && mults != "" {
		alts = append(alts, teens+"-"+mults)
	}
	if len(alts) == 0 {
		return ""
	}
	return `(?i)\b(?:` + strings.Join(alts, "|") + `)\b`
}

func (l *Lexicon) glyphRunExpr(m map[string]float64) string {
	alt := alternation(m)
	if alt == "" {
		return ""
	}
	return alt + "+"
}

func compilePatterns(l *Lexicon) (patterns, error) {
	var p patterns
	anyNum := l.anyNumberExpr()
	numberBound := pattern.None
	if l.cfg.BoundedNumbers {
		numberBound = pattern.Letters
	}

	informalExact := ""
	if exact := alternation(l.tables.InformalExact); exact != "" {
		one := pattern.Join(append([]string{"1", "0"}, pattern.EscapeAll(keys(l.tables.Ones))...))
		informalExact = `(?i:` + one + `\s+` + exact + `)`
	}
	informalMult := ""
	if mult := alternation(l.tables.InformalMultiplyable); mult != "" {
		informalMult = anyNum + `\s+` + pattern.Fold(mult)
	}
	power := ""
	if mults := l.multiplesExpr(true); mults != "" {
		power = pattern.Named("number", anyNum) + `\s*` + pattern.Named("power", pattern.Fold(mults))
	}
	comma := ""
	if mults := l.multiplesExpr(false); mults != "" {
		comma = `(?i)\b(` + mults + `)` + Space + `*,`
	}
	ordinal := ""
	if suf := pattern.Join(pattern.EscapeAll(l.ordSuf)); suf != "" {
		ordinal = pattern.Named("number", l.integerExpr()) + pattern.Named("ordinal", pattern.Fold(suf))
	}
	spaceGrouped := ""
	if l.cfg.allowsSeparator(" ") {
		spaceGrouped = `\d{1,3}(?: \d{3})+`
	}

	specs := []struct {
		dst   **pattern.Matcher
		expr  string
		bound pattern.Boundary
	}{
		{&p.integer, l.integerExpr(), numberBound},
		{&p.float, l.floatExpr(), numberBound},
		{&p.anyNumber, anyNum, numberBound},
		{&p.complex, anyNum + `[ij]\b`, pattern.Words},
		{&p.binary, `0[bB][01]+`, pattern.Letters},
		{&p.hex, `0[xX][0-9a-fA-F]+`, pattern.Letters},
		{&p.octal, `0[oO][0-7]+`, pattern.Letters},
		{&p.power, power, rightLetters},
		{&p.suffix, l.suffixExpr(), leftWords},
		{&p.suffixName, pattern.Fold(alternation(l.names)), pattern.Letters},
		{&p.informalExact, informalExact, pattern.Words},
		{&p.informalMult, informalMult, pattern.Words},
		{&p.ordinal, ordinal, pattern.Words},
		{&p.superscript, l.glyphRunExpr(l.tables.Superscripts), pattern.None},
		{&p.subscript, l.glyphRunExpr(l.tables.Subscripts), pattern.None},
		{&p.fraction, alternation(l.tables.Fractions), pattern.None},
		{&p.hyphen, l.hyphenExpr(), pattern.None},
		{&p.multiplierComma, comma, pattern.None},
		{&p.spaceGrouped, spaceGrouped, pattern.Alnum},
	}
	for _, s := range specs {
		m, err := pattern.Compile(s.expr, s.bound)
		if err != nil {
			return patterns{}, err
		}
		*s.dst = m
	}

	p.first = []*pattern.Matcher{
		p.suffix, p.superscript, p.subscript, p.fraction, p.hex, p.octal, p.binary,
	}
	if l.cfg.ParseComplex {
		p.first = append(p.first, p.complex)
	}
	p.first = append(p.first, p.ordinal, p.power, p.informalMult)
	if spaceGrouped != "" {
		// Claimed before the word classifier splits "12 000" into two literals.
		p.first = append(p.first, p.spaceGrouped)
	}
	p.last = []*pattern.Matcher{p.anyNumber}
	return p, nil
}

// Integer matches integer literals with the allowed digit-group separators.
func (l *Lexicon) Integer() *pattern.Matcher { return l.p.integer }

// Float matches decimal and exponent literals.
func (l *Lexicon) Float() *pattern.Matcher { return l.p.float }

// AnyNumber matches a float or integer literal, floats first.
func (l *Lexicon) AnyNumber() *pattern.Matcher { return l.p.anyNumber }

// Complex matches imaginary literals such as "4j".
func (l *Lexicon) Complex() *pattern.Matcher { return l.p.complex }

// Binary matches 0b literals.
func (l *Lexicon) Binary() *pattern.Matcher { return l.p.binary }

// Hex matches 0x literals.
func (l *Lexicon) Hex() *pattern.Matcher { return l.p.hex }

// Octal matches 0o literals.
func (l *Lexicon) Octal() *pattern.Matcher { return l.p.octal }

// Power matches a number followed by a scale word ("5 million"). Groups:
// number, power.
func (l *Lexicon) Power() *pattern.Matcher { return l.p.power }

// Suffix matches a number followed by a metric suffix ("2.5k", "3 kilo").
// Groups: number, suffix. Never matches when all suffixes are excluded.
func (l *Lexicon) Suffix() *pattern.Matcher { return l.p.suffix }

// SuffixName matches a metric suffix name on its own.
func (l *Lexicon) SuffixName() *pattern.Matcher { return l.p.suffixName }

// InformalExact matches "one half", "1 dozen", ...
func (l *Lexicon) InformalExact() *pattern.Matcher { return l.p.informalExact }

// InformalMultiplyable matches a number followed by a plural informal
// quantity ("3 dozens").
func (l *Lexicon) InformalMultiplyable() *pattern.Matcher { return l.p.informalMult }

// Ordinal matches ordinal numerals ("21st"). Groups: number, ordinal.
func (l *Lexicon) Ordinal() *pattern.Matcher { return l.p.ordinal }

// SuperscriptRun matches runs of superscript digits.
func (l *Lexicon) SuperscriptRun() *pattern.Matcher { return l.p.superscript }

// SubscriptRun matches runs of subscript digits.
func (l *Lexicon) SubscriptRun() *pattern.Matcher { return l.p.subscript }

// FractionGlyph matches a single vulgar fraction glyph.
func (l *Lexicon) FractionGlyph() *pattern.Matcher { return l.p.fraction }

// Hyphen matches hyphenated compounds of the number grammar ("twenty-five").
func (l *Lexicon) Hyphen() *pattern.Matcher { return l.p.hyphen }

// MultiplierComma matches a scale word above hundred followed by a comma.
// Group 1 is the word.
func (l *Lexicon) MultiplierComma() *pattern.Matcher { return l.p.multiplierComma }

// SpaceGrouped matches integers grouped with single spaces ("12 000").
// Never matches when the space separator is excluded.
func (l *Lexicon) SpaceGrouped() *pattern.Matcher { return l.p.spaceGrouped }

// FirstPass returns the prioritized matchers applied to raw text.
func (l *Lexicon) FirstPass() []*pattern.Matcher { return slices.Clone(l.p.first) }

// LastPass returns the matchers applied to whatever text remains.
func (l *Lexicon) LastPass() []*pattern.Matcher { return slices.Clone(l.p.last) }
