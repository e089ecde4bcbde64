// Package lexicon holds the number word tables and the regex patterns derived
// from them.
//
// A Lexicon is built once from a Config and a set of Tables (the English
// tables are embedded; other languages are substituted through YAML via
// LoadTables and NewWithTables). Construction validates the configuration and
// compiles every pattern; any failure is returned as an error, so a Lexicon
// that exists is always usable.
//
// A Lexicon is immutable and safe for concurrent use by multiple goroutines.
// Clone is provided for callers that want a private copy per worker.
package lexicon

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/az-ai-labs/numscan/pattern"
)

// Category is the grammatical role of a lexicon word.
type Category int

const (
	None     Category = iota // Not a lexicon word
	Zero                     // zero
	Ones                     // one .. nine
	Teens                    // ten .. nineteen
	Tens                     // twenty .. ninety
	Hundred                  // hundred
	Scale                    // thousand and above
	Informal                 // half, quarter, dozen, pairs, ...
	And                      // and
	Point                    // point
	Negative                 // minus, negative, neg
	Article                  // a, an
)

var categoryNames = [...]string{
	None:     "None",
	Zero:     "Zero",
	Ones:     "Ones",
	Teens:    "Teens",
	Tens:     "Tens",
	Hundred:  "Hundred",
	Scale:    "Scale",
	Informal: "Informal",
	And:      "And",
	Point:    "Point",
	Negative: "Negative",
	Article:  "Article",
}

// String returns the name of the category.
func (c Category) String() string {
	if int(c) >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Numeric reports whether words of this category carry a value.
func (c Category) Numeric() bool {
	return c >= Zero && c <= Informal
}

// WordClass describes a lexicon word.
type WordClass struct {
	Category Category
	Ordinal  bool    // first, twentieth, hundredth, ...
	Value    float64 // zero for connectors
}

// Lexicon is an immutable, configured view of the number tables.
type Lexicon struct {
	cfg    Config
	tables Tables

	classes  map[string]WordClass
	values   map[string]float64
	informal map[string]float64
	suffixes map[string]float64
	names    map[string]float64
	ordSuf   []string

	p patterns
}

// New builds a lexicon from cfg using the built-in tables for cfg.Language.
func New(cfg Config) (*Lexicon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t, err := BuiltinTables(cfg.Language)
	if err != nil {
		return nil, err
	}
	return build(cfg.Clone(), t)
}

// MustNew is like New but panics on error.
func MustNew(cfg Config) *Lexicon {
	l, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return l
}

// NewWithTables builds a lexicon from cfg and caller-supplied tables. The
// tables' language takes precedence over cfg.Language.
func NewWithTables(cfg Config, t Tables) (*Lexicon, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()
	cfg.Language = t.Language
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return build(cfg, t.Clone())
}

// Default returns a lexicon built from DefaultConfig.
func Default() *Lexicon {
	return MustNew(DefaultConfig())
}

func build(cfg Config, t Tables) (*Lexicon, error) {
	l := &Lexicon{
		cfg:      cfg,
		tables:   t,
		classes:  make(map[string]WordClass),
		values:   make(map[string]float64),
		informal: make(map[string]float64),
		names:    make(map[string]float64),
	}

	l.addClasses(t.Ones, Ones, false)
	l.addClasses(t.OrdinalOnes, Ones, true)
	l.addClasses(t.Teens, Teens, false)
	l.addClasses(t.OrdinalTeens, Teens, true)
	l.addClasses(t.Tens, Tens, false)
	l.addClasses(t.OrdinalTens, Tens, true)
	l.addClasses(t.Multiples, Scale, false)
	l.addClasses(t.OrdinalMultiples, Scale, true)
	l.addClasses(t.InformalExact, Informal, false)
	l.addClasses(t.InformalMultiplyable, Informal, false)
	maps.Copy(l.informal, lowerKeys(t.InformalExact))
	maps.Copy(l.informal, lowerKeys(t.InformalMultiplyable))

	for _, group := range []struct {
		words []string
		cat   Category
	}{
		{t.Articles, Article},
		{t.Ands, And},
		{t.Points, Point},
		{t.Negatives, Negative},
	} {
		for _, w := range group.words {
			l.classes[strings.ToLower(w)] = WordClass{Category: group.cat}
		}
	}

	// Reverse numeric-string keys: "12" -> 12, "0.5" -> 0.5.
	for _, v := range slices.Collect(maps.Values(l.values)) {
		l.values[strconv.FormatFloat(v, 'f', -1, 64)] = v
	}

	suffixes, err := filterSuffixes(cfg, t)
	if err != nil {
		return nil, err
	}
	l.suffixes = suffixes
	if !cfg.excludesAllSuffixes() {
		maps.Copy(l.names, lowerKeys(t.SuffixNames))
	}
	for _, s := range t.OrdinalSuffixes {
		l.ordSuf = append(l.ordSuf, strings.ToLower(s))
	}

	p, err := compilePatterns(l)
	if err != nil {
		return nil, err
	}
	l.p = p
	return l, nil
}

// addClasses registers every word of m under cat. Multiples are split into
// Hundred and Scale by value, and zero-valued ones become Zero.
func (l *Lexicon) addClasses(m map[string]float64, cat Category, ordinal bool) {
	for w, v := range m {
		c := cat
		switch {
		case cat == Scale && v < 1000:
			c = Hundred
		case cat == Ones && v == 0:
			c = Zero
		}
		key := strings.ToLower(w)
		l.classes[key] = WordClass{Category: c, Ordinal: ordinal, Value: v}
		l.values[key] = v
	}
}

func filterSuffixes(cfg Config, t Tables) (map[string]float64, error) {
	if cfg.excludesAllSuffixes() {
		return map[string]float64{}, nil
	}
	out := maps.Clone(t.Suffixes)
	if out == nil {
		out = map[string]float64{}
	}
	for _, s := range cfg.ExcludeSuffixes {
		if _, ok := t.Suffixes[s]; !ok {
			return nil, fmt.Errorf("lexicon: %w: unknown suffix %q", ErrInvalidConfig, s)
		}
		delete(out, s)
	}
	return out, nil
}

func lowerKeys(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

// Config returns a copy of the lexicon's configuration.
func (l *Lexicon) Config() Config {
	return l.cfg.Clone()
}

// Language returns the language of the tables.
func (l *Lexicon) Language() string {
	return l.tables.Language
}

// Clone returns a lexicon with a private copy of the configuration. The
// tables and compiled patterns are shared; both are read-only.
func (l *Lexicon) Clone() *Lexicon {
	c := *l
	c.cfg = l.cfg.Clone()
	return &c
}

// Classify returns the class of word. Lookup is case-insensitive.
func (l *Lexicon) Classify(word string) WordClass {
	return l.classes[strings.ToLower(word)]
}

// Value returns the numeric value of a lexicon word or of a numeric string
// key installed from the tables. Connectors have no value.
func (l *Lexicon) Value(word string) (float64, bool) {
	v, ok := l.values[strings.ToLower(word)]
	return v, ok
}

// Multiple returns the value of a scale word (hundred and above).
func (l *Lexicon) Multiple(word string) (float64, bool) {
	c := l.Classify(word)
	if c.Category != Hundred && c.Category != Scale {
		return 0, false
	}
	return c.Value, true
}

// Informal returns the value of an informal quantity word.
func (l *Lexicon) Informal(word string) (float64, bool) {
	v, ok := l.informal[strings.ToLower(word)]
	return v, ok
}

// SuffixValue returns the multiplier of a metric suffix. Symbols ("k", "M")
// are matched case-sensitively, names ("kilo") case-insensitively. Excluded
// suffixes have no value.
func (l *Lexicon) SuffixValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if v, ok := l.suffixes[s]; ok {
		return v, true
	}
	v, ok := l.names[strings.ToLower(s)]
	return v, ok
}

// Superscript returns the digit value of a superscript rune.
func (l *Lexicon) Superscript(r rune) (float64, bool) {
	v, ok := l.tables.Superscripts[string(r)]
	return v, ok
}

// Subscript returns the digit value of a subscript rune.
func (l *Lexicon) Subscript(r rune) (float64, bool) {
	v, ok := l.tables.Subscripts[string(r)]
	return v, ok
}

// Fraction returns the value of a vulgar fraction glyph.
func (l *Lexicon) Fraction(r rune) (float64, bool) {
	v, ok := l.tables.Fractions[string(r)]
	return v, ok
}

// IsGlyph reports whether r is a superscript, subscript, or fraction glyph.
func (l *Lexicon) IsGlyph(r rune) bool {
	if _, ok := l.Superscript(r); ok {
		return true
	}
	if _, ok := l.Subscript(r); ok {
		return true
	}
	_, ok := l.Fraction(r)
	return ok
}

// OrdinalSuffix returns the ordinal suffix ("st", "nd", ...) that text ends
// with, compared case-insensitively. The suffix is returned as written.
func (l *Lexicon) OrdinalSuffix(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, s := range l.ordSuf {
		if s != "" && strings.HasSuffix(lower, s) && len(text) > len(s) {
			return text[len(text)-len(s):], true
		}
	}
	return "", false
}

// IsValid reports whether token is a number on its own: it fully matches one
// of the literal patterns or is a lexicon number word.
func (l *Lexicon) IsValid(token string) bool {
	if token == "" || !utf8.ValidString(token) {
		return false
	}
	if c := l.Classify(token); c.Category.Numeric() {
		return true
	}
	for _, m := range []*pattern.Matcher{
		l.p.ordinal, l.p.suffix, l.p.suffixName, l.p.hex, l.p.octal, l.p.binary,
		l.p.anyNumber, l.p.superscript, l.p.subscript, l.p.fraction, l.p.informalExact,
	} {
		if m.FullMatch(token) {
			return true
		}
	}
	return false
}

// Tables returns a copy of the raw tables.
func (l *Lexicon) Tables() Tables {
	return l.tables.Clone()
}
