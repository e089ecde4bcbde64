package lexicon

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	c := DefaultConfig()
	assert.Equal(t, "en", c.Language)
	assert.False(t, c.SignsAllowed)
	assert.False(t, c.ParseComplex)
	assert.False(t, c.BoundedNumbers)
	assert.True(t, c.MixedNums)
	assert.True(t, c.Merge)
	assert.True(t, c.MergeMultiples)
	assert.False(t, c.MergeImplied)
	assert.False(t, c.MergePoints)
	assert.True(t, c.MergeInformals)
	assert.Empty(t, c.ExcludeSeparators)
	assert.Equal(t, []string{"m", "y"}, c.ExcludeSuffixes)
	require.NoError(t, c.Validate())
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	a := DefaultConfig()
	b := a.Clone()
	b.ExcludeSuffixes[0] = "k"
	assert.Equal(t, "m", a.ExcludeSuffixes[0])
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty language", func(c *Config) { c.Language = "" }},
		{"unknown separator", func(c *Config) { c.ExcludeSeparators = []string{"|"} }},
		{"all with others", func(c *Config) { c.ExcludeSuffixes = []string{"all", "k"} }},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := DefaultConfig()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)

			_, err = New(c)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNewErrors(t *testing.T) {
	t.Parallel()

	c := DefaultConfig()
	c.Language = "xx"
	_, err := New(c)
	assert.ErrorIs(t, err, ErrUnknownLanguage)

	c = DefaultConfig()
	c.ExcludeSuffixes = []string{"q"}
	_, err = New(c)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	assert.Panics(t, func() { MustNew(Config{}) })
}

func TestBuiltinTables(t *testing.T) {
	t.Parallel()

	tb, err := BuiltinTables("EN")
	require.NoError(t, err)
	assert.Equal(t, "en", tb.Language)
	assert.Equal(t, 1e123, tb.Multiples["quadragintillion"])
	assert.Equal(t, 1e-24, tb.Suffixes["y"])
	assert.Equal(t, 1e6, tb.Suffixes["M"])
	assert.Equal(t, 0.5, tb.Fractions["½"])
	assert.Len(t, tb.Superscripts, 10)
	assert.Equal(t, []string{"en"}, Languages())

	// Callers get private copies.
	tb.Ones["one"] = 99
	again, err := BuiltinTables("en")
	require.NoError(t, err)
	assert.Equal(t, 1.0, again.Ones["one"])
}

func TestLoadTables(t *testing.T) {
	t.Parallel()

	src := `
language: xx
ands: [et]
ones: {un: 1, deux: 2}
teens: {dix: 10}
tens: {vingt: 20}
multiples: {cent: 100, mille: 1000}
`
	tb, err := LoadTables(strings.NewReader(src))
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.ExcludeSuffixes = nil
	l, err := NewWithTables(cfg, tb)
	require.NoError(t, err)

	assert.Equal(t, "xx", l.Language())
	v, ok := l.Value("MILLE")
	assert.True(t, ok)
	assert.Equal(t, 1000.0, v)
	assert.Equal(t, Scale, l.Classify("mille").Category)
	assert.Equal(t, Hundred, l.Classify("cent").Category)
	assert.Equal(t, And, l.Classify("et").Category)
	assert.True(t, l.Suffix().IsNever(), "no suffix tables")

	_, err = LoadTables(strings.NewReader("language: xx\nbogus: 1\n"))
	assert.Error(t, err)

	_, err = LoadTables(strings.NewReader("language: xx\nones: {un: 1}\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	l := Default()
	cases := []struct {
		word    string
		cat     Category
		ordinal bool
		value   float64
	}{
		{"zero", Zero, false, 0},
		{"Seven", Ones, false, 7},
		{"first", Ones, true, 1},
		{"thirteen", Teens, false, 13},
		{"twelfth", Teens, true, 12},
		{"Twenty", Tens, false, 20},
		{"hundred", Hundred, false, 100},
		{"hundredth", Hundred, true, 100},
		{"thousand", Scale, false, 1000},
		{"thousandth", Scale, true, 1000},
		{"dozen", Informal, false, 12},
		{"halves", Informal, false, 0.5},
		{"and", And, false, 0},
		{"point", Point, false, 0},
		{"minus", Negative, false, 0},
		{"a", Article, false, 0},
		{"apple", None, false, 0},
	}

	for _, tt := range cases {
		t.Run(tt.word, func(t *testing.T) {
			t.Parallel()
			got := l.Classify(tt.word)
			assert.Equal(t, tt.cat, got.Category)
			assert.Equal(t, tt.ordinal, got.Ordinal)
			assert.Equal(t, tt.value, got.Value)
		})
	}
}

func TestLookups(t *testing.T) {
	t.Parallel()

	l := Default()

	v, ok := l.Value("12")
	assert.True(t, ok, "reverse numeric key")
	assert.Equal(t, 12.0, v)
	v, ok = l.Value("0.5")
	assert.True(t, ok)
	assert.Equal(t, 0.5, v)
	_, ok = l.Value("and")
	assert.False(t, ok, "connectors carry no value")

	v, ok = l.Multiple("Million")
	assert.True(t, ok)
	assert.Equal(t, 1e6, v)
	_, ok = l.Multiple("twenty")
	assert.False(t, ok)

	v, ok = l.Informal("dozens")
	assert.True(t, ok)
	assert.Equal(t, 12.0, v)

	v, ok = l.SuffixValue("k")
	assert.True(t, ok)
	assert.Equal(t, 1e3, v)
	v, ok = l.SuffixValue("M")
	assert.True(t, ok)
	assert.Equal(t, 1e6, v)
	_, ok = l.SuffixValue("m")
	assert.False(t, ok, "milli is excluded by default")
	v, ok = l.SuffixValue(" KILO")
	assert.True(t, ok)
	assert.Equal(t, 1e3, v)

	v, ok = l.Superscript('²')
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
	v, ok = l.Subscript('₃')
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)
	v, ok = l.Fraction('¾')
	assert.True(t, ok)
	assert.Equal(t, 0.75, v)
	assert.True(t, l.IsGlyph('½'))
	assert.False(t, l.IsGlyph('2'))

	suf, ok := l.OrdinalSuffix("21ST")
	assert.True(t, ok)
	assert.Equal(t, "ST", suf)
	_, ok = l.OrdinalSuffix("th")
	assert.False(t, ok)
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	l := Default()
	for _, s := range []string{"5", "1,000", "2.5e-3", "2.5k", "0x1F", "0b101", "0o17", "21st", "twenty", "²", "½", "one half", "kilo"} {
		assert.True(t, l.IsValid(s), s)
	}
	for _, s := range []string{"", "and", "a", "apple", "5 apples", "\xff"} {
		assert.False(t, l.IsValid(s), s)
	}
}

func TestPatterns(t *testing.T) {
	t.Parallel()

	l := Default()

	assert.Equal(t, [][]int{{0, 9}, {14, 16}}, l.Integer().FindAllIndex("1,000,000 and 42"))
	assert.Equal(t, [][]int{{2, 6}}, l.AnyNumber().FindAllIndex("x 3.14 y"))
	for _, s := range []string{"2.5e-3", ".5", "1e10", "1_000.25"} {
		assert.True(t, l.Float().FullMatch(s), s)
	}
	assert.False(t, l.Float().FullMatch("12"))
	assert.False(t, l.Integer().FullMatch("-5"), "signs off by default")

	assert.Equal(t, [][]int{{0, 4}}, l.Hex().FindAllIndex("0x1F 0x2g"))

	sub := l.Power().FullSubmatch("5 million")
	require.NotNil(t, sub)
	assert.Equal(t, "5", sub[l.Power().FullSubexpIndex("number")])
	assert.Equal(t, "million", sub[l.Power().FullSubexpIndex("power")])
	assert.Nil(t, l.Power().FindAllIndex("5 millions"))

	assert.True(t, l.Ordinal().FullMatch("21ST"))
	assert.False(t, l.Ordinal().FullMatch("21stt"))

	sub = l.Suffix().FullSubmatch("2.5k")
	require.NotNil(t, sub)
	assert.Equal(t, "2.5", sub[l.Suffix().FullSubexpIndex("number")])
	assert.Equal(t, "k", sub[l.Suffix().FullSubexpIndex("suffix")])
	assert.True(t, l.Suffix().FullMatch("5M"))
	assert.True(t, l.Suffix().FullMatch("3 Kilo"))
	assert.False(t, l.Suffix().FullMatch("5m"))
	assert.Nil(t, l.Suffix().FindAllIndex("0x1d"))

	assert.Equal(t, [][]int{{0, 6}}, l.SpaceGrouped().FindAllIndex("12 000 and 5"))
	assert.Equal(t, [][]int{{1, 5}}, l.SuperscriptRun().FindAllIndex("x²³"))
	assert.Equal(t, [][]int{{2, 8}}, l.SubscriptRun().FindAllIndex("CO₂₁"))
	assert.Equal(t, [][]int{{0, 11}}, l.Hyphen().FindAllIndex("twenty-five re-enroll"))
	assert.True(t, l.Hyphen().FullMatch("twenty-first"))
	assert.Equal(t, "two million three", l.MultiplierComma().Regexp().ReplaceAllString("two million, three", "$1"))
	assert.Equal(t, "a hundred, b", l.MultiplierComma().Regexp().ReplaceAllString("a hundred, b", "$1"))

	assert.Len(t, l.FirstPass(), 11)
	assert.Same(t, l.SpaceGrouped(), l.FirstPass()[10])
	assert.Len(t, l.LastPass(), 1)
}

func TestConfigDrivenPatterns(t *testing.T) {
	t.Parallel()

	c := DefaultConfig()
	c.SignsAllowed = true
	c.ParseComplex = true
	l := MustNew(c)
	assert.True(t, l.Integer().FullMatch("-5"))
	assert.True(t, l.Float().FullMatch("+.5"))
	assert.True(t, l.Complex().FullMatch("4j"))
	assert.Len(t, l.FirstPass(), 12)

	c = DefaultConfig()
	c.BoundedNumbers = true
	l = MustNew(c)
	assert.Equal(t, [][]int{{5, 6}}, l.AnyNumber().FindAllIndex("abc5 6"))

	c = DefaultConfig()
	c.ExcludeSeparators = []string{",", " "}
	l = MustNew(c)
	assert.False(t, l.Integer().FullMatch("1,000"))
	assert.True(t, l.Integer().FullMatch("1_000"))
	assert.True(t, l.SpaceGrouped().IsNever())
	assert.Len(t, l.FirstPass(), 10)

	c = DefaultConfig()
	c.ExcludeSeparators = []string{"."}
	l = MustNew(c)
	assert.False(t, l.Float().FullMatch("2.5"))
	assert.True(t, l.Float().FullMatch("2e5"))
}

func TestExcludeAllSuffixes(t *testing.T) {
	t.Parallel()

	c := DefaultConfig()
	c.ExcludeSuffixes = []string{ExcludeAll}
	l := MustNew(c)

	assert.True(t, l.Suffix().IsNever())
	for _, s := range []string{"2.5k", "5M", "3 kilo", "10 G", "7da"} {
		assert.Nil(t, l.Suffix().FindAllIndex(s), s)
	}
	_, ok := l.SuffixValue("k")
	assert.False(t, ok)
	_, ok = l.SuffixValue("kilo")
	assert.False(t, ok)
}

func TestLexiconClone(t *testing.T) {
	t.Parallel()

	l := Default()
	c := l.Clone()
	assert.Equal(t, l.Config(), c.Config())

	cfg := c.Config()
	cfg.ExcludeSuffixes[0] = "zzz"
	assert.Equal(t, "m", c.Config().ExcludeSuffixes[0])
}

func TestCategoryString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Scale", Scale.String())
	assert.Equal(t, "Category(99)", Category(99).String())
	assert.True(t, Informal.Numeric())
	assert.False(t, And.Numeric())
}

func TestConcurrentSafety(t *testing.T) {
	l := Default()
	var wg sync.WaitGroup
	for range 100 {
		wg.Go(func() {
			l.Classify("twenty")
			l.Value("5")
			l.IsValid("2.5k")
			l.Suffix().FindAllIndex("3k and 2M")
			l.Clone()
			_, _ = New(DefaultConfig())
		})
	}
	wg.Wait()
}
