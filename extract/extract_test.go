package extract

import (
	"encoding/json"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/az-ai-labs/numscan/entity"
	"github.com/az-ai-labs/numscan/lexicon"
)

// verifyInvariants checks that every annotation slices text at its
// offsets, that annotations are sorted and disjoint, and that values are
// finite.
func verifyInvariants(t *testing.T, text string, anns []Annotation) {
	t.Helper()
	prevEnd := 0
	for i, a := range anns {
		if a.Start < prevEnd || a.End < a.Start || a.End > len(text) {
			t.Fatalf("annotation %d has bad span [%d:%d] after %d", i, a.Start, a.End, prevEnd)
		}
		if got := text[a.Start:a.End]; got != a.Text {
			t.Errorf("annotation %d offset invariant broken: text[%d:%d]=%q, Text=%q",
				i, a.Start, a.End, got, a.Text)
		}
		if math.IsNaN(a.Value) || math.IsInf(a.Value, 0) {
			t.Errorf("annotation %d has non-finite value %v", i, a.Value)
		}
		prevEnd = a.End
	}
}

func lexiconWith(t testing.TB, edit func(*lexicon.Config)) *lexicon.Lexicon {
	t.Helper()
	cfg := lexicon.DefaultConfig()
	edit(&cfg)
	lex, err := lexicon.New(cfg)
	require.NoError(t, err)
	return lex
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Annotation
	}{
		{"digit", "I have 3 apples", []Annotation{
			{Text: "3", Value: 3, Start: 7, End: 8, NumberType: Integer, ValueType: IntegerValue},
		}},
		{"words and suffix", "twenty five apples and 2.5k users", []Annotation{
			{Text: "twenty five", Value: 25, Start: 0, End: 11, NumberType: Spoken, ValueType: IntegerValue},
			{Text: "2.5k", Value: 2500, Start: 23, End: 27, NumberType: Float, ValueType: IntegerValue, Suffix: "k"},
		}},
		{"scale comma", "two million, three hundred thousand people", []Annotation{
			{Text: "two million, three hundred thousand", Value: 2300000, Start: 0, End: 35, NumberType: Spoken, ValueType: IntegerValue},
		}},
		{"ordinal numeral", "the 21st century", []Annotation{
			{Text: "21st", Value: 21, Start: 4, End: 8, NumberType: Ordinal, ValueType: IntegerValue, Suffix: "st"},
		}},
		{"ordinal words", "twenty first and second place", []Annotation{
			{Text: "twenty first", Value: 21, Start: 0, End: 12, NumberType: Ordinal, ValueType: IntegerValue, Suffix: "st"},
			{Text: "second", Value: 2, Start: 17, End: 23, NumberType: Ordinal, ValueType: IntegerValue, Suffix: "nd"},
		}},
		{"hex", "x = 0x1F", []Annotation{
			{Text: "0x1F", Value: 31, Start: 4, End: 8, NumberType: Hex, ValueType: IntegerValue},
		}},
		{"glyphs", "x² + ½", []Annotation{
			{Text: "²", Value: 2, Start: 1, End: 3, NumberType: Superscript, ValueType: IntegerValue},
			{Text: "½", Value: 0.5, Start: 6, End: 8, NumberType: Superscript, ValueType: FloatValue},
		}},
		{"mixed and informal", "5 and a half", []Annotation{
			{Text: "5 and a half", Value: 5.5, Start: 0, End: 12, NumberType: Spoken, ValueType: FloatValue},
		}},
		{"scale after power", "5 thousand million", []Annotation{
			{Text: "5 thousand million", Value: 5e9, Start: 0, End: 18, NumberType: Spoken, ValueType: IntegerValue},
		}},
		{"space grouped", "it is 12 000 km", []Annotation{
			{Text: "12 000", Value: 12000, Start: 6, End: 12, NumberType: Integer, ValueType: IntegerValue},
		}},
		{"beyond int64", "ten quintillion stars", []Annotation{
			{Text: "ten quintillion", Value: 1e19, Start: 0, End: 15, NumberType: Spoken, ValueType: IntegerValue},
		}},
		{"negative word without signs", "minus five degrees", []Annotation{
			{Text: "five", Value: 5, Start: 6, End: 10, NumberType: Spoken, ValueType: IntegerValue},
		}},
		{"no numbers", "nothing to see here", nil},
	}

	e := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := e.Parse(tt.input)
			verifyInvariants(t, tt.input, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEmptyAndOversized(t *testing.T) {
	t.Parallel()

	e := New(nil)
	assert.Nil(t, e.Parse(""))
	assert.Nil(t, e.Candidates(""))

	big := strings.Repeat("7 ", maxInputBytes/2+1)
	assert.Nil(t, e.Parse(big))
}

func TestParseSigns(t *testing.T) {
	t.Parallel()

	e := New(lexiconWith(t, func(c *lexicon.Config) { c.SignsAllowed = true }))
	got := e.Parse("minus five degrees")
	require.Len(t, got, 1)
	assert.Equal(t, "minus five", got[0].Text)
	assert.Equal(t, -5.0, got[0].Value)
	assert.Equal(t, Spoken, got[0].NumberType)
}

func TestParseComplex(t *testing.T) {
	t.Parallel()

	e := New(lexiconWith(t, func(c *lexicon.Config) { c.ParseComplex = true }))
	got := e.Parse("z = 4j")
	require.Len(t, got, 1)
	assert.Equal(t, Annotation{Text: "4j", Value: 4, Start: 4, End: 6, NumberType: Complex, ValueType: ComplexValue}, got[0])
}

func TestParseMergeInformals(t *testing.T) {
	t.Parallel()

	const text = "5 and a half"

	e := New(lexiconWith(t, func(c *lexicon.Config) { c.MixedNums = false }))
	got := e.Parse(text)
	verifyInvariants(t, text, got)
	require.Len(t, got, 1)
	assert.Equal(t, Annotation{Text: text, Value: 5.5, Start: 0, End: 12, NumberType: Spoken, ValueType: FloatValue}, got[0])

	e = New(lexiconWith(t, func(c *lexicon.Config) {
		c.MixedNums = false
		c.Merge = false
	}))
	got = e.Parse(text)
	verifyInvariants(t, text, got)
	require.Len(t, got, 2)
	assert.Equal(t, "5", got[0].Text)
	assert.Equal(t, Annotation{Text: "a half", Value: 0.5, Start: 6, End: 12, NumberType: Spoken, ValueType: FloatValue}, got[1])
}

func TestParseMergeMultiplesOff(t *testing.T) {
	t.Parallel()

	e := New(lexiconWith(t, func(c *lexicon.Config) { c.MergeMultiples = false }))
	got := e.Parse("5 thousand million")
	require.Len(t, got, 2)
	assert.Equal(t, "5 thousand", got[0].Text)
	assert.Equal(t, 5000.0, got[0].Value)
	assert.Equal(t, "million", got[1].Text)
	assert.Equal(t, 1e6, got[1].Value)
}

func TestCandidates(t *testing.T) {
	t.Parallel()

	e := New(nil)

	assert.Equal(t, []Candidate{{Text: "5", Start: 3, End: 4, Pass: LastPass}}, e.Candidates("abc5"))
	assert.Equal(t, []Candidate{
		{Text: "2.5k", Start: 0, End: 4, Pass: FirstPass},
		{Text: "twenty", Start: 9, End: 15, Pass: MiddlePass},
	}, e.Candidates("2.5k and twenty"))
}

func TestParseNumbers(t *testing.T) {
	t.Parallel()

	got, err := ParseNumbers("I have 3 apples", lexicon.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3.0, got[0].Value)

	cfg := lexicon.DefaultConfig()
	cfg.Language = ""
	_, err = ParseNumbers("3", cfg)
	require.ErrorIs(t, err, lexicon.ErrInvalidConfig)
}

func TestRecognizer(t *testing.T) {
	t.Parallel()

	const text = "I have 3 apples"
	tokens := entity.NewPipeline(NewRecognizer(nil)).Extract(text)
	assert.Equal(t, []entity.Token{
		{Text: "I have ", Start: 0, End: 7},
		{Text: "3", Entity: EntityNumber, Start: 7, End: 8},
		{Text: " apples", Start: 8, End: 15},
	}, tokens)

	assert.Nil(t, NewRecognizer(nil).Parse("no numbers"))
}

func TestRecognizerAfterRegexStage(t *testing.T) {
	t.Parallel()

	units, err := entity.NewPatternRecognizer(entity.Pattern{Entity: "unit", Expr: `\bkg\b`})
	require.NoError(t, err)

	const text = "add 2 kg and twenty grams"
	tokens := entity.NewPipeline(units, NewRecognizer(nil)).Extract(text)

	var labeled []string
	for _, tok := range tokens {
		if tok.Typed() {
			labeled = append(labeled, tok.Entity+":"+tok.Text)
		}
	}
	assert.Equal(t, []string{"number:2", "unit:kg", "number:twenty"}, labeled)
}

func TestWithLogger(t *testing.T) {
	t.Parallel()

	e := New(nil, WithLogger(zaptest.NewLogger(t)), WithLogger(nil))
	got := e.Parse("twenty five and abc5")
	verifyInvariants(t, "twenty five and abc5", got)
	require.Len(t, got, 2)
	assert.Equal(t, 25.0, got[0].Value)
	assert.Equal(t, 5.0, got[1].Value)
}

func TestWorkersMatchSequential(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("twenty five apples, 2.5k users, the 21st of 0x1F and x² + ½. ", 20)
	want := New(nil).Parse(text)
	require.NotEmpty(t, want)

	for _, n := range []int{0, 2, 8} {
		got := New(nil, WithWorkers(n)).Parse(text)
		assert.Equal(t, want, got, "workers=%d", n)
	}
}

func TestConcurrentSafety(t *testing.T) {
	t.Parallel()

	e := New(nil, WithWorkers(4))
	const text = "two million, three hundred thousand people and 2.5k users"
	want := e.Parse(text)

	var wg sync.WaitGroup
	for range 100 {
		wg.Go(func() {
			got := e.Parse(text)
			if len(got) != len(want) {
				t.Errorf("got %d annotations, want %d", len(got), len(want))
			}
		})
	}
	wg.Wait()
}

func TestNumberTypeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "spoken", Spoken.String())
	assert.Equal(t, "superscript", Superscript.String())
	assert.Equal(t, "NumberType(99)", NumberType(99).String())
	assert.Equal(t, "complex", ComplexValue.String())
	assert.Equal(t, "ValueType(-1)", ValueType(-1).String())
	assert.Equal(t, "middle", MiddlePass.String())
}

func TestAnnotationJSON(t *testing.T) {
	t.Parallel()

	a := Annotation{Text: "2.5k", Value: 2500, Start: 4, End: 8, NumberType: Float, ValueType: IntegerValue, Suffix: "k"}
	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"text":"2.5k","value":2500,"start":4,"end":8,"number_type":"float","value_type":"integer","suffix":"k"}`,
		string(data))

	var back Annotation
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, a, back)

	var nt NumberType
	assert.Error(t, json.Unmarshal([]byte(`"roman"`), &nt))
	var vt ValueType
	assert.Error(t, json.Unmarshal([]byte(`"rational"`), &vt))
}

func TestAnnotationString(t *testing.T) {
	t.Parallel()

	a := Annotation{Text: "two dozen", Value: 24, Start: 4, End: 13, NumberType: Spoken}
	assert.Equal(t, `spoken("two dozen"=24)[4:13]`, a.String())
}

func BenchmarkParse(b *testing.B) {
	e := New(nil)
	text := strings.Repeat("twenty five apples, 2.5k users and the 21st of 0x1F. ", 10)
	for b.Loop() {
		e.Parse(text)
	}
}

func BenchmarkParseWorkers(b *testing.B) {
	e := New(nil, WithWorkers(4))
	text := strings.Repeat("twenty five apples, 2.5k users and the 21st of 0x1F. ", 10)
	for b.Loop() {
		e.Parse(text)
	}
}

func TestValueTypeOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    float64
		want ValueType
	}{
		{3, IntegerValue},
		{-24, IntegerValue},
		{2.5, FloatValue},
		{0.25, FloatValue},
		{1e19, IntegerValue},
		{-1e20, IntegerValue},
		{1e123, IntegerValue},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, valueTypeOf(tt.v), "valueTypeOf(%g)", tt.v)
	}
}
