package extract

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/az-ai-labs/numscan/lexicon"
	"github.com/az-ai-labs/numscan/normalize"
	"github.com/az-ai-labs/numscan/tokenizer"
)

// NumberType describes how a number was written.
type NumberType int

const (
	Integer     NumberType = iota // Digits, optionally grouped or suffixed
	Float                         // Decimal point or exponent
	Complex                       // Imaginary literal such as "4j"
	Binary                        // 0b literal
	Octal                         // 0o literal
	Hex                           // 0x literal
	Ordinal                       // "21st", "twentieth"
	Spoken                        // Number words, possibly mixed with digits
	Superscript                   // Super/subscript digits or fraction glyphs
)

var numberTypeNames = [...]string{
	Integer:     "integer",
	Float:       "float",
	Complex:     "complex",
	Binary:      "binary",
	Octal:       "octal",
	Hex:         "hex",
	Ordinal:     "ordinal",
	Spoken:      "spoken",
	Superscript: "superscript",
}

var numberTypeFromName = map[string]NumberType{
	"integer":     Integer,
	"float":       Float,
	"complex":     Complex,
	"binary":      Binary,
	"octal":       Octal,
	"hex":         Hex,
	"ordinal":     Ordinal,
	"spoken":      Spoken,
	"superscript": Superscript,
}

// String returns the name of the number type.
func (t NumberType) String() string {
	if int(t) >= 0 && int(t) < len(numberTypeNames) {
		return numberTypeNames[t]
	}
	return fmt.Sprintf("NumberType(%d)", int(t))
}

// MarshalJSON encodes the number type as a JSON string (e.g. "spoken").
func (t NumberType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a JSON string into a NumberType.
func (t *NumberType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, ok := numberTypeFromName[s]
	if !ok {
		return fmt.Errorf("extract: unknown number type %q", s)
	}
	*t = v
	return nil
}

// ValueType describes the kind of value a number resolved to.
type ValueType int

const (
	IntegerValue ValueType = iota
	FloatValue
	ComplexValue
)

var valueTypeNames = [...]string{
	IntegerValue: "integer",
	FloatValue:   "float",
	ComplexValue: "complex",
}

var valueTypeFromName = map[string]ValueType{
	"integer": IntegerValue,
	"float":   FloatValue,
	"complex": ComplexValue,
}

// String returns the name of the value type.
func (t ValueType) String() string {
	if int(t) >= 0 && int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return fmt.Sprintf("ValueType(%d)", int(t))
}

// MarshalJSON encodes the value type as a JSON string (e.g. "float").
func (t ValueType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a JSON string into a ValueType.
func (t *ValueType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, ok := valueTypeFromName[s]
	if !ok {
		return fmt.Errorf("extract: unknown value type %q", s)
	}
	*t = v
	return nil
}

// Annotation is a number found in text. Start and End are byte offsets
// into the input: text[Start:End] == Text. For complex numbers Value is the
// imaginary coefficient.
type Annotation struct {
	Text       string     `json:"text"`
	Value      float64    `json:"value"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
	NumberType NumberType `json:"number_type"`
	ValueType  ValueType  `json:"value_type"`
	Suffix     string     `json:"suffix,omitempty"` // metric or ordinal suffix as written
}

// String returns a compact representation, e.g. spoken("two dozen"=24)[4:13].
func (a Annotation) String() string {
	return fmt.Sprintf("%s(%q=%g)[%d:%d]", a.NumberType, a.Text, a.Value, a.Start, a.End)
}

// valueTypeOf returns the value type of a real value.
func valueTypeOf(v float64) ValueType {
	if v != math.Trunc(v) {
		return FloatValue
	}
	return IntegerValue
}

// classify fills in NumberType, ValueType and Suffix for a real value. The
// checks run in a fixed order and the first that applies wins.
func classify(a *Annotation, lex *lexicon.Lexicon) {
	text := a.Text
	a.ValueType = valueTypeOf(a.Value)

	switch {
	case strings.ContainsFunc(text, lex.IsGlyph):
		a.NumberType = Superscript
	case isOrdinal(text, lex):
		a.NumberType = Ordinal
		a.Suffix, _ = lex.OrdinalSuffix(text)
	case lex.Binary().FullMatch(text):
		a.NumberType = Binary
	case lex.Hex().FullMatch(text):
		a.NumberType = Hex
	case lex.Octal().FullMatch(text):
		a.NumberType = Octal
	default:
		body := text
		m := lex.Suffix()
		if sub := m.FullSubmatch(text); sub != nil {
			body = sub[m.FullSubexpIndex("number")]
			a.Suffix = strings.TrimSpace(sub[m.FullSubexpIndex("suffix")])
		} else if isSpoken(text, lex) {
			a.NumberType = Spoken
			return
		}
		if strings.ContainsAny(body, ".eE") {
			a.NumberType = Float
		} else {
			a.NumberType = Integer
		}
	}
}

// isOrdinal reports an ordinal numeral ("21st") or a phrase ending in an
// ordinal word ("twenty first"). A bare suffix match is not enough:
// "thousand" ends in "nd".
func isOrdinal(text string, lex *lexicon.Lexicon) bool {
	if _, ok := lex.OrdinalSuffix(text); !ok {
		return false
	}
	if lex.Ordinal().FullMatch(text) {
		return true
	}
	words := strings.Fields(text)
	last := words[len(words)-1]
	if i := strings.LastIndexByte(last, '-'); i >= 0 {
		last = last[i+1:]
	}
	return lex.Classify(last).Ordinal
}

// isSpoken reports text that normalizes to several words or to one
// alphabetic word.
func isSpoken(text string, lex *lexicon.Lexicon) bool {
	if lex.AnyNumber().FullMatch(text) {
		return false
	}
	words := tokenizer.Words(normalize.Normalize(text, lex))
	switch len(words) {
	case 0:
		return false
	case 1:
		return !strings.ContainsFunc(words[0], func(r rune) bool { return !unicode.IsLetter(r) })
	default:
		return true
	}
}
