package lexicon

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/az-ai-labs/numscan/data"
)

// Tables holds the raw word tables of one language. Word keys are lowercase;
// suffix symbol keys are case-sensitive.
type Tables struct {
	Language             string             `yaml:"language"`
	Articles             []string           `yaml:"articles"`
	Ands                 []string           `yaml:"ands"`
	Points               []string           `yaml:"points"`
	Negatives            []string           `yaml:"negatives"`
	Ones                 map[string]float64 `yaml:"ones"`
	OrdinalOnes          map[string]float64 `yaml:"ordinal_ones"`
	Teens                map[string]float64 `yaml:"teens"`
	OrdinalTeens         map[string]float64 `yaml:"ordinal_teens"`
	Tens                 map[string]float64 `yaml:"tens"`
	OrdinalTens          map[string]float64 `yaml:"ordinal_tens"`
	Multiples            map[string]float64 `yaml:"multiples"`
	OrdinalMultiples     map[string]float64 `yaml:"ordinal_multiples"`
	Suffixes             map[string]float64 `yaml:"suffixes"`
	SuffixNames          map[string]float64 `yaml:"suffix_names"`
	InformalExact        map[string]float64 `yaml:"informal_exact"`
	InformalMultiplyable map[string]float64 `yaml:"informal_multiplyable"`
	Superscripts         map[string]float64 `yaml:"superscripts"`
	Subscripts           map[string]float64 `yaml:"subscripts"`
	Fractions            map[string]float64 `yaml:"fractions"`
	OrdinalSuffixes      []string           `yaml:"ordinal_suffixes"`
}

// maxTablesBytes bounds the size of a lexicon document.
const maxTablesBytes = 1 << 20 // 1 MiB

// LoadTables decodes a YAML lexicon document.
func LoadTables(r io.Reader) (Tables, error) {
	var t Tables
	dec := yaml.NewDecoder(io.LimitReader(r, maxTablesBytes))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return Tables{}, fmt.Errorf("lexicon: decode tables: %w", err)
	}
	if err := t.validate(); err != nil {
		return Tables{}, err
	}
	return t, nil
}

// validate checks the tables every pattern depends on.
func (t Tables) validate() error {
	switch {
	case t.Language == "":
		return fmt.Errorf("lexicon: %w: tables have no language", ErrInvalidConfig)
	case len(t.Ones) == 0, len(t.Teens) == 0, len(t.Tens) == 0, len(t.Multiples) == 0:
		return fmt.Errorf("lexicon: %w: %s tables lack ones, teens, tens, or multiples", ErrInvalidConfig, t.Language)
	}
	for _, m := range []map[string]float64{t.Superscripts, t.Subscripts, t.Fractions} {
		for k := range m {
			if len([]rune(k)) != 1 {
				return fmt.Errorf("lexicon: %w: glyph key %q is not a single rune", ErrInvalidConfig, k)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of t.
func (t Tables) Clone() Tables {
	c := t
	c.Articles = slices.Clone(t.Articles)
	c.Ands = slices.Clone(t.Ands)
	c.Points = slices.Clone(t.Points)
	c.Negatives = slices.Clone(t.Negatives)
	c.OrdinalSuffixes = slices.Clone(t.OrdinalSuffixes)
	c.Ones = maps.Clone(t.Ones)
	c.OrdinalOnes = maps.Clone(t.OrdinalOnes)
	c.Teens = maps.Clone(t.Teens)
	c.OrdinalTeens = maps.Clone(t.OrdinalTeens)
	c.Tens = maps.Clone(t.Tens)
	c.OrdinalTens = maps.Clone(t.OrdinalTens)
	c.Multiples = maps.Clone(t.Multiples)
	c.OrdinalMultiples = maps.Clone(t.OrdinalMultiples)
	c.Suffixes = maps.Clone(t.Suffixes)
	c.SuffixNames = maps.Clone(t.SuffixNames)
	c.InformalExact = maps.Clone(t.InformalExact)
	c.InformalMultiplyable = maps.Clone(t.InformalMultiplyable)
	c.Superscripts = maps.Clone(t.Superscripts)
	c.Subscripts = maps.Clone(t.Subscripts)
	c.Fractions = maps.Clone(t.Fractions)
	return c
}

// builtin maps a language code to its embedded YAML source.
var builtin = map[string][]byte{
	"en": data.EnglishLexicon,
}

var (
	builtinMu    sync.Mutex
	builtinCache = map[string]Tables{}
)

// BuiltinTables returns the embedded tables for lang.
func BuiltinTables(lang string) (Tables, error) {
	lang = strings.ToLower(lang)

	builtinMu.Lock()
	defer builtinMu.Unlock()

	if t, ok := builtinCache[lang]; ok {
		return t.Clone(), nil
	}
	src, ok := builtin[lang]
	if !ok {
		return Tables{}, fmt.Errorf("lexicon: %w: %q", ErrUnknownLanguage, lang)
	}
	t, err := LoadTables(bytes.NewReader(src))
	if err != nil {
		return Tables{}, err
	}
	builtinCache[lang] = t
	return t.Clone(), nil
}

// Languages returns the languages with built-in tables.
func Languages() []string {
	return slices.Sorted(maps.Keys(builtin))
}
