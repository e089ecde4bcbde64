package entity

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
)

var (
	// ErrCompiled is returned when patterns are changed after Compile.
	ErrCompiled = errors.New("entity: tokenizer already compiled")
	// ErrNotCompiled is returned by Tokenize before Compile.
	ErrNotCompiled = errors.New("entity: tokenizer not compiled")
)

// DefaultFlags are the inline regex flags prepended to every pattern.
const DefaultFlags = "(?mi)"

// Pattern pairs an entity label with a regular expression.
type Pattern struct {
	Entity string `json:"entity" yaml:"entity"`
	Expr   string `json:"expr" yaml:"expr"`
}

type compiledPattern struct {
	entity string
	re     *regexp.Regexp
}

// Tokenizer labels text with an ordered list of patterns. The zero value is
// an empty, uncompiled tokenizer.
type Tokenizer struct {
	patterns []Pattern
	compiled []compiledPattern
	ready    bool
}

// NewTokenizer returns an uncompiled tokenizer holding patterns.
func NewTokenizer(patterns ...Pattern) *Tokenizer {
	return &Tokenizer{patterns: slices.Clone(patterns)}
}

type compileOptions struct {
	flags string
	sort  bool
}

// CompileOption configures Compile.
type CompileOption func(*compileOptions)

// WithFlags replaces DefaultFlags. Pass "" for none.
func WithFlags(flags string) CompileOption {
	return func(o *compileOptions) { o.flags = flags }
}

// WithSort orders patterns by expression length, longest first, before
// compiling. Patterns of equal length keep their order.
func WithSort(sort bool) CompileOption {
	return func(o *compileOptions) { o.sort = sort }
}

// AddPattern appends a pattern. It fails with ErrCompiled once compiled.
func (t *Tokenizer) AddPattern(entity, expr string) error {
	if t.ready {
		return ErrCompiled
	}
	t.patterns = append(t.patterns, Pattern{Entity: entity, Expr: expr})
	return nil
}

// SetPatterns replaces every pattern. It fails with ErrCompiled once compiled.
func (t *Tokenizer) SetPatterns(patterns []Pattern) error {
	if t.ready {
		return ErrCompiled
	}
	t.patterns = slices.Clone(patterns)
	return nil
}

// ClearPatterns removes every pattern and returns the tokenizer to the
// uncompiled state.
func (t *Tokenizer) ClearPatterns() {
	t.patterns = nil
	t.compiled = nil
	t.ready = false
}

// Compile compiles the patterns in priority order. Compiling twice fails
// with ErrCompiled; an invalid expression leaves the tokenizer uncompiled.
func (t *Tokenizer) Compile(opts ...CompileOption) error {
	if t.ready {
		return ErrCompiled
	}
	o := compileOptions{flags: DefaultFlags}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sort {
		slices.SortStableFunc(t.patterns, func(a, b Pattern) int {
			return cmp.Compare(len(b.Expr), len(a.Expr))
		})
	}

	compiled := make([]compiledPattern, 0, len(t.patterns))
	for _, p := range t.patterns {
		re, err := regexp.Compile(o.flags + p.Expr)
		if err != nil {
			return fmt.Errorf("entity: compile %s pattern: %w", p.Entity, err)
		}
		compiled = append(compiled, compiledPattern{entity: p.Entity, re: re})
	}
	t.compiled = compiled
	t.ready = true
	return nil
}

// Compiled reports whether Compile has succeeded.
func (t *Tokenizer) Compiled() bool {
	return t.ready
}

// Tokenize labels text. Each pattern, in priority order, claims its
// non-empty matches over the text left unclaimed by earlier patterns; a
// match that would cross claimed bytes is skipped. With merge, the
// unclaimed gaps are returned as untyped tokens. Output is sorted by Start.
// Oversized (>1 MiB) input yields no tokens.
func (t *Tokenizer) Tokenize(text string, merge bool) ([]Token, error) {
	if !t.ready {
		return nil, ErrNotCompiled
	}
	if len(text) > maxInputBytes {
		return nil, nil
	}

	work := []byte(text)
	claimed := make([]bool, len(text))
	var tokens []Token

	for _, p := range t.compiled {
		var hits [][]int
		for _, loc := range p.re.FindAllIndex(work, -1) {
			if loc[0] == loc[1] || slices.Contains(claimed[loc[0]:loc[1]], true) {
				continue
			}
			hits = append(hits, loc)
			tokens = append(tokens, Token{
				Text:   text[loc[0]:loc[1]],
				Entity: p.entity,
				Start:  loc[0],
				End:    loc[1],
			})
		}
		for _, loc := range hits {
			for i := loc[0]; i < loc[1]; i++ {
				work[i] = ' '
				claimed[i] = true
			}
		}
	}

	if merge {
		return Cover(text, tokens), nil
	}
	sortByStart(tokens)
	return tokens, nil
}

// Patterns returns a copy of the patterns in priority order.
func (t *Tokenizer) Patterns() []Pattern {
	return slices.Clone(t.patterns)
}

// Entities returns the distinct entity labels, sorted.
func (t *Tokenizer) Entities() []string {
	seen := make(map[string]struct{}, len(t.patterns))
	for _, p := range t.patterns {
		seen[p.Entity] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// PatternCount returns the number of patterns.
func (t *Tokenizer) PatternCount() int {
	return len(t.patterns)
}

// EntityCount returns the number of distinct entity labels.
func (t *Tokenizer) EntityCount() int {
	return len(t.Entities())
}
