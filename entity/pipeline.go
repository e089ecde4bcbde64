package entity

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Recognizer labels spans of a text. Returned offsets are relative to text.
// Tokens may overlap or leave gaps; the pipeline resolves both.
type Recognizer interface {
	Parse(text string) []Token
}

// RegexRecognizer is a Recognizer backed by a compiled Tokenizer.
type RegexRecognizer struct {
	tok *Tokenizer
}

// NewRegexRecognizer wraps t, compiling it with opts first if needed.
func NewRegexRecognizer(t *Tokenizer, opts ...CompileOption) (*RegexRecognizer, error) {
	if !t.Compiled() {
		if err := t.Compile(opts...); err != nil {
			return nil, err
		}
	}
	return &RegexRecognizer{tok: t}, nil
}

// NewPatternRecognizer builds a RegexRecognizer from patterns compiled with
// DefaultFlags.
func NewPatternRecognizer(patterns ...Pattern) (*RegexRecognizer, error) {
	return NewRegexRecognizer(NewTokenizer(patterns...))
}

// Parse returns the labeled matches in text.
func (r *RegexRecognizer) Parse(text string) []Token {
	tokens, err := r.tok.Tokenize(text, false)
	if err != nil {
		return nil
	}
	return tokens
}

// Pipeline runs recognizers in order over the untyped remainder of a text.
type Pipeline struct {
	recognizers []Recognizer
	workers     int
	logger      *zap.Logger
}

// NewPipeline returns a pipeline that applies recognizers in the given order.
func NewPipeline(recognizers ...Recognizer) *Pipeline {
	return &Pipeline{
		recognizers: recognizers,
		workers:     1,
		logger:      zap.NewNop(),
	}
}

// WithConcurrency returns a copy of p that parses up to n sibling spans at
// once. Values below 1 mean 1.
func (p *Pipeline) WithConcurrency(n int) *Pipeline {
	c := *p
	c.workers = max(n, 1)
	return &c
}

// WithLogger returns a copy of p that logs stage statistics to l.
func (p *Pipeline) WithLogger(l *zap.Logger) *Pipeline {
	c := *p
	if l == nil {
		l = zap.NewNop()
	}
	c.logger = l
	return &c
}

// Extract covers text with tokens. The first recognizer parses the whole
// text; each later recognizer parses every untyped, non-blank token, and
// its results replace that token. Empty or blank text yields a single
// untyped token, as does oversized (>1 MiB) input.
func (p *Pipeline) Extract(text string) []Token {
	whole := []Token{{Text: text, Start: 0, End: len(text)}}
	if len(p.recognizers) == 0 || len(text) > maxInputBytes || isBlank(text) {
		return whole
	}

	tokens := parseCover(p.recognizers[0], text)
	for stage, r := range p.recognizers[1:] {
		tokens = p.refine(r, tokens)
		p.logger.Debug("pipeline stage",
			zap.Int("stage", stage+1),
			zap.Int("tokens", len(tokens)),
		)
	}
	sortByStart(tokens)
	return tokens
}

// refine re-parses the untyped tokens with r, writing each result into the
// slot of its parent so no locking is needed.
func (p *Pipeline) refine(r Recognizer, tokens []Token) []Token {
	parts := make([][]Token, len(tokens))
	var g errgroup.Group
	g.SetLimit(p.workers)

	for i, tok := range tokens {
		if tok.Typed() || isBlank(tok.Text) {
			parts[i] = []Token{tok}
			continue
		}
		g.Go(func() error {
			sub := parseCover(r, tok.Text)
			for j := range sub {
				sub[j].Start += tok.Start
				sub[j].End += tok.Start
			}
			parts[i] = sub
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	n := 0
	for _, part := range parts {
		n += len(part)
	}
	out := make([]Token, 0, n)
	for _, part := range parts {
		out = append(out, part...)
	}
	return out
}

// parseCover runs r on text and covers the result.
func parseCover(r Recognizer, text string) []Token {
	whole := []Token{{Text: text, Start: 0, End: len(text)}}
	if isBlank(text) {
		return whole
	}
	found := r.Parse(text)
	if len(found) == 0 {
		return whole
	}
	return Cover(text, found)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
