package extract

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/az-ai-labs/numscan/lexicon"
	"github.com/az-ai-labs/numscan/normalize"
	"github.com/az-ai-labs/numscan/numtext"
	"github.com/az-ai-labs/numscan/pattern"
	"github.com/az-ai-labs/numscan/tokenizer"
)

// placeholder overwrites claimed bytes so later passes cannot match them.
// It is neither a letter, a digit, nor whitespace.
const placeholder = '\x1a'

// phraseGap joins the words of a phrase when searching the original text.
const phraseGap = `\s*[,\-]?\s*`

// Pass identifies the stage that found a candidate.
type Pass int

const (
	FirstPass  Pass = iota // Prioritized literal patterns on raw text
	MiddlePass             // Classified word phrases
	LastPass               // Plain numbers in the remaining text
)

var passNames = [...]string{
	FirstPass:  "first",
	MiddlePass: "middle",
	LastPass:   "last",
}

// String returns the name of the pass.
func (p Pass) String() string {
	if int(p) >= 0 && int(p) < len(passNames) {
		return passNames[p]
	}
	return "Pass(?)"
}

// Candidate is a span that may hold a number. text[Start:End] == Text.
type Candidate struct {
	Text  string
	Start int
	End   int
	Pass  Pass
}

// Engine finds and resolves numbers in text. It is immutable and safe for
// concurrent use.
type Engine struct {
	lex          *lexicon.Lexicon
	cls          *classifier
	merger       *Merger
	parseComplex bool
	workers      int
	logger       *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for debug events. The default discards them.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithWorkers sets how many candidates are converted in parallel.
// Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = max(n, 1) }
}

// New returns an engine for lex. A nil lex uses lexicon.Default().
func New(lex *lexicon.Lexicon, opts ...Option) *Engine {
	if lex == nil {
		lex = lexicon.Default()
	}
	e := &Engine{
		lex:          lex,
		cls:          newClassifier(lex),
		merger:       NewMerger(lex),
		parseComplex: lex.Config().ParseComplex,
		workers:      1,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Lexicon returns the engine's lexicon.
func (e *Engine) Lexicon() *lexicon.Lexicon { return e.lex }

// Candidates returns the spans of text that may hold numbers, in discovery
// order. Empty or oversized (>1 MiB) input yields nil.
func (e *Engine) Candidates(text string) []Candidate {
	if text == "" || len(text) > maxInputBytes {
		return nil
	}
	work := []byte(text)

	out := e.firstPass(work)
	nFirst := len(out)
	out = append(out, e.middlePass(work)...)
	nMiddle := len(out) - nFirst
	out = append(out, e.scan(work, e.lex.LastPass(), LastPass)...)

	e.logger.Debug("candidates",
		zap.Int("first", nFirst),
		zap.Int("middle", nMiddle),
		zap.Int("last", len(out)-nFirst-nMiddle),
	)
	return out
}

func (e *Engine) firstPass(work []byte) []Candidate {
	return e.scan(work, e.lex.FirstPass(), FirstPass)
}

// scan applies matchers in order, claiming each match before the next
// matcher runs.
func (e *Engine) scan(work []byte, matchers []*pattern.Matcher, pass Pass) []Candidate {
	var out []Candidate
	for _, m := range matchers {
		for _, loc := range m.FindAllIndex(string(work)) {
			start, end := trimSpan(work, loc[0], loc[1])
			if start >= end {
				continue
			}
			out = append(out, Candidate{Text: string(work[start:end]), Start: start, End: end, Pass: pass})
			blank(work, start, end)
		}
	}
	return out
}

// middlePass classifies the normalized remainder into phrases and finds
// each phrase in work, searching forward from the previous one.
func (e *Engine) middlePass(work []byte) []Candidate {
	words := tokenizer.Words(normalize.Normalize(string(work), e.lex))
	var out []Candidate
	from := 0
	for _, phrase := range e.cls.phrases(words) {
		m, err := pattern.Compile(phraseExpr(phrase), pattern.Alnum)
		if err != nil {
			e.logger.Debug("phrase pattern", zap.Strings("phrase", phrase), zap.Error(err))
			continue
		}
		loc := m.FindFrom(string(work), from)
		if loc == nil {
			e.logger.Debug("phrase not recovered", zap.Strings("phrase", phrase))
			continue
		}
		out = append(out, Candidate{Text: string(work[loc[0]:loc[1]]), Start: loc[0], End: loc[1], Pass: MiddlePass})
		blank(work, loc[0], loc[1])
		from = loc[1]
	}
	return out
}

func phraseExpr(words []string) string {
	return `(?i)` + strings.Join(pattern.EscapeAll(words), phraseGap)
}

// Parse returns the numbers in text sorted by Start. Empty or oversized
// (>1 MiB) input yields nil.
func (e *Engine) Parse(text string) []Annotation {
	cands := e.Candidates(text)
	if len(cands) == 0 {
		return nil
	}

	slots := make([]Annotation, len(cands))
	found := make([]bool, len(cands))
	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, c := range cands {
		g.Go(func() error {
			slots[i], found[i] = e.annotate(c)
			return nil
		})
	}
	_ = g.Wait()

	anns := make([]Annotation, 0, len(cands))
	ends := make(map[int]bool, len(cands))
	for i, a := range slots {
		if !found[i] {
			e.logger.Debug("no value", zap.String("text", cands[i].Text), zap.Stringer("pass", cands[i].Pass))
			continue
		}
		if ends[a.End] {
			continue
		}
		ends[a.End] = true
		anns = append(anns, a)
	}
	slices.SortStableFunc(anns, func(a, b Annotation) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return e.merger.Merge(anns, text)
}

// annotate resolves and classifies one candidate.
func (e *Engine) annotate(c Candidate) (Annotation, bool) {
	a := Annotation{Text: c.Text, Start: c.Start, End: c.End}
	if e.parseComplex && e.lex.Complex().FullMatch(c.Text) {
		v, ok := numtext.Parse(c.Text[:len(c.Text)-1], e.lex)
		if !ok {
			return Annotation{}, false
		}
		a.Value, a.NumberType, a.ValueType = v, Complex, ComplexValue
		return a, true
	}
	v, ok := numtext.Parse(c.Text, e.lex)
	if !ok {
		return Annotation{}, false
	}
	a.Value = v
	classify(&a, e.lex)
	return a, true
}

// trimSpan narrows [start, end) to exclude surrounding whitespace.
func trimSpan(b []byte, start, end int) (int, int) {
	s := string(b[start:end])
	trimmed := strings.TrimLeftFunc(s, unicode.IsSpace)
	start += len(s) - len(trimmed)
	end -= len(trimmed) - len(strings.TrimRightFunc(trimmed, unicode.IsSpace))
	return start, end
}

func blank(b []byte, start, end int) {
	for i := start; i < end; i++ {
		b[i] = placeholder
	}
}
