package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/az-ai-labs/numscan/lexicon"
)

// wordKind is the role a normalized word plays in a number phrase.
type wordKind int

const (
	kindOther wordKind = iota
	kindLiteral
	kindOrdinalLiteral
	kindWord
	kindAnd
	kindPoint
	kindNegative
	kindArticle
)

type word struct {
	text  string
	kind  wordKind
	class lexicon.WordClass
}

func (w word) category() lexicon.Category {
	if w.kind != kindWord {
		return lexicon.None
	}
	return w.class.Category
}

// leadsMagnitude reports a word an article may introduce: "a dozen",
// "a hundred", "a million".
func (w word) leadsMagnitude() bool {
	switch w.category() {
	case lexicon.Informal, lexicon.Hundred, lexicon.Scale:
		return true
	}
	return false
}

// classifier partitions a normalized word stream into number phrases.
type classifier struct {
	lex   *lexicon.Lexicon
	mixed bool
	signs bool
}

func newClassifier(lex *lexicon.Lexicon) *classifier {
	cfg := lex.Config()
	return &classifier{lex: lex, mixed: cfg.MixedNums, signs: cfg.SignsAllowed}
}

func (c *classifier) kindOf(s string) word {
	w := word{text: s}
	if startsNumeric(s) && c.lex.IsValid(s) {
		w.kind = kindLiteral
		if c.lex.Ordinal().FullMatch(s) {
			w.kind = kindOrdinalLiteral
		}
		return w
	}
	w.class = c.lex.Classify(s)
	switch w.class.Category {
	case lexicon.And:
		w.kind = kindAnd
	case lexicon.Point:
		w.kind = kindPoint
	case lexicon.Negative:
		w.kind = kindNegative
	case lexicon.Article:
		w.kind = kindArticle
	case lexicon.None:
		w.kind = kindOther
	default:
		w.kind = kindWord
	}
	return w
}

// runState tracks the phrase being built.
type runState struct {
	words   []word
	last    word // last word carrying a value
	hasNum  bool
	point   bool // "point" seen
	hundred bool // "hundred" seen since the last scale word
	closed  bool
}

func (st *runState) add(w word) {
	st.words = append(st.words, w)
	switch w.kind {
	case kindPoint:
		st.point = true
	case kindLiteral, kindOrdinalLiteral, kindWord:
		switch w.category() {
		case lexicon.Hundred:
			st.hundred = true
			if st.point {
				st.closed = true
			}
		case lexicon.Scale:
			st.hundred = false
			if st.point {
				st.closed = true
			}
		}
		if w.kind == kindOrdinalLiteral || w.class.Ordinal {
			st.closed = true
		}
		st.last, st.hasNum = w, true
	}
}

func (st *runState) prev() word {
	return st.words[len(st.words)-1]
}

// starts reports whether w may open a phrase. next is the following word.
func (c *classifier) starts(w, next word) bool {
	switch w.kind {
	case kindLiteral, kindOrdinalLiteral, kindWord:
		return true
	case kindNegative:
		return c.signs
	case kindArticle:
		return next.leadsMagnitude()
	}
	return false
}

// joins reports whether w continues the phrase in st.
func (c *classifier) joins(st *runState, w, next word) bool {
	switch w.kind {
	case kindAnd:
		return st.hasNum && !st.point
	case kindPoint:
		return st.hasNum && !st.point && (st.last.kind == kindWord || c.mixed)
	case kindArticle:
		if !st.hasNum || st.point || !next.leadsMagnitude() {
			return false
		}
		return st.prev().kind == kindAnd || st.last.category() == lexicon.Informal
	case kindLiteral, kindOrdinalLiteral:
		switch {
		case st.point:
			return c.mixed && w.kind == kindLiteral && isFractionDigits(w.text)
		case !st.hasNum:
			return true
		case st.last.kind != kindWord:
			return false
		}
		return c.mixed
	case kindWord:
		return c.wordJoins(st, w)
	}
	return false
}

func (c *classifier) wordJoins(st *runState, w word) bool {
	cat := w.category()
	if st.point {
		switch cat {
		case lexicon.Zero, lexicon.Ones, lexicon.Teens, lexicon.Tens, lexicon.Hundred, lexicon.Scale:
			return true
		}
		return false
	}
	if !st.hasNum {
		return true
	}
	if cat == lexicon.Hundred && st.hundred {
		return false
	}
	if st.last.kind != kindWord {
		return c.mixed && w.leadsMagnitude()
	}
	return follows(st.last.category(), cat)
}

// follows is the word-to-word transition table of a phrase.
func follows(prev, next lexicon.Category) bool {
	switch prev {
	case lexicon.Ones, lexicon.Teens:
		return next == lexicon.Hundred || next == lexicon.Scale || next == lexicon.Informal
	case lexicon.Tens:
		return next == lexicon.Ones || next == lexicon.Hundred || next == lexicon.Scale || next == lexicon.Informal
	case lexicon.Hundred:
		return next == lexicon.Ones || next == lexicon.Teens || next == lexicon.Tens ||
			next == lexicon.Scale || next == lexicon.Informal
	case lexicon.Scale:
		return next == lexicon.Ones || next == lexicon.Teens || next == lexicon.Tens ||
			next == lexicon.Scale || next == lexicon.Informal
	case lexicon.Informal:
		return next == lexicon.Hundred || next == lexicon.Scale
	}
	return false
}

// phrases splits words into repaired candidate phrases.
func (c *classifier) phrases(texts []string) [][]string {
	words := make([]word, len(texts))
	for i, s := range texts {
		words[i] = c.kindOf(s)
	}

	var out [][]string
	st := &runState{}
	flush := func() {
		if p := c.repair(st.words); p != nil {
			out = append(out, p)
		}
		st = &runState{}
	}

	for i, w := range words {
		var next word
		if i+1 < len(words) {
			next = words[i+1]
		}
		if len(st.words) > 0 && !c.joins(st, w, next) {
			// An article belongs to the magnitude that follows it.
			var carry []word
			if p := st.prev(); p.kind == kindArticle && w.leadsMagnitude() {
				st.words = st.words[:len(st.words)-1]
				carry = append(carry, p)
			}
			flush()
			for _, a := range carry {
				st.add(a)
			}
		}
		if len(st.words) == 0 && !c.starts(w, next) {
			continue
		}
		st.add(w)
		if st.closed {
			flush()
		}
	}
	flush()
	return out
}

// repair trims connectors that cannot end or begin a phrase and drops
// single words that are not numbers on their own.
func (c *classifier) repair(words []word) []string {
	for len(words) > 0 {
		switch words[len(words)-1].kind {
		case kindAnd, kindPoint, kindNegative, kindArticle:
			words = words[:len(words)-1]
			continue
		}
		break
	}
	for len(words) > 0 && words[0].kind == kindAnd {
		words = words[1:]
	}
	if len(words) == 0 {
		return nil
	}
	if len(words) == 1 && !c.lex.IsValid(words[0].text) {
		return nil
	}
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.text
	}
	return out
}

// startsNumeric reports text beginning with a digit, optionally after a
// sign and a decimal point.
func startsNumeric(s string) bool {
	if s != "" && (s[0] == '-' || s[0] == '+') {
		s = s[1:]
	}
	r, _ := utf8.DecodeRuneInString(strings.TrimPrefix(s, "."))
	return unicode.IsDigit(r)
}

// isFractionDigits reports one or two ASCII digits.
func isFractionDigits(s string) bool {
	if n := utf8.RuneCountInString(s); n == 0 || n > 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
