// Package entity labels spans of text with entity names and composes
// recognizers into an extraction pipeline.
//
// The package provides three layers:
//
//   - Tokenizer: an ordered list of (entity, regex) patterns. Earlier
//     patterns claim text first; claimed bytes are blanked so later patterns
//     cannot match across them.
//   - Recognizer: anything that labels spans of a text. RegexRecognizer wraps
//     a compiled Tokenizer.
//   - Pipeline: runs recognizers in order. The first sees the whole text;
//     each later one sees only the spans nobody has labeled yet.
//
// Every Token satisfies text[t.Start:t.End] == t.Text. Pipeline output covers
// the input exactly: tokens are sorted, never overlap, and concatenating
// their texts reproduces the input.
//
// A compiled Tokenizer and a Pipeline are safe for concurrent use by
// multiple goroutines. Adding or clearing patterns is not.
package entity

import (
	"cmp"
	"fmt"
	"slices"
)

// maxInputBytes is the maximum input size for Tokenize and Extract.
const maxInputBytes = 1 << 20 // 1 MiB

// maxTokens caps the tokens returned for one text.
const maxTokens = 100000

// Token is a span of text, optionally labeled with an entity name.
type Token struct {
	Text   string `json:"text"`
	Entity string `json:"entity,omitempty"` // "" means untyped
	Start  int    `json:"start"`            // Byte offset (inclusive)
	End    int    `json:"end"`              // Byte offset (exclusive)
}

// String returns a debug representation, e.g. number("42")[5:7].
func (t Token) String() string {
	name := t.Entity
	if name == "" {
		name = "_"
	}
	return fmt.Sprintf("%s(%q)[%d:%d]", name, t.Text, t.Start, t.End)
}

// Typed reports whether the token carries an entity label.
func (t Token) Typed() bool {
	return t.Entity != ""
}

// Cover turns tokens found in text into an exact cover of text. Tokens are
// sorted by Start; where two overlap, the one starting first wins, and at
// the same start the longer wins. Gaps are filled with untyped tokens.
// Tokens with spans outside text are dropped.
func Cover(text string, tokens []Token) []Token {
	valid := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Start < 0 || t.End > len(text) || t.Start >= t.End {
			continue
		}
		t.Text = text[t.Start:t.End]
		valid = append(valid, t)
	}
	valid = resolveOverlaps(valid)

	out := make([]Token, 0, 2*len(valid)+1)
	pos := 0
	for _, t := range valid {
		if t.Start > pos {
			out = append(out, Token{Text: text[pos:t.Start], Start: pos, End: t.Start})
		}
		out = append(out, t)
		pos = t.End
	}
	if pos < len(text) || len(out) == 0 {
		out = append(out, Token{Text: text[pos:], Start: pos, End: len(text)})
	}
	return out
}

// resolveOverlaps sorts tokens by Start, longest first at equal Start, and
// drops every token that overlaps one already kept.
func resolveOverlaps(tokens []Token) []Token {
	if len(tokens) <= 1 {
		return tokens
	}

	slices.SortStableFunc(tokens, func(a, b Token) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(b.End-b.Start, a.End-a.Start)
	})

	result := make([]Token, 0, len(tokens))
	maxEnd := 0

	for _, t := range tokens {
		if t.Start >= maxEnd {
			result = append(result, t)
			if len(result) >= maxTokens {
				break
			}
			maxEnd = t.End
		}
	}

	return result
}

func sortByStart(tokens []Token) {
	slices.SortStableFunc(tokens, func(a, b Token) int {
		return cmp.Compare(a.Start, b.Start)
	})
}
