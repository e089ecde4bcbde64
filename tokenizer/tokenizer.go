// Package tokenizer splits normalized text into word-level tokens with byte
// offsets, following treebank-style boundary rules.
//
// The package provides two API layers:
//
//   - Structured: WordTokens returns []Token with byte offsets and type
//     metadata. The invariant s[t.Start:t.End] == t.Text holds for every
//     token. Whitespace is never part of a token.
//
//   - Convenience: Words returns the token texts.
//
// Inside a whitespace-delimited chunk:
//
//   - Brackets ()[]{}<> and the double quote are always their own token.
//   - A run of two or more hyphens is its own token.
//   - A comma splits unless a digit follows ("1,000" stays whole).
//   - An apostrophe or backtick splits unless it sits between two digits.
//   - A colon splits when only whitespace follows it.
//
// All functions are safe for concurrent use by multiple goroutines.
package tokenizer

import (
	"encoding/json"
	"fmt"
)

// TokenType classifies a token.
type TokenType int

const (
	Word        TokenType = iota // Starts with a letter
	Number                       // Starts with a digit, or a sign or point before a digit
	Punctuation                  // Only punctuation runes
	Symbol                       // Everything else: currency, placeholders, emoji
)

var tokenTypeNames = [...]string{
	Word:        "Word",
	Number:      "Number",
	Punctuation: "Punctuation",
	Symbol:      "Symbol",
}

// String returns the name of the token type.
func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// MarshalJSON encodes the type by name.
func (t TokenType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a type name.
func (t *TokenType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for i, name := range tokenTypeNames {
		if name == s {
			*t = TokenType(i)
			return nil
		}
	}
	return fmt.Errorf("tokenizer: unknown token type %q", s)
}

// Token represents a unit of text with its position and classification.
type Token struct {
	Text  string    `json:"text"`
	Start int       `json:"start"` // Byte offset in the original string (inclusive)
	End   int       `json:"end"`   // Byte offset in the original string (exclusive)
	Type  TokenType `json:"type"`
}

// String returns a debug representation, e.g. Number("42")[0:2].
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)[%d:%d]", t.Type, t.Text, t.Start, t.End)
}

// WordTokens splits text into tokens with metadata.
// The byte offset invariant s[t.Start:t.End] == t.Text holds for every token.
func WordTokens(s string) []Token {
	if s == "" {
		return nil
	}
	return wordTokens(s)
}

// Words returns the token texts of s.
func Words(s string) []string {
	if s == "" {
		return nil
	}
	tokens := wordTokens(s)
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = t.Text
	}
	return words
}
