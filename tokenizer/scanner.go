package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// wordTokens splits s into tokens. The caller guarantees s is non-empty.
func wordTokens(s string) []Token {
	tokens := make([]Token, 0, len(s)/4+1)

	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		end := i + size
		for end < len(s) {
			nr, ns := utf8.DecodeRuneInString(s[end:])
			if unicode.IsSpace(nr) {
				break
			}
			end += ns
		}
		tokens = splitChunk(tokens, s, i, end)
		i = end
	}

	return tokens
}

// splitChunk appends the tokens of the whitespace-free chunk s[start:end].
func splitChunk(tokens []Token, s string, start, end int) []Token {
	emit := func(from, to int) {
		if from < to {
			tokens = append(tokens, newToken(s, from, to))
		}
	}

	cur := start
	i := start
	for i < end {
		r, size := utf8.DecodeRuneInString(s[i:end])
		next := i + size
		nr, _ := utf8.DecodeRuneInString(s[next:end])
		pr, _ := utf8.DecodeLastRuneInString(s[start:i])

		split := false
		switch r {
		case '(', ')', '[', ']', '{', '}', '<', '>', '"':
			split = true
		case '-':
			if nr == '-' {
				emit(cur, i)
				for next < end && s[next] == '-' {
					next++
				}
				emit(i, next)
				cur, i = next, next
				continue
			}
		case ',':
			split = next == end || !isDigit(nr)
		case '\'', '`':
			split = !(i > start && isDigit(pr) && next < end && isDigit(nr))
		case ':':
			split = onlySpaceAfter(s, next)
		}

		if split {
			emit(cur, i)
			emit(i, next)
			cur = next
		}
		i = next
	}
	emit(cur, end)
	return tokens
}

func newToken(s string, start, end int) Token {
	return Token{Text: s[start:end], Start: start, End: end, Type: classify(s[start:end])}
}

// classify assigns a type from the leading runes of a non-empty token.
func classify(text string) TokenType {
	r, size := utf8.DecodeRuneInString(text)
	switch {
	case unicode.IsNumber(r):
		return Number
	case (r == '-' || r == '+' || r == '.') && startsWithDigit(strings.TrimPrefix(text[size:], ".")):
		return Number
	case unicode.IsLetter(r):
		return Word
	}
	for _, c := range text {
		if !unicode.IsPunct(c) {
			return Symbol
		}
	}
	return Punctuation
}

func startsWithDigit(s string) bool {
	return s != "" && isDigit(s[0])
}

func onlySpaceAfter(s string, pos int) bool {
	for _, r := range s[pos:] {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func isDigit[T rune | byte](c T) bool {
	return c >= '0' && c <= '9'
}
