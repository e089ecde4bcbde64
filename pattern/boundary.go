package pattern

import (
	"unicode"
	"unicode/utf8"
)

// Boundary rejects a match by looking at its neighbours. Left receives the
// rune just before the match, Right the rune just after it. A nil predicate
// accepts everything. Text edges are always accepted.
type Boundary struct {
	Left  func(r rune) bool
	Right func(r rune) bool
}

// None accepts every match.
var None = Boundary{}

// Letters rejects matches touching an ASCII letter or underscore.
var Letters = Boundary{Left: isLetterOrUnderscore, Right: isLetterOrUnderscore}

// Words rejects matches preceded by a letter, digit, or apostrophe, or
// followed by a letter or digit.
var Words = Boundary{Left: isWordOrApostrophe, Right: isLetterOrDigit}

// Alnum rejects matches touching any letter or digit.
var Alnum = Boundary{Left: isLetterOrDigit, Right: isLetterOrDigit}

func isLetterOrUnderscore(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isLetterOrDigit(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isWordOrApostrophe(r rune) bool {
	return r == '\'' || isLetterOrDigit(r)
}

// accepts reports whether s[start:end] passes the boundary.
func (b Boundary) accepts(s string, start, end int) bool {
	if b.Left != nil && start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if b.Left(r) {
			return false
		}
	}
	if b.Right != nil && end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if b.Right(r) {
			return false
		}
	}
	return true
}
