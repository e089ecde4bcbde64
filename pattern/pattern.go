// Package pattern provides regex-fragment utilities used to assemble the
// number patterns: escaping, longest-first alternation, grouping, and
// boundary-checked matchers.
//
// Go's regexp package (RE2) has no lookaround. Word boundaries that the
// patterns need on either side of a match are expressed as a Boundary: a pair
// of predicates over the rune immediately before and after the match. A match
// whose neighbours are rejected is dropped as a whole; it is not shortened to
// find a smaller match that would pass.
//
// All functions and Matcher methods are safe for concurrent use by multiple
// goroutines.
package pattern

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
)

// Escape quotes all regex metacharacters in s.
func Escape(s string) string {
	return regexp.QuoteMeta(s)
}

// EscapeAll escapes every element of alts.
func EscapeAll(alts []string) []string {
	out := make([]string, len(alts))
	for i, a := range alts {
		out[i] = regexp.QuoteMeta(a)
	}
	return out
}

// Join builds a non-capturing alternation from alts. Empty and duplicate
// alternatives are dropped; the rest are ordered longest first (then
// lexicographically) so that a shorter alternative never truncates a longer
// one under leftmost-first matching. Returns "" when nothing remains.
func Join(alts []string) string {
	uniq := make([]string, 0, len(alts))
	for _, a := range alts {
		if a != "" {
			uniq = append(uniq, a)
		}
	}
	if len(uniq) == 0 {
		return ""
	}
	slices.SortFunc(uniq, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	uniq = slices.Compact(uniq)
	return "(?:" + strings.Join(uniq, "|") + ")"
}

// Group wraps p in a non-capturing group. Empty input stays empty.
func Group(p string) string {
	if p == "" {
		return ""
	}
	return "(?:" + p + ")"
}

// Optional makes p optional. Empty input stays empty.
func Optional(p string) string {
	if p == "" {
		return ""
	}
	return "(?:" + p + ")?"
}

// Named wraps p in a named capturing group.
func Named(name, p string) string {
	return "(?P<" + name + ">" + p + ")"
}

// Fold wraps p in a case-insensitive group.
func Fold(p string) string {
	if p == "" {
		return ""
	}
	return "(?i:" + p + ")"
}
