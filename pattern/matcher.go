package pattern

import (
	"fmt"
	"regexp"
)

// Matcher is a compiled regex paired with a Boundary. The zero-value-like
// matcher returned by Never matches nothing.
type Matcher struct {
	re    *regexp.Regexp
	full  *regexp.Regexp
	bound Boundary
}

// Compile compiles expr and attaches b. An empty expr yields a matcher that
// matches nothing.
func Compile(expr string, b Boundary) (*Matcher, error) {
	if expr == "" {
		return Never(), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("pattern: compile %q: %w", truncate(expr), err)
	}
	full, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return nil, fmt.Errorf("pattern: compile anchored %q: %w", truncate(expr), err)
	}
	return &Matcher{re: re, full: full, bound: b}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string, b Boundary) *Matcher {
	m, err := Compile(expr, b)
	if err != nil {
		panic(err)
	}
	return m
}

// Never returns a matcher that never matches.
func Never() *Matcher {
	return &Matcher{}
}

// IsNever reports whether m can never match.
func (m *Matcher) IsNever() bool {
	return m == nil || m.re == nil
}

// String returns the source expression, or "" for a never-matching matcher.
func (m *Matcher) String() string {
	if m.IsNever() {
		return ""
	}
	return m.re.String()
}

// Regexp returns the underlying unanchored regex, or nil for a matcher that
// never matches. Callers must not rely on it for boundary checks.
func (m *Matcher) Regexp() *regexp.Regexp {
	if m.IsNever() {
		return nil
	}
	return m.re
}

// SubexpIndex returns the index of the named group, or -1.
func (m *Matcher) SubexpIndex(name string) int {
	if m.IsNever() {
		return -1
	}
	return m.re.SubexpIndex(name)
}

// FindAllIndex returns the [start, end) pairs of all non-empty matches in s
// that pass the boundary.
func (m *Matcher) FindAllIndex(s string) [][]int {
	if m.IsNever() {
		return nil
	}
	var out [][]int
	for _, loc := range m.re.FindAllStringIndex(s, -1) {
		if loc[0] == loc[1] || !m.bound.accepts(s, loc[0], loc[1]) {
			continue
		}
		out = append(out, loc)
	}
	return out
}

// FindAllSubmatchIndex is like FindAllIndex but includes submatch offsets.
func (m *Matcher) FindAllSubmatchIndex(s string) [][]int {
	if m.IsNever() {
		return nil
	}
	var out [][]int
	for _, loc := range m.re.FindAllStringSubmatchIndex(s, -1) {
		if loc[0] == loc[1] || !m.bound.accepts(s, loc[0], loc[1]) {
			continue
		}
		out = append(out, loc)
	}
	return out
}

// FindFrom returns the first accepted match in s starting at or after offset.
// Boundaries are checked against the full string, so a match at offset still
// sees the rune before it. Returns nil when nothing matches.
func (m *Matcher) FindFrom(s string, offset int) []int {
	if m.IsNever() || offset > len(s) {
		return nil
	}
	for _, loc := range m.re.FindAllStringIndex(s[offset:], -1) {
		start, end := loc[0]+offset, loc[1]+offset
		if start == end || !m.bound.accepts(s, start, end) {
			continue
		}
		return []int{start, end}
	}
	return nil
}

// FullMatch reports whether the whole of s matches.
func (m *Matcher) FullMatch(s string) bool {
	if m.IsNever() {
		return false
	}
	return m.full.MatchString(s)
}

// FullSubmatch returns the submatches of s when the whole of s matches.
func (m *Matcher) FullSubmatch(s string) []string {
	if m.IsNever() {
		return nil
	}
	return m.full.FindStringSubmatch(s)
}

// FullSubexpIndex returns the index of the named group in FullSubmatch results.
func (m *Matcher) FullSubexpIndex(name string) int {
	if m.IsNever() {
		return -1
	}
	return m.full.SubexpIndex(name)
}

func truncate(s string) string {
	const maxLen = 80
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
