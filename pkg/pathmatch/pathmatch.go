// Package pathmatch matches slash-separated paths against shell-style patterns
// using whole-path semantics, like find -path:
//   - * matches any run of characters, including /
//   - ? matches exactly one character, including /
//   - [...] matches one character from the set, [!...] or [^...] negates it;
//     a [ that is never closed is an ordinary character
//   - \ escapes the next character
//
// Matching is anchored at both ends and case-sensitive. It differs from
// path.Match, where * and ? stop at directory separators.
package pathmatch

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

var (
	// ErrTrailingEscape is returned for a pattern ending in a lone backslash.
	ErrTrailingEscape = errors.New("trailing backslash")

	errUnclosedClass = errors.New("unclosed character class")
)

// Pattern is a compiled path pattern.
type Pattern struct {
	source string
	re     *regexp.Regexp
}

// Compile parses a pattern. Compiled patterns are cached and safe for concurrent use.
func Compile(pattern string) (*Pattern, error) {
	if cached, ok := cache.Load(pattern); ok {
		return cached.(*Pattern), nil //nolint:forcetypeassert // cache only stores *Pattern
	}

	expr, err := translate(pattern)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}

	compiled := &Pattern{source: pattern, re: re}

	cache.Store(pattern, compiled)

	return compiled, nil
}

// Match reports whether path matches the pattern.
func (p *Pattern) Match(path string) bool {
	return p.re.MatchString(path)
}

// String returns the pattern source.
func (p *Pattern) String() string {
	return p.source
}

// Match compiles pattern and reports whether path matches it.
func Match(pattern, path string) (bool, error) {
	compiled, err := Compile(pattern)
	if err != nil {
		return false, err
	}

	return compiled.Match(path), nil
}

// Matcher tests paths against a set of patterns.
type Matcher struct {
	patterns []*Pattern
}

// NewMatcher compiles all patterns, failing on the first invalid one.
func NewMatcher(patterns []string) (*Matcher, error) {
	matcher := &Matcher{patterns: make([]*Pattern, 0, len(patterns))}

	for _, p := range patterns {
		compiled, err := Compile(p)
		if err != nil {
			return nil, err
		}

		matcher.patterns = append(matcher.patterns, compiled)
	}

	return matcher, nil
}

// MatchAny reports whether path matches at least one pattern.
func (m *Matcher) MatchAny(path string) bool {
	_, ok := m.First(path)

	return ok
}

// First returns the first pattern matching path.
func (m *Matcher) First(path string) (string, bool) {
	for _, p := range m.patterns {
		if p.Match(path) {
			return p.source, true
		}
	}

	return "", false
}

// Len returns the number of patterns.
func (m *Matcher) Len() int {
	return len(m.patterns)
}

var cache sync.Map //nolint:gochecknoglobals // compiled patterns are immutable

// translate converts a pattern into an anchored regular expression.
func translate(pattern string) (string, error) {
	var (
		expr    strings.Builder
		literal strings.Builder
	)

	flush := func() {
		expr.WriteString(regexp.QuoteMeta(literal.String()))
		literal.Reset()
	}

	expr.WriteString(`(?s)^`)

	for pos := 0; pos < len(pattern); {
		switch pattern[pos] {
		case '*':
			flush()

			for pos < len(pattern) && pattern[pos] == '*' {
				pos++
			}

			expr.WriteString(`.*`)

		case '?':
			flush()
			expr.WriteString(`.`)

			pos++

		case '[':
			class, next, err := translateClass(pattern, pos)

			switch {
			case errors.Is(err, errUnclosedClass):
				literal.WriteByte('[')

				pos++
			case err != nil:
				return "", err
			default:
				flush()
				expr.WriteString(class)

				pos = next
			}

		case '\\':
			if pos+1 >= len(pattern) {
				return "", ErrTrailingEscape
			}

			literal.WriteByte(pattern[pos+1])

			pos += 2

		default:
			literal.WriteByte(pattern[pos])

			pos++
		}
	}

	flush()
	expr.WriteString(`$`)

	return expr.String(), nil
}

// translateClass converts the bracket expression starting at pattern[start]
// and returns it with the index just past the closing bracket.
func translateClass(pattern string, start int) (string, int, error) {
	var class strings.Builder

	class.WriteByte('[')

	pos := start + 1
	if pos < len(pattern) && (pattern[pos] == '!' || pattern[pos] == '^') {
		class.WriteByte('^')

		pos++
	}

	// A ] directly after the opening bracket (or its negation) is a literal.
	first := true

	for ; pos < len(pattern); pos++ {
		c := pattern[pos]

		switch {
		case c == ']' && !first:
			class.WriteByte(']')

			return class.String(), pos + 1, nil
		case c == '\\':
			if pos+1 >= len(pattern) {
				return "", 0, ErrTrailingEscape
			}

			pos++

			writeClassLiteral(&class, pattern[pos])
		case c == '-':
			class.WriteByte('-')
		default:
			writeClassLiteral(&class, c)
		}

		first = false
	}

	return "", 0, errUnclosedClass
}

func writeClassLiteral(class *strings.Builder, c byte) {
	if strings.IndexByte(`\]^-[`, c) >= 0 {
		class.WriteByte('\\')
	}

	class.WriteByte(c)
}
