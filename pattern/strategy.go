// Package pattern provides the pattern-based fallback cleaning strategy.
//
// The strategy works on raw text with regular expressions and does not
// understand tag boundaries. A catalog attribute name that appears as a
// separate word in text content, or inside another attribute's value, is
// removed as well. That over-matching is the price of a strategy that needs
// no parser and always produces output, whatever the input looks like.
package pattern

import (
	"regexp"
	"strings"
	"sync"

	"github.com/fwojciec/tracestrip"
)

// Ensure Strategy implements tracestrip.ParseStrategy at compile time.
var _ tracestrip.ParseStrategy = (*Strategy)(nil)

// Strategy removes catalog attributes with case-insensitive regular expressions.
// It is safe for concurrent use.
type Strategy struct {
	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

// NewStrategy creates a new Strategy.
func NewStrategy() *Strategy {
	return &Strategy{patterns: make(map[string]*regexp.Regexp)}
}

// Name returns the strategy name.
func (s *Strategy) Name() string {
	return tracestrip.StrategyPattern
}

// value matches an optional attribute value: double quoted, single quoted or unquoted.
const value = `(\s*=\s*(?:("[^"]*"|'[^']*')|[^\s"'=<>` + "`" + `]+))?`

// idPattern matches an id attribute and captures its value in one of three groups.
var idPattern = regexp.MustCompile(`(?i)(\s*)(id)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'=<>` + "`" + `]+))`)

// StripAttributes deletes every occurrence of each catalog attribute, then
// every id attribute whose value matches the identifier pattern. Each
// physical occurrence counts once. It never returns an error.
func (s *Strategy) StripAttributes(text string, cfg *tracestrip.Config, tally *tracestrip.Tally) (string, error) {
	for _, name := range cfg.Attributes {
		re := s.pattern(name)
		text = replace(text, re, tally, name, acceptAttr)
	}

	if cfg.IdentifierPattern != nil {
		text = replace(text, idPattern, tally, tracestrip.IdentifierKey, func(text string, m []int) bool {
			if !startsName(text, m[4]) {
				return false
			}
			switch {
			case m[6] >= 0:
				return cfg.IdentifierPattern.MatchString(text[m[6]:m[7]])
			case m[8] >= 0:
				return cfg.IdentifierPattern.MatchString(text[m[8]:m[9]])
			default:
				return endsAttr(text, m[1]) && cfg.IdentifierPattern.MatchString(text[m[10]:m[11]])
			}
		})
	}

	return text, nil
}

// pattern returns the compiled expression for an attribute name.
func (s *Strategy) pattern(name string) *regexp.Regexp {
	s.mu.Lock()
	defer s.mu.Unlock()

	re, ok := s.patterns[name]
	if !ok {
		re = regexp.MustCompile(`(?i)(\s*)(` + regexp.QuoteMeta(name) + `)` + value)
		s.patterns[name] = re
	}
	return re
}

// replace deletes every match of re accepted by accept, counting each
// deletion under category.
func replace(text string, re *regexp.Regexp, tally *tracestrip.Tally, category string, accept func(string, []int) bool) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		if !accept(text, m) {
			continue
		}
		b.WriteString(text[last:m[0]])
		last = m[1]
		tally.Add(category, 1)
		if tally.Tracking() {
			tally.Record(tracestrip.ChangeLocation{
				Category: category,
				Offset:   m[0],
				Snippet:  tracestrip.Excerpt(text, m[0], m[1]),
			})
		}
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

// acceptAttr checks the boundaries of an attribute match. Submatches:
// 1 leading whitespace, 2 name, 3 value with "=", 4 quoted value.
func acceptAttr(text string, m []int) bool {
	if !startsName(text, m[4]) {
		return false
	}
	switch {
	case m[8] >= 0:
		return true
	case m[6] >= 0:
		return endsAttr(text, m[1])
	default:
		rest := strings.TrimLeft(text[m[1]:], " \t\r\n\f")
		return endsAttr(text, m[1]) && !strings.HasPrefix(rest, "=")
	}
}

// startsName reports whether the attribute name at i is not the tail of a longer name.
func startsName(text string, i int) bool {
	return i == 0 || !isNameByte(text[i-1])
}

// endsAttr reports whether the attribute ending at i is followed by a delimiter.
func endsAttr(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	switch text[i] {
	case ' ', '\t', '\r', '\n', '\f', '/', '>':
		return true
	}
	return false
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c == ':' || c == '.'
}
