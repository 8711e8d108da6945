package clean

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/tracestrip"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/rangetable"
)

// InvisibleSet removes the code points of an invisible-character catalog.
//
// Every code point is attributed to the first catalog entry that contains
// it, so overlapping entries never count the same character twice.
type InvisibleSet struct {
	entries []invisibleEntry
	all     *unicode.RangeTable
}

type invisibleEntry struct {
	key   string
	table *unicode.RangeTable
}

// NewInvisibleSet compiles chars, in order, into range tables. Entries that
// fail validation are skipped.
func NewInvisibleSet(chars []tracestrip.InvisibleChar) *InvisibleSet {
	s := &InvisibleSet{}
	tables := make([]*unicode.RangeTable, 0, len(chars))
	for _, ch := range chars {
		if ch.Validate() != nil {
			continue
		}
		parts := make([]*unicode.RangeTable, 0, len(ch.Ranges))
		for _, r := range ch.Ranges {
			parts = append(parts, rangeTable(r))
		}
		table := rangetable.Merge(parts...)
		s.entries = append(s.entries, invisibleEntry{key: tracestrip.UnicodeKey(ch.Label), table: table})
		tables = append(tables, table)
	}
	s.all = rangetable.Merge(tables...)
	return s
}

// Contains reports whether r belongs to any catalog entry.
func (s *InvisibleSet) Contains(r rune) bool {
	return unicode.Is(s.all, r)
}

// Strip removes every catalog code point from text and adds per-entry counts
// to tally. A character reference such as "&#8203;" or "&zwnj;" that decodes
// to a catalog code point is removed and counted like the character itself.
// Bytes that are not valid UTF-8 are kept as they are.
func (s *InvisibleSet) Strip(text string, tally *tracestrip.Tally) string {
	if len(s.entries) == 0 || (strings.IndexFunc(text, s.Contains) < 0 && strings.IndexByte(text, '&') < 0) {
		return text
	}

	counts := make([]int, len(s.entries))
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == '&' {
			if ref, n := reference(text[i:]); n > 0 {
				r, size = ref, n
			}
		}
		if idx := s.entry(r, size); idx >= 0 {
			counts[idx]++
			if tally.Tracking() {
				tally.Record(tracestrip.ChangeLocation{
					Category: s.entries[idx].key,
					Offset:   i,
					Snippet:  strings.Map(s.drop, tracestrip.Excerpt(text, i, i+size)),
				})
			}
		} else {
			b.WriteString(text[i : i+size])
		}
		i += size
	}

	for idx, n := range counts {
		tally.Add(s.entries[idx].key, n)
	}
	return b.String()
}

// entry returns the index of the first entry containing r, or -1.
func (s *InvisibleSet) entry(r rune, size int) int {
	if r == utf8.RuneError && size <= 1 {
		return -1
	}
	if !unicode.Is(s.all, r) {
		return -1
	}
	for i, e := range s.entries {
		if unicode.Is(e.table, r) {
			return i
		}
	}
	return -1
}

// reference decodes the character reference at the start of s the way the
// HTML parser does. It returns the decoded code point and the length of the
// reference, or a zero length when s does not start with a reference to a
// single code point. Named references need their semicolon.
func reference(s string) (rune, int) {
	n := referenceLen(s)
	if n == 0 {
		return 0, 0
	}
	decoded := html.UnescapeString(s[:n])
	if decoded == s[:n] {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(decoded)
	if size != len(decoded) {
		return 0, 0
	}
	return r, n
}

func referenceLen(s string) int {
	if len(s) < 3 || s[0] != '&' {
		return 0
	}
	i := 1
	if s[i] == '#' {
		i++
		digit := isDecimal
		if i < len(s) && (s[i] == 'x' || s[i] == 'X') {
			i++
			digit = isHex
		}
		start := i
		for i < len(s) && digit(s[i]) {
			i++
		}
		if i == start {
			return 0
		}
		if i < len(s) && s[i] == ';' {
			i++
		}
		return i
	}
	for i < len(s) && (isDecimal(s[i]) || 'a' <= s[i]|0x20 && s[i]|0x20 <= 'z') {
		i++
	}
	if i == 1 || i >= len(s) || s[i] != ';' {
		return 0
	}
	return i + 1
}

func isDecimal(c byte) bool { return '0' <= c && c <= '9' }

func isHex(c byte) bool { return isDecimal(c) || 'a' <= c|0x20 && c|0x20 <= 'f' }

func (s *InvisibleSet) drop(r rune) rune {
	if s.Contains(r) {
		return -1
	}
	return r
}

// rangeTable converts a code point range into a stride-1 range table.
func rangeTable(r tracestrip.CodeRange) *unicode.RangeTable {
	t := &unicode.RangeTable{}
	if r.Lo <= 0xFFFF {
		t.R16 = []unicode.Range16{{Lo: uint16(r.Lo), Hi: uint16(min(r.Hi, 0xFFFF)), Stride: 1}}
		if r.Hi <= unicode.MaxLatin1 {
			t.LatinOffset = 1
		}
	}
	if r.Hi > 0xFFFF {
		t.R32 = []unicode.Range32{{Lo: uint32(max(r.Lo, 0x10000)), Hi: uint32(r.Hi), Stride: 1}}
	}
	return t
}
