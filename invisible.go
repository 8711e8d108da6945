package tracestrip

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// CodeRange is an inclusive range of code points. Lo == Hi denotes a single code point.
type CodeRange struct {
	Lo rune `json:"lo"`
	Hi rune `json:"hi"`
}

// String returns the range in U+XXXX or U+XXXX-U+YYYY notation.
func (c CodeRange) String() string {
	if c.Lo == c.Hi {
		return fmt.Sprintf("U+%04X", c.Lo)
	}
	return fmt.Sprintf("U+%04X-U+%04X", c.Lo, c.Hi)
}

// InvisibleChar is one entry of the invisible-character catalog.
type InvisibleChar struct {
	// Label is human readable, e.g. "Zero Width Space (U+200B)".
	Label string `json:"label"`

	// Ranges may be disjoint.
	Ranges []CodeRange `json:"ranges"`
}

// Validate returns an error if the entry cannot be applied.
func (c *InvisibleChar) Validate() error {
	if c.Label == "" {
		return Errorf(EINVALID, "invisible character label required")
	}
	if len(c.Ranges) == 0 {
		return Errorf(EINVALID, "invisible character %q has no code points", c.Label)
	}
	for _, r := range c.Ranges {
		if r.Lo < 0 || r.Hi > unicode.MaxRune || r.Lo > r.Hi {
			return Errorf(EINVALID, "invisible character %q has invalid range %s", c.Label, r)
		}
		if r.Lo <= 0x7E && r.Hi >= 0x20 {
			return Errorf(EINVALID, "invisible character %q covers printable ASCII", c.Label)
		}
	}
	return nil
}

// DefaultInvisibleChars returns the default catalog. Entries are pairwise disjoint.
func DefaultInvisibleChars() []InvisibleChar {
	return []InvisibleChar{
		{Label: "Zero Width Space (U+200B)", Ranges: []CodeRange{{0x200B, 0x200B}}},
		{Label: "Zero Width Non-Joiner (U+200C)", Ranges: []CodeRange{{0x200C, 0x200C}}},
		{Label: "Zero Width Joiner (U+200D)", Ranges: []CodeRange{{0x200D, 0x200D}}},
		{Label: "Left-to-Right Mark (U+200E)", Ranges: []CodeRange{{0x200E, 0x200E}}},
		{Label: "Right-to-Left Mark (U+200F)", Ranges: []CodeRange{{0x200F, 0x200F}}},
		{Label: "Bidirectional Embedding and Override (U+202A-U+202E)", Ranges: []CodeRange{{0x202A, 0x202E}}},
		{Label: "Word Joiner (U+2060)", Ranges: []CodeRange{{0x2060, 0x2060}}},
		{Label: "Invisible Math Operators (U+2061-U+2064)", Ranges: []CodeRange{{0x2061, 0x2064}}},
		{Label: "Bidirectional Isolates (U+2066-U+2069)", Ranges: []CodeRange{{0x2066, 0x2069}}},
		{Label: "Zero Width No-Break Space (U+FEFF)", Ranges: []CodeRange{{0xFEFF, 0xFEFF}}},
		{Label: "Soft Hyphen (U+00AD)", Ranges: []CodeRange{{0x00AD, 0x00AD}}},
		{Label: "Combining Grapheme Joiner (U+034F)", Ranges: []CodeRange{{0x034F, 0x034F}}},
		{Label: "Arabic Letter Mark (U+061C)", Ranges: []CodeRange{{0x061C, 0x061C}}},
		{Label: "Mongolian Vowel Separator (U+180E)", Ranges: []CodeRange{{0x180E, 0x180E}}},
		{Label: "Tag Characters (U+E0000-U+E007F)", Ranges: []CodeRange{{0xE0000, 0xE007F}}},
	}
}

// ParseCodeRanges parses a comma-separated list of code points and ranges,
// e.g. "U+200B, U+202A-U+202E". The U+ prefix is optional.
func ParseCodeRanges(s string) ([]CodeRange, error) {
	var ranges []CodeRange
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		loRune, err := parseCodePoint(lo)
		if err != nil {
			return nil, err
		}
		hiRune := loRune
		if isRange {
			if hiRune, err = parseCodePoint(hi); err != nil {
				return nil, err
			}
		}
		if loRune > hiRune {
			return nil, Errorf(EINVALID, "code point range %q is reversed", part)
		}
		ranges = append(ranges, CodeRange{Lo: loRune, Hi: hiRune})
	}
	if len(ranges) == 0 {
		return nil, Errorf(EINVALID, "no code points in %q", s)
	}
	return ranges, nil
}

// FormatCodeRanges is the inverse of ParseCodeRanges.
func FormatCodeRanges(ranges []CodeRange) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}

func parseCodePoint(s string) (rune, error) {
	s = strings.TrimSpace(s)
	if len(s) > 2 && (s[:2] == "U+" || s[:2] == "u+") {
		s = s[2:]
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil || n > unicode.MaxRune {
		return 0, Errorf(EINVALID, "invalid code point %q", s)
	}
	return rune(n), nil
}
