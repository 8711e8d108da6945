package tracestrip

import (
	"regexp"
	"slices"
	"strings"
)

// IdentifierKey is the category under which identifier-pattern removals are counted.
const IdentifierKey = "id(model-response-message-contentr_*)"

// UnicodeKeyPrefix prefixes the category of every invisible-character removal.
const UnicodeKeyPrefix = "unicode: "

// UnicodeKey returns the category key for an invisible-character catalog label.
func UnicodeKey(label string) string {
	return UnicodeKeyPrefix + label
}

// DefaultIdentifierPattern matches element ids generated by chat interfaces
// for message containers. It is anchored at the start of the value.
var DefaultIdentifierPattern = regexp.MustCompile(`^model-response-message-contentr_`)

// DefaultAttributes returns the attributes removed from every element by default.
func DefaultAttributes() []string {
	return []string{
		"data-start",
		"data-end",
		"data-is-last-node",
		"data-is-only-node",
		"data-llm-id",
		"data-pm-slice",
		"data-message-author-role",
		"data-message-id",
		"data-message-model-slug",
		"data-turn-id",
		"data-turn",
	}
}

// Config holds the catalogs applied by a cleaning engine.
// A Config is assembled once by the caller and treated as read-only afterwards.
type Config struct {
	// Attributes are removed unconditionally from every element.
	// Names are lower case, unique and non-empty.
	Attributes []string

	// IdentifierPattern is matched against each element's id value. On a
	// match the whole id attribute is removed. Nil disables identifier cleaning.
	IdentifierPattern *regexp.Regexp

	// InvisibleChars is applied in order after attribute cleaning.
	InvisibleChars []InvisibleChar
}

// DefaultConfig returns a Config with the default catalogs.
func DefaultConfig() *Config {
	return &Config{
		Attributes:        DefaultAttributes(),
		IdentifierPattern: DefaultIdentifierPattern,
		InvisibleChars:    DefaultInvisibleChars(),
	}
}

// WithAttributes returns a copy of the config whose attribute catalog is the
// union of the existing catalog and names. Order of first appearance is kept.
func (c *Config) WithAttributes(names ...string) *Config {
	other := c.clone()
	other.Attributes = NormalizeAttributes(append(slices.Clone(c.Attributes), names...))
	return other
}

// WithInvisibleChars returns a copy of the config with chars applied to its
// invisible-character catalog. When replace is true the existing catalog is
// discarded. Otherwise an entry whose label already exists overrides it in
// place, and entries with new labels are appended. Entries that fail
// validation are skipped.
func (c *Config) WithInvisibleChars(chars []InvisibleChar, replace bool) *Config {
	other := c.clone()
	if replace {
		other.InvisibleChars = nil
	}
	for _, ch := range chars {
		if ch.Validate() != nil {
			continue
		}
		idx := slices.IndexFunc(other.InvisibleChars, func(e InvisibleChar) bool {
			return e.Label == ch.Label
		})
		ch.Ranges = slices.Clone(ch.Ranges)
		if idx >= 0 {
			other.InvisibleChars[idx] = ch
		} else {
			other.InvisibleChars = append(other.InvisibleChars, ch)
		}
	}
	return other
}

// HasAttributeRules reports whether the attribute stage has anything to remove.
func (c *Config) HasAttributeRules() bool {
	return len(c.Attributes) > 0 || c.IdentifierPattern != nil
}

// HasInvisibleChars reports whether the invisible-character stage has anything to remove.
func (c *Config) HasInvisibleChars() bool {
	return len(c.InvisibleChars) > 0
}

func (c *Config) clone() *Config {
	return &Config{
		Attributes:        slices.Clone(c.Attributes),
		IdentifierPattern: c.IdentifierPattern,
		InvisibleChars:    slices.Clone(c.InvisibleChars),
	}
}

// NormalizeAttributes lower-cases and trims attribute names, drops empty
// entries and names that cannot appear in markup, and removes duplicates
// while keeping the order of first appearance. HTML attribute names are
// ASCII case-insensitive, so both cleaning strategies compare them in lower
// case.
func NormalizeAttributes(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] || strings.ContainsAny(name, " \t\n\"'>/=") {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
