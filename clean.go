package tracestrip

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// Strategy names reported in CleanResult.Strategy.
const (
	StrategyNone       = "none"
	StrategyStructured = "structured"
	StrategyPattern    = "pattern"
)

// CleanOptions selects which catalogs a cleaning call applies.
// The zero value cleans nothing.
type CleanOptions struct {
	CleanAttributes bool `json:"cleanAttributes"`
	CleanUnicode    bool `json:"cleanUnicode"`

	// TrackLocations collects a ChangeLocation for every removal.
	TrackLocations bool `json:"trackLocations"`
}

// DefaultCleanOptions applies both catalogs without location tracking.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{CleanAttributes: true, CleanUnicode: true}
}

// IsNoop reports whether the options request no cleaning at all.
func (o CleanOptions) IsNoop() bool {
	return !o.CleanAttributes && !o.CleanUnicode
}

// ChangeLocation describes where in a document a removal happened.
type ChangeLocation struct {
	Category string `json:"category"`

	// Element identifies the element by tag and position among its
	// siblings, e.g. "p[2]". Empty for textual matches.
	Element string `json:"element,omitempty"`

	// Offset is the byte offset of a textual match in the text the stage
	// operated on, or the element's index in document order for a
	// structured match.
	Offset int `json:"offset"`

	// Snippet is a short excerpt of the surrounding text.
	Snippet string `json:"snippet"`
}

// CleanResult is the outcome of a single cleaning call.
type CleanResult struct {
	// HTML is the cleaned text. It is always set, even when nothing changed.
	HTML string `json:"html"`

	// Counts maps a category key to the number of removals. Only categories
	// with at least one removal are present.
	Counts map[string]int `json:"counts"`

	Locations []ChangeLocation `json:"locations,omitempty"`

	// Strategy names the attribute strategy that produced the output.
	Strategy string `json:"strategy"`
}

// Count returns the number of removals for category.
func (r *CleanResult) Count(category string) int {
	return r.Counts[category]
}

// Total returns the number of removals across all categories.
func (r *CleanResult) Total() int {
	var total int
	for _, n := range r.Counts {
		total += n
	}
	return total
}

// Changed reports whether anything was removed.
func (r *CleanResult) Changed() bool {
	return r.Total() > 0
}

// Categories returns the category keys in sorted order.
func (r *CleanResult) Categories() []string {
	keys := make([]string, 0, len(r.Counts))
	for k := range r.Counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Cleaner removes trace artifacts from document text.
type Cleaner interface {
	// Clean never fails: malformed input degrades to cruder matching and the
	// result always carries text.
	Clean(html string, opts CleanOptions) *CleanResult
}

// ParseStrategy removes catalog attributes and matching identifiers from a document.
type ParseStrategy interface {
	// Name returns the strategy name for logging and results.
	Name() string

	// StripAttributes returns html with cfg's attributes and identifiers
	// removed, adding one count to tally per removal. A strategy that cannot
	// process the input returns an EDEGRADED error and must leave tally untouched.
	StripAttributes(html string, cfg *Config, tally *Tally) (string, error)
}

// Tally accumulates removal counts, and optionally locations, for one cleaning call.
type Tally struct {
	counts    map[string]int
	locations []ChangeLocation
	track     bool
}

// NewTally returns an empty tally. When track is false Record is a no-op.
func NewTally(track bool) *Tally {
	return &Tally{counts: make(map[string]int), track: track}
}

// Add increments category by n. Non-positive n is ignored so that only
// categories with removals appear in Counts.
func (t *Tally) Add(category string, n int) {
	if n <= 0 {
		return
	}
	t.counts[category] += n
}

// Total returns the number of removals across all categories.
func (t *Tally) Total() int {
	var total int
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Tracking reports whether locations are being collected.
func (t *Tally) Tracking() bool {
	return t.track
}

// Record stores a change location when tracking is enabled.
func (t *Tally) Record(loc ChangeLocation) {
	if !t.track {
		return
	}
	t.locations = append(t.locations, loc)
}

// Count returns the current count for category.
func (t *Tally) Count(category string) int {
	return t.counts[category]
}

// Counts returns a copy of the counters. Calling it does not reset the tally.
func (t *Tally) Counts() map[string]int {
	out := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// Locations returns a copy of the recorded locations.
func (t *Tally) Locations() []ChangeLocation {
	return slices.Clone(t.locations)
}

// Result builds a CleanResult from the tally.
func (t *Tally) Result(html, strategy string) *CleanResult {
	return &CleanResult{
		HTML:      html,
		Counts:    t.Counts(),
		Locations: t.Locations(),
		Strategy:  strategy,
	}
}

const excerptRadius = 30

// Excerpt returns up to 30 bytes of context on each side of s[start:end],
// aligned to rune boundaries and with whitespace collapsed.
func Excerpt(s string, start, end int) string {
	lo := max(min(start, len(s))-excerptRadius, 0)
	hi := min(max(end, 0)+excerptRadius, len(s))
	for lo > 0 && !utf8.RuneStart(s[lo]) {
		lo--
	}
	for hi < len(s) && !utf8.RuneStart(s[hi]) {
		hi++
	}
	return strings.Join(strings.Fields(s[lo:hi]), " ")
}
