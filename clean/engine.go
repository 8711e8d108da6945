// Package clean provides the cleaning engine. It selects an attribute
// strategy, falls back when the preferred strategy degrades, and applies the
// invisible-character catalog to whatever the strategy produced.
package clean

import (
	"strings"

	"github.com/fwojciec/tracestrip"
	"github.com/fwojciec/tracestrip/pattern"
)

// Ensure Engine implements tracestrip.Cleaner at compile time.
var _ tracestrip.Cleaner = (*Engine)(nil)

// Engine cleans documents with a fixed configuration.
//
// An Engine keeps the result of its last call for LastResult, so it must not
// be shared between goroutines. Construct one per unit of work.
type Engine struct {
	config     *tracestrip.Config
	strategies []tracestrip.ParseStrategy
	invisible  *InvisibleSet
	last       *tracestrip.CleanResult
}

// NewEngine creates an engine applying cfg, or DefaultConfig when cfg is nil.
// The structured strategy is tried first when it is non-nil; the pattern
// strategy is always available as the last resort.
func NewEngine(cfg *tracestrip.Config, structured tracestrip.ParseStrategy) *Engine {
	if cfg == nil {
		cfg = tracestrip.DefaultConfig()
	}
	var strategies []tracestrip.ParseStrategy
	if structured != nil {
		strategies = append(strategies, structured)
	}
	strategies = append(strategies, pattern.NewStrategy())

	return &Engine{
		config:     cfg,
		strategies: strategies,
		invisible:  NewInvisibleSet(cfg.InvisibleChars),
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() *tracestrip.Config {
	return e.config
}

// Clean removes configured attributes, matching identifiers and invisible
// characters from text. Empty input and options that select nothing return
// the input unchanged without parsing it.
func (e *Engine) Clean(text string, opts tracestrip.CleanOptions) *tracestrip.CleanResult {
	e.last = e.clean(text, opts)
	return e.last
}

// LastResult returns the result of the most recent Clean call, or nil.
func (e *Engine) LastResult() *tracestrip.CleanResult {
	return e.last
}

func (e *Engine) clean(text string, opts tracestrip.CleanOptions) *tracestrip.CleanResult {
	tally := tracestrip.NewTally(opts.TrackLocations)
	strategy := tracestrip.StrategyNone

	if text == "" || opts.IsNoop() {
		return tally.Result(text, strategy)
	}

	if opts.CleanAttributes && e.config.HasAttributeRules() {
		text, strategy = e.stripAttributes(text, tally)
	}

	if opts.CleanUnicode && e.config.HasInvisibleChars() {
		text = e.invisible.Strip(text, tally)
	}

	res := tally.Result(text, strategy)
	for i := range res.Locations {
		res.Locations[i].Snippet = strings.Map(e.invisible.drop, res.Locations[i].Snippet)
	}
	return res
}

// stripAttributes runs the strategies in order until one succeeds. When
// nothing was removed the input is returned as given, so that serialization
// differences never show up as changes.
func (e *Engine) stripAttributes(text string, tally *tracestrip.Tally) (string, string) {
	for _, s := range e.strategies {
		before := tally.Total()
		out, err := s.StripAttributes(text, e.config, tally)
		if err != nil {
			continue
		}
		if tally.Total() == before {
			return text, s.Name()
		}
		return out, s.Name()
	}
	return text, tracestrip.StrategyNone
}
