package mock

import "github.com/fwojciec/tracestrip"

var (
	_ tracestrip.Cleaner       = (*Cleaner)(nil)
	_ tracestrip.ParseStrategy = (*ParseStrategy)(nil)
)

// Cleaner is a mock implementation of tracestrip.Cleaner.
type Cleaner struct {
	CleanFn func(html string, opts tracestrip.CleanOptions) *tracestrip.CleanResult
}

func (c *Cleaner) Clean(html string, opts tracestrip.CleanOptions) *tracestrip.CleanResult {
	return c.CleanFn(html, opts)
}

// ParseStrategy is a mock implementation of tracestrip.ParseStrategy.
type ParseStrategy struct {
	NameFn            func() string
	StripAttributesFn func(html string, cfg *tracestrip.Config, tally *tracestrip.Tally) (string, error)
}

func (s *ParseStrategy) Name() string {
	return s.NameFn()
}

func (s *ParseStrategy) StripAttributes(html string, cfg *tracestrip.Config, tally *tracestrip.Tally) (string, error) {
	return s.StripAttributesFn(html, cfg, tally)
}
