package mock

import "github.com/fwojciec/tracestrip"

var _ tracestrip.Converter = (*Converter)(nil)

// Converter is a mock implementation of tracestrip.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
