package mock

import (
	"context"

	"github.com/fwojciec/tracestrip"
)

var _ tracestrip.UpdateChecker = (*UpdateChecker)(nil)

// UpdateChecker is a mock implementation of tracestrip.UpdateChecker.
type UpdateChecker struct {
	LatestReleaseFn func(ctx context.Context) (*tracestrip.Release, error)
}

func (c *UpdateChecker) LatestRelease(ctx context.Context) (*tracestrip.Release, error) {
	return c.LatestReleaseFn(ctx)
}
