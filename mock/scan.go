package mock

import (
	"context"

	"github.com/fwojciec/tracestrip"
)

var _ tracestrip.ScanStateService = (*ScanStateService)(nil)

// ScanStateService is a mock implementation of tracestrip.ScanStateService.
type ScanStateService struct {
	FindScanStateFn func(ctx context.Context) (*tracestrip.ScanState, error)
	SaveScanStateFn func(ctx context.Context, state *tracestrip.ScanState) error
}

func (s *ScanStateService) FindScanState(ctx context.Context) (*tracestrip.ScanState, error) {
	return s.FindScanStateFn(ctx)
}

func (s *ScanStateService) SaveScanState(ctx context.Context, state *tracestrip.ScanState) error {
	return s.SaveScanStateFn(ctx, state)
}
