package mock

import (
	"context"
	"time"

	"github.com/fwojciec/tracestrip"
)

var _ tracestrip.AuditService = (*AuditService)(nil)

// AuditService is a mock implementation of tracestrip.AuditService.
type AuditService struct {
	CreateAuditEntryFn         func(ctx context.Context, entry *tracestrip.AuditEntry) error
	FindAuditEntriesFn         func(ctx context.Context, filter tracestrip.AuditFilter) ([]*tracestrip.AuditEntry, error)
	DeleteAuditEntriesBeforeFn func(ctx context.Context, t time.Time) (int, error)
}

func (s *AuditService) CreateAuditEntry(ctx context.Context, entry *tracestrip.AuditEntry) error {
	return s.CreateAuditEntryFn(ctx, entry)
}

func (s *AuditService) FindAuditEntries(ctx context.Context, filter tracestrip.AuditFilter) ([]*tracestrip.AuditEntry, error) {
	return s.FindAuditEntriesFn(ctx, filter)
}

func (s *AuditService) DeleteAuditEntriesBefore(ctx context.Context, t time.Time) (int, error) {
	return s.DeleteAuditEntriesBeforeFn(ctx, t)
}
