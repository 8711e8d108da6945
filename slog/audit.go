package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tracestrip"
)

// Ensure LoggingAuditService implements tracestrip.AuditService.
var _ tracestrip.AuditService = (*LoggingAuditService)(nil)

// LoggingAuditService wraps an AuditService with logging.
type LoggingAuditService struct {
	next   tracestrip.AuditService
	logger *slog.Logger
}

// NewLoggingAuditService creates a new LoggingAuditService.
func NewLoggingAuditService(next tracestrip.AuditService, logger *slog.Logger) *LoggingAuditService {
	return &LoggingAuditService{next: next, logger: logger}
}

// CreateAuditEntry delegates to the wrapped service and logs the removals per category.
func (s *LoggingAuditService) CreateAuditEntry(ctx context.Context, entry *tracestrip.AuditEntry) (err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"document", entry.DocumentID,
			"source", entry.Source,
			"strategy", entry.Strategy,
			"total", entry.Total,
		}
		counts := make([]any, 0, len(entry.Counts))
		for category, n := range entry.Counts {
			counts = append(counts, slog.Int(category, n))
		}
		attrs = append(attrs, slog.Group("counts", counts...), "duration", time.Since(begin), "err", err)
		s.logger.Info("audit entry", attrs...)
	}(time.Now())
	return s.next.CreateAuditEntry(ctx, entry)
}

// FindAuditEntries delegates to the wrapped service.
func (s *LoggingAuditService) FindAuditEntries(ctx context.Context, filter tracestrip.AuditFilter) ([]*tracestrip.AuditEntry, error) {
	return s.next.FindAuditEntries(ctx, filter)
}

// DeleteAuditEntriesBefore delegates to the wrapped service and logs the number of entries removed.
func (s *LoggingAuditService) DeleteAuditEntriesBefore(ctx context.Context, t time.Time) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Info("audit prune",
			"before", t.Format(time.RFC3339),
			"count", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteAuditEntriesBefore(ctx, t)
}
