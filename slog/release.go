package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tracestrip"
)

// Ensure LoggingUpdateChecker implements tracestrip.UpdateChecker.
var _ tracestrip.UpdateChecker = (*LoggingUpdateChecker)(nil)

// LoggingUpdateChecker wraps an UpdateChecker with logging.
type LoggingUpdateChecker struct {
	next   tracestrip.UpdateChecker
	logger *slog.Logger
}

// NewLoggingUpdateChecker creates a new LoggingUpdateChecker.
func NewLoggingUpdateChecker(next tracestrip.UpdateChecker, logger *slog.Logger) *LoggingUpdateChecker {
	return &LoggingUpdateChecker{next: next, logger: logger}
}

// LatestRelease delegates to the wrapped checker and logs the operation.
func (c *LoggingUpdateChecker) LatestRelease(ctx context.Context) (release *tracestrip.Release, err error) {
	defer func(begin time.Time) {
		var version string
		if release != nil {
			version = release.Version
		}
		c.logger.Info("update check",
			"version", version,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.LatestRelease(ctx)
}
