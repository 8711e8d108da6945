// Package slog provides log/slog decorators for tracestrip services.
package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/tracestrip"
)

// Ensure LoggingCleaner implements tracestrip.Cleaner.
var _ tracestrip.Cleaner = (*LoggingCleaner)(nil)

// LoggingCleaner wraps a Cleaner with debug logging.
type LoggingCleaner struct {
	next   tracestrip.Cleaner
	logger *slog.Logger
}

// NewLoggingCleaner creates a new LoggingCleaner.
func NewLoggingCleaner(next tracestrip.Cleaner, logger *slog.Logger) *LoggingCleaner {
	return &LoggingCleaner{next: next, logger: logger}
}

// Clean delegates to the wrapped cleaner and logs the outcome at debug level.
func (c *LoggingCleaner) Clean(html string, opts tracestrip.CleanOptions) (res *tracestrip.CleanResult) {
	defer func(begin time.Time) {
		c.logger.Debug("clean",
			"bytes", len(html),
			"cleaned_bytes", len(res.HTML),
			"strategy", res.Strategy,
			"removed", res.Total(),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return c.next.Clean(html, opts)
}
