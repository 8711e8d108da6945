package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/tracestrip"
)

// Run executes the log command.
func (c *LogCmd) Run(deps *Dependencies) error {
	if c.PruneBefore > 0 {
		n, err := deps.Audit.DeleteAuditEntriesBefore(deps.Ctx, time.Now().Add(-c.PruneBefore))
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", tracestrip.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Pruned %d audit entries\n", n)
		return nil
	}

	filter := tracestrip.AuditFilter{Limit: c.Limit}
	if c.Document != "" {
		filter.DocumentID = &c.Document
	}
	if c.Source != "" {
		source := tracestrip.AuditSource(c.Source)
		switch source {
		case tracestrip.AuditSourceScan, tracestrip.AuditSourceAuto, tracestrip.AuditSourceManual:
		default:
			fmt.Fprintf(deps.Stderr, "error: unknown source %q (want scan, auto or manual)\n", c.Source)
			return tracestrip.Errorf(tracestrip.EINVALID, "unknown source %q", c.Source)
		}
		filter.Source = &source
	}

	entries, err := deps.Audit.FindAuditEntries(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tracestrip.ErrorMessage(err))
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(deps.Stdout, "No audit entries found.")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(deps.Stdout, "%s  %-6s  %s  %d removed (%s)\n",
			e.CreatedAt.Local().Format(time.DateTime), e.Source, e.DocumentID, e.Total, e.Strategy)
		fmt.Fprintf(deps.Stdout, "    %s\n", formatCounts(e.Counts))
	}
	return nil
}

// formatCounts renders counts as "key=n" pairs in key order.
func formatCounts(counts map[string]int) string {
	res := tracestrip.CleanResult{Counts: counts}
	parts := make([]string, 0, len(counts))
	for _, k := range res.Categories() {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}
