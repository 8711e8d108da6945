package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/tracestrip"
	main "github.com/fwojciec/tracestrip/cmd/tracestrip"
	"github.com/fwojciec/tracestrip/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists entries with sorted counts", func(t *testing.T) {
		t.Parallel()

		var got tracestrip.AuditFilter
		deps, stdout, _ := newTestDeps("")
		deps.Audit = &mock.AuditService{
			FindAuditEntriesFn: func(_ context.Context, filter tracestrip.AuditFilter) ([]*tracestrip.AuditEntry, error) {
				got = filter
				return []*tracestrip.AuditEntry{{
					DocumentID: "doc-1",
					Source:     tracestrip.AuditSourceScan,
					Strategy:   tracestrip.StrategyStructured,
					Counts:     map[string]int{"data-start": 2, "data-end": 1},
					Total:      3,
					CreatedAt:  time.Now(),
				}}, nil
			},
		}

		err := (&main.LogCmd{Document: "doc-1", Source: "scan", Limit: 5}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, got.DocumentID)
		assert.Equal(t, "doc-1", *got.DocumentID)
		require.NotNil(t, got.Source)
		assert.Equal(t, tracestrip.AuditSourceScan, *got.Source)
		assert.Equal(t, 5, got.Limit)
		assert.Contains(t, stdout.String(), "doc-1  3 removed (structured)")
		assert.Contains(t, stdout.String(), "data-end=1, data-start=2")
	})

	t.Run("rejects unknown source", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newTestDeps("")

		err := (&main.LogCmd{Source: "cron"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, tracestrip.EINVALID, tracestrip.ErrorCode(err))
		assert.Contains(t, stderr.String(), "unknown source")
	})

	t.Run("prunes old entries", func(t *testing.T) {
		t.Parallel()

		var cutoff time.Time
		deps, stdout, _ := newTestDeps("")
		deps.Audit = &mock.AuditService{
			DeleteAuditEntriesBeforeFn: func(_ context.Context, before time.Time) (int, error) {
				cutoff = before
				return 4, nil
			},
		}

		err := (&main.LogCmd{PruneBefore: 24 * time.Hour}).Run(deps)

		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(-24*time.Hour), cutoff, time.Minute)
		assert.Contains(t, stdout.String(), "Pruned 4 audit entries")
	})

	t.Run("shows message when empty", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps("")
		deps.Audit = &mock.AuditService{
			FindAuditEntriesFn: func(context.Context, tracestrip.AuditFilter) ([]*tracestrip.AuditEntry, error) {
				return nil, nil
			},
		}

		err := (&main.LogCmd{Limit: 20}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No audit entries found.")
	})
}
