package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/tracestrip"
	"github.com/fwojciec/tracestrip/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanStateService(t *testing.T) {
	t.Parallel()

	t.Run("returns idle state when nothing is stored", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewScanStateService(setupTestDB(t))

		state, err := svc.FindScanState(context.Background())
		require.NoError(t, err)
		assert.Equal(t, &tracestrip.ScanState{Status: tracestrip.ScanIdle}, state)
	})

	t.Run("round-trips progress", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewScanStateService(setupTestDB(t))
		ctx := context.Background()

		started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		state := &tracestrip.ScanState{
			Cursor:    "doc-9",
			Status:    tracestrip.ScanRunning,
			Batches:   2,
			Processed: 20,
			Cleaned:   5,
			Skipped:   14,
			Failed:    1,
			Removed:   42,
			StartedAt: started,
		}
		require.NoError(t, svc.SaveScanState(ctx, state))
		assert.False(t, state.UpdatedAt.IsZero())

		state.Batches = 3
		require.NoError(t, svc.SaveScanState(ctx, state))

		found, err := svc.FindScanState(ctx)
		require.NoError(t, err)
		assert.Equal(t, "doc-9", found.Cursor)
		assert.Equal(t, tracestrip.ScanRunning, found.Status)
		assert.Equal(t, 3, found.Batches)
		assert.Equal(t, 20, found.Processed)
		assert.Equal(t, 5, found.Cleaned)
		assert.Equal(t, 14, found.Skipped)
		assert.Equal(t, 1, found.Failed)
		assert.Equal(t, 42, found.Removed)
		assert.True(t, started.Equal(found.StartedAt))
	})
}
