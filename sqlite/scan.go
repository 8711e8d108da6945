package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/tracestrip"
)

// Compile-time interface verification.
var _ tracestrip.ScanStateService = (*ScanStateService)(nil)

// ScanStateService implements tracestrip.ScanStateService using SQLite.
// The state lives in a single row.
type ScanStateService struct {
	db *DB
}

// NewScanStateService creates a new ScanStateService.
func NewScanStateService(db *DB) *ScanStateService {
	return &ScanStateService{db: db}
}

// FindScanState returns the stored state, or an idle state if none is stored.
func (s *ScanStateService) FindScanState(ctx context.Context) (*tracestrip.ScanState, error) {
	var state tracestrip.ScanState
	var status, startedAt, updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT cursor, status, batches, processed, cleaned, skipped, failed, removed, started_at, updated_at
		FROM scan_state
		WHERE id = 1
	`).Scan(&state.Cursor, &status, &state.Batches, &state.Processed, &state.Cleaned,
		&state.Skipped, &state.Failed, &state.Removed, &startedAt, &updatedAt)

	if err == sql.ErrNoRows {
		return &tracestrip.ScanState{Status: tracestrip.ScanIdle}, nil
	}
	if err != nil {
		return nil, err
	}

	state.Status = tracestrip.ScanStatus(status)
	if state.StartedAt, err = parseOptionalRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if state.UpdatedAt, err = parseOptionalRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveScanState stores state, setting UpdatedAt.
func (s *ScanStateService) SaveScanState(ctx context.Context, state *tracestrip.ScanState) error {
	if state.Status == "" {
		state.Status = tracestrip.ScanIdle
	}
	state.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scan_state (id, cursor, status, batches, processed, cleaned, skipped, failed, removed, started_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			cursor = excluded.cursor,
			status = excluded.status,
			batches = excluded.batches,
			processed = excluded.processed,
			cleaned = excluded.cleaned,
			skipped = excluded.skipped,
			failed = excluded.failed,
			removed = excluded.removed,
			started_at = excluded.started_at,
			updated_at = excluded.updated_at
	`, state.Cursor, string(state.Status), state.Batches, state.Processed, state.Cleaned,
		state.Skipped, state.Failed, state.Removed, formatTime(state.StartedAt), formatTime(state.UpdatedAt))

	return err
}
