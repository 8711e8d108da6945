package tracestrip

import (
	"context"
	"time"
)

// ScanStatus is the lifecycle state of a batch scan.
type ScanStatus string

// ScanStatus constants.
const (
	ScanIdle     ScanStatus = "idle"
	ScanRunning  ScanStatus = "running"
	ScanComplete ScanStatus = "complete"
)

// ScanState is the progress of a batch scan over the document store,
// persisted between batches so that an interrupted scan can resume.
type ScanState struct {
	// Cursor is the ID of the last document processed. Empty means the scan
	// starts from the beginning.
	Cursor string `json:"cursor"`

	Status    ScanStatus `json:"status"`
	Batches   int        `json:"batches"`
	Processed int        `json:"processed"`
	Cleaned   int        `json:"cleaned"`
	Skipped   int        `json:"skipped"`
	Failed    int        `json:"failed"`
	Removed   int        `json:"removed"` // total removals across all documents

	StartedAt time.Time `json:"startedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Reset clears progress so the next scan starts from the beginning.
func (s *ScanState) Reset() {
	*s = ScanState{Status: ScanIdle}
}

// ScanStateService persists batch scan progress.
type ScanStateService interface {
	// FindScanState returns the stored state, or an idle state if none is stored.
	FindScanState(ctx context.Context) (*ScanState, error)

	// SaveScanState stores state, setting UpdatedAt.
	SaveScanState(ctx context.Context, state *ScanState) error
}
