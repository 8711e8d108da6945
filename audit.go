package tracestrip

import (
	"context"
	"time"
)

// AuditSource identifies which integration path produced an audit entry.
type AuditSource string

// AuditSource constants.
const (
	AuditSourceScan   AuditSource = "scan"
	AuditSourceAuto   AuditSource = "auto"
	AuditSourceManual AuditSource = "manual"
)

// AuditEntry records what was removed from a document.
type AuditEntry struct {
	ID         string           `json:"id"`
	DocumentID string           `json:"documentId"`
	Source     AuditSource      `json:"source"`
	Strategy   string           `json:"strategy"`
	Counts     map[string]int   `json:"counts"`
	Total      int              `json:"total"`
	Locations  []ChangeLocation `json:"locations,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// NewAuditEntry builds an audit entry from a cleaning result.
func NewAuditEntry(documentID string, source AuditSource, res *CleanResult) *AuditEntry {
	return &AuditEntry{
		DocumentID: documentID,
		Source:     source,
		Strategy:   res.Strategy,
		Counts:     res.Counts,
		Total:      res.Total(),
		Locations:  res.Locations,
	}
}

// Validate returns an error if the entry contains invalid fields.
func (e *AuditEntry) Validate() error {
	if e.DocumentID == "" {
		return Errorf(EINVALID, "audit entry document ID required")
	}
	switch e.Source {
	case AuditSourceScan, AuditSourceAuto, AuditSourceManual:
	default:
		return Errorf(EINVALID, "invalid audit source %q", e.Source)
	}
	if len(e.Counts) == 0 {
		return Errorf(EINVALID, "audit entry without removals")
	}
	return nil
}

// AuditService represents the persistent audit log.
type AuditService interface {
	// CreateAuditEntry appends an entry to the log.
	CreateAuditEntry(ctx context.Context, entry *AuditEntry) error

	// FindAuditEntries retrieves entries matching the filter, newest first.
	FindAuditEntries(ctx context.Context, filter AuditFilter) ([]*AuditEntry, error)

	// DeleteAuditEntriesBefore removes entries created before t and returns
	// the number removed.
	DeleteAuditEntriesBefore(ctx context.Context, t time.Time) (int, error)
}

// AuditFilter represents a filter for FindAuditEntries.
type AuditFilter struct {
	DocumentID *string      `json:"documentId"`
	Source     *AuditSource `json:"source"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
