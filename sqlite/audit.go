package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/tracestrip"
)

// Compile-time interface verification.
var _ tracestrip.AuditService = (*AuditService)(nil)

// AuditService implements tracestrip.AuditService using SQLite.
// Counts and locations are stored as JSON columns.
type AuditService struct {
	db *DB
}

// NewAuditService creates a new AuditService.
func NewAuditService(db *DB) *AuditService {
	return &AuditService{db: db}
}

// CreateAuditEntry appends an entry to the log.
func (s *AuditService) CreateAuditEntry(ctx context.Context, entry *tracestrip.AuditEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	counts, err := json.Marshal(entry.Counts)
	if err != nil {
		return fmt.Errorf("failed to encode counts: %w", err)
	}
	locations := []byte("[]")
	if len(entry.Locations) > 0 {
		if locations, err = json.Marshal(entry.Locations); err != nil {
			return fmt.Errorf("failed to encode locations: %w", err)
		}
	}

	entry.ID = newID()
	entry.CreatedAt = time.Now().UTC()
	if entry.Total == 0 {
		for _, n := range entry.Counts {
			entry.Total += n
		}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, document_id, source, strategy, counts, total, locations, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.DocumentID, string(entry.Source), entry.Strategy, string(counts), entry.Total,
		string(locations), formatTime(entry.CreatedAt))

	return err
}

// FindAuditEntries retrieves entries matching the filter, newest first.
func (s *AuditService) FindAuditEntries(ctx context.Context, filter tracestrip.AuditFilter) ([]*tracestrip.AuditEntry, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, document_id, source, strategy, counts, total, locations, created_at FROM audit_log WHERE 1=1")

	if filter.DocumentID != nil {
		query.WriteString(" AND document_id = ?")
		args = append(args, *filter.DocumentID)
	}
	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, string(*filter.Source))
	}

	// IDs are time-ordered, breaking ties between entries created within the same second.
	query.WriteString(" ORDER BY created_at DESC, id DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*tracestrip.AuditEntry
	for rows.Next() {
		var entry tracestrip.AuditEntry
		var source, counts, locations, createdAt string

		if err := rows.Scan(&entry.ID, &entry.DocumentID, &source, &entry.Strategy, &counts,
			&entry.Total, &locations, &createdAt); err != nil {
			return nil, err
		}

		entry.Source = tracestrip.AuditSource(source)
		if err := json.Unmarshal([]byte(counts), &entry.Counts); err != nil {
			return nil, fmt.Errorf("failed to decode counts: %w", err)
		}
		if err := json.Unmarshal([]byte(locations), &entry.Locations); err != nil {
			return nil, fmt.Errorf("failed to decode locations: %w", err)
		}
		if entry.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// DeleteAuditEntriesBefore removes entries created before t.
func (s *AuditService) DeleteAuditEntriesBefore(ctx context.Context, t time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM audit_log WHERE created_at < ?", formatTime(t))
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}
