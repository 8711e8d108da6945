package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/tracestrip"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ tracestrip.DocumentService = (*DocumentService)(nil)

// DocumentService implements tracestrip.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// newID returns a time-ordered ID, so that documents created later sort
// after the cursor of a scan in progress.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

const documentColumns = "id, title, content, content_hash, cleaned_hash, created_at, updated_at"

// CreateDocument creates a new document.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *tracestrip.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	doc.ID = newID()
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	doc.ContentHash = hashContent(doc.Content)
	doc.CleanedHash = ""

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, content, content_hash, cleaned_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Title, doc.Content, doc.ContentHash, doc.CleanedHash,
		formatTime(doc.CreatedAt), formatTime(doc.UpdatedAt))

	return err
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*tracestrip.Document, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+documentColumns+" FROM documents WHERE id = ?", id)

	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, tracestrip.Errorf(tracestrip.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// FindDocuments retrieves documents matching the filter, ordered by ID.
func (s *DocumentService) FindDocuments(ctx context.Context, filter tracestrip.DocumentFilter) ([]*tracestrip.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + documentColumns + " FROM documents WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Title != nil {
		query.WriteString(" AND title = ?")
		args = append(args, *filter.Title)
	}
	if filter.AfterID != nil {
		query.WriteString(" AND id > ?")
		args = append(args, *filter.AfterID)
	}

	query.WriteString(" ORDER BY id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*tracestrip.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// UpdateDocument updates an existing document.
func (s *DocumentService) UpdateDocument(ctx context.Context, id string, upd tracestrip.DocumentUpdate) (*tracestrip.Document, error) {
	// First check if document exists
	doc, err := s.FindDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Apply updates
	if upd.Title != nil {
		doc.Title = *upd.Title
	}
	if upd.Content != nil {
		doc.Content = *upd.Content
		doc.ContentHash = hashContent(doc.Content)
	}
	if upd.MarkCleaned {
		doc.CleanedHash = doc.ContentHash
	}
	doc.UpdatedAt = time.Now().UTC()

	// Validate before persisting (defense-in-depth)
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE documents
		SET title = ?, content = ?, content_hash = ?, cleaned_hash = ?, updated_at = ?
		WHERE id = ?
	`, doc.Title, doc.Content, doc.ContentHash, doc.CleanedHash, formatTime(doc.UpdatedAt), id)

	if err != nil {
		return nil, err
	}

	return doc, nil
}

// DeleteDocument permanently removes a document.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return tracestrip.Errorf(tracestrip.ENOTFOUND, "document not found")
	}

	return nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*tracestrip.Document, error) {
	var doc tracestrip.Document
	var createdAt, updatedAt string

	if err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.ContentHash, &doc.CleanedHash,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if doc.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if doc.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &doc, nil
}
