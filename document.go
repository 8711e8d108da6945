package tracestrip

import (
	"context"
	"time"
)

// Document represents a stored document whose content may carry trace artifacts.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHash string    `json:"contentHash"`
	CleanedHash string    `json:"cleanedHash"` // ContentHash at the time of the last clean
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.Title == "" {
		return Errorf(EINVALID, "document title required")
	}
	return nil
}

// NeedsCleaning reports whether the content changed since it was last cleaned.
func (d *Document) NeedsCleaning() bool {
	return d.CleanedHash == "" || d.CleanedHash != d.ContentHash
}

// DocumentService represents a service for managing documents.
type DocumentService interface {
	// CreateDocument creates a new document.
	CreateDocument(ctx context.Context, doc *Document) error

	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// FindDocuments retrieves documents matching the filter, ordered by ID.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)

	// UpdateDocument updates an existing document.
	// Returns ENOTFOUND if document does not exist.
	UpdateDocument(ctx context.Context, id string, upd DocumentUpdate) (*Document, error)

	// DeleteDocument permanently removes a document.
	// Returns ENOTFOUND if document does not exist.
	DeleteDocument(ctx context.Context, id string) error
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	ID    *string `json:"id"`
	Title *string `json:"title"`

	// AfterID restricts results to documents with an ID greater than it.
	// Used as a resumable cursor by batch scans.
	AfterID *string `json:"afterId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// DocumentUpdate represents fields that can be updated on a document.
type DocumentUpdate struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`

	// MarkCleaned records the resulting content hash as cleaned.
	MarkCleaned bool `json:"markCleaned"`
}
