package clean

import (
	"context"
	"fmt"

	"github.com/fwojciec/tracestrip"
)

// Ensure DocumentService implements tracestrip.DocumentService at compile time.
var _ tracestrip.DocumentService = (*DocumentService)(nil)

// DocumentService cleans document content on its way into the wrapped
// service and records an audit entry whenever something was removed.
// Reads and deletes pass through unchanged.
type DocumentService struct {
	tracestrip.DocumentService

	// NewCleaner returns a cleaner for a single write.
	NewCleaner func() tracestrip.Cleaner

	Audit   tracestrip.AuditService
	Options tracestrip.CleanOptions
}

// NewDocumentService wraps next. Locations are always tracked so that audit
// entries show where removals happened.
func NewDocumentService(next tracestrip.DocumentService, newCleaner func() tracestrip.Cleaner, audit tracestrip.AuditService, opts tracestrip.CleanOptions) *DocumentService {
	opts.TrackLocations = true
	return &DocumentService{
		DocumentService: next,
		NewCleaner:      newCleaner,
		Audit:           audit,
		Options:         opts,
	}
}

// CreateDocument cleans doc.Content, creates the document and marks it
// cleaned. Content with nothing to remove is stored as given.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *tracestrip.Document) error {
	if doc.Content == "" || s.Options.IsNoop() {
		return s.DocumentService.CreateDocument(ctx, doc)
	}

	res := s.NewCleaner().Clean(doc.Content, s.Options)
	if res.Changed() {
		doc.Content = res.HTML
	}
	if err := s.DocumentService.CreateDocument(ctx, doc); err != nil {
		return err
	}

	updated, err := s.DocumentService.UpdateDocument(ctx, doc.ID, tracestrip.DocumentUpdate{MarkCleaned: true})
	if err != nil {
		return fmt.Errorf("mark document cleaned: %w", err)
	}
	doc.CleanedHash = updated.CleanedHash

	return s.audit(ctx, doc.ID, res)
}

// UpdateDocument cleans upd.Content when it is set before applying the update.
func (s *DocumentService) UpdateDocument(ctx context.Context, id string, upd tracestrip.DocumentUpdate) (*tracestrip.Document, error) {
	if upd.Content == nil || s.Options.IsNoop() {
		return s.DocumentService.UpdateDocument(ctx, id, upd)
	}

	res := s.NewCleaner().Clean(*upd.Content, s.Options)
	if res.Changed() {
		upd.Content = &res.HTML
	}
	upd.MarkCleaned = true

	doc, err := s.DocumentService.UpdateDocument(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if err := s.audit(ctx, id, res); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) audit(ctx context.Context, id string, res *tracestrip.CleanResult) error {
	if !res.Changed() || s.Audit == nil {
		return nil
	}
	if err := s.Audit.CreateAuditEntry(ctx, tracestrip.NewAuditEntry(id, tracestrip.AuditSourceAuto, res)); err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}
