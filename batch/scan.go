// Package batch provides the resumable batch scanner that cleans every
// stored document. Documents are processed in bounded batches by a worker
// pool, each batch under its own timeout, and progress is persisted after
// every batch so an interrupted scan continues where it stopped.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/tracestrip"
	"golang.org/x/sync/errgroup"
)

// Default scan limits, used when ScanOptions leaves them unset.
const (
	DefaultBatchSize    = 50
	DefaultConcurrency  = 4
	DefaultBatchTimeout = 30 * time.Second
)

// Scanner cleans stored documents batch by batch.
type Scanner struct {
	Documents tracestrip.DocumentService
	Audit     tracestrip.AuditService
	State     tracestrip.ScanStateService

	// NewCleaner returns a cleaner for a single document. Each document gets
	// its own cleaner because a cleaner keeps its last result.
	NewCleaner func() tracestrip.Cleaner

	Limiter *Limiter
	Logger  *slog.Logger
}

// ScanOptions controls a scan run.
type ScanOptions struct {
	Clean tracestrip.CleanOptions

	BatchSize    int
	Concurrency  int
	BatchTimeout time.Duration

	// MaxBatches stops the run after that many batches. Zero runs until
	// every document has been visited.
	MaxBatches int

	// DryRun cleans in memory only. Documents, the audit log and the stored
	// scan state are left untouched and the run starts from the beginning.
	DryRun bool

	// Force cleans documents even when their content was cleaned before.
	Force bool

	// Reset discards stored progress and starts from the first document.
	Reset bool
}

// OptionsFromSettings builds scan options from stored settings.
func OptionsFromSettings(s *tracestrip.Settings) ScanOptions {
	return ScanOptions{
		Clean:        s.Options(),
		BatchSize:    s.BatchSize,
		Concurrency:  s.Concurrency,
		BatchTimeout: s.BatchTimeout,
	}
}

// ProgressEvent reports progress during a scan.
type ProgressEvent struct {
	Type       ProgressType
	Batch      int
	DocumentID string
	Removed    int
	Error      error
	State      tracestrip.ScanState
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressDocument
	ProgressBatch
	ProgressFinished
)

// ProgressFunc is a callback for reporting scan progress.
type ProgressFunc func(event ProgressEvent)

// outcome is the result of processing a single document.
type outcome struct {
	done    bool
	skipped bool
	cleaned bool
	failed  bool
	removed int
	err     error
}

// Scan runs batches until every document was visited, MaxBatches is reached
// or a batch fails. It returns the scan state as of the last completed batch.
//
// When a batch times out, progress up to the last document completed without
// a gap is persisted and the timeout error is returned; the next run resumes
// from there.
func (s *Scanner) Scan(ctx context.Context, opts ScanOptions, progress ProgressFunc) (*tracestrip.ScanState, error) {
	opts = withDefaults(opts)
	logger := s.logger()

	state, err := s.loadState(ctx, opts)
	if err != nil {
		return nil, err
	}

	logger.Info("starting scan",
		"cursor", state.Cursor,
		"batch_size", opts.BatchSize,
		"concurrency", opts.Concurrency,
		"dry_run", opts.DryRun,
	)
	notify(progress, ProgressEvent{Type: ProgressStarted, State: *state})

	for batches := 0; opts.MaxBatches == 0 || batches < opts.MaxBatches; batches++ {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		filter := tracestrip.DocumentFilter{Limit: opts.BatchSize}
		if state.Cursor != "" {
			cursor := state.Cursor
			filter.AfterID = &cursor
		}
		docs, err := s.Documents.FindDocuments(ctx, filter)
		if err != nil {
			return state, fmt.Errorf("find documents: %w", err)
		}
		if len(docs) == 0 {
			return state, s.finish(ctx, state, opts, progress)
		}

		outcomes, batchErr := s.runBatch(ctx, docs, opts)
		state.Batches++
		for i, o := range outcomes {
			if !o.done {
				break
			}
			state.Cursor = docs[i].ID
			apply(state, o)
			notify(progress, ProgressEvent{
				Type:       ProgressDocument,
				Batch:      state.Batches,
				DocumentID: docs[i].ID,
				Removed:    o.removed,
				Error:      o.err,
				State:      *state,
			})
		}
		if err := s.save(ctx, state, opts); err != nil {
			return state, err
		}
		if batchErr != nil {
			logger.Warn("batch interrupted", "batch", state.Batches, "cursor", state.Cursor, "error", batchErr)
			return state, fmt.Errorf("batch %d: %w", state.Batches, batchErr)
		}

		logger.Info("batch completed",
			"batch", state.Batches,
			"documents", len(docs),
			"processed", state.Processed,
			"cleaned", state.Cleaned,
			"removed", state.Removed,
		)
		notify(progress, ProgressEvent{Type: ProgressBatch, Batch: state.Batches, State: *state})

		if len(docs) < opts.BatchSize {
			return state, s.finish(ctx, state, opts, progress)
		}
	}

	logger.Info("scan paused", "batches", state.Batches, "cursor", state.Cursor)
	return state, nil
}

func withDefaults(opts ScanOptions) ScanOptions {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = DefaultBatchTimeout
	}
	return opts
}

// loadState returns the state the run starts from. A finished scan starts over.
func (s *Scanner) loadState(ctx context.Context, opts ScanOptions) (*tracestrip.ScanState, error) {
	state := &tracestrip.ScanState{Status: tracestrip.ScanIdle}
	if !opts.DryRun {
		stored, err := s.State.FindScanState(ctx)
		if err != nil {
			return nil, fmt.Errorf("load scan state: %w", err)
		}
		state = stored
	}

	if opts.Reset || state.Status == tracestrip.ScanComplete {
		state.Reset()
	}
	if state.Status != tracestrip.ScanRunning {
		state.Status = tracestrip.ScanRunning
		state.StartedAt = time.Now().UTC()
	}

	if err := s.save(ctx, state, opts); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *Scanner) finish(ctx context.Context, state *tracestrip.ScanState, opts ScanOptions, progress ProgressFunc) error {
	state.Status = tracestrip.ScanComplete
	if err := s.save(ctx, state, opts); err != nil {
		return err
	}

	s.logger().Info("scan complete",
		"batches", state.Batches,
		"processed", state.Processed,
		"cleaned", state.Cleaned,
		"skipped", state.Skipped,
		"failed", state.Failed,
		"removed", state.Removed,
	)
	notify(progress, ProgressEvent{Type: ProgressFinished, Batch: state.Batches, State: *state})
	return nil
}

func (s *Scanner) save(ctx context.Context, state *tracestrip.ScanState, opts ScanOptions) error {
	if opts.DryRun {
		state.UpdatedAt = time.Now().UTC()
		return nil
	}
	if err := s.State.SaveScanState(ctx, state); err != nil {
		return fmt.Errorf("save scan state: %w", err)
	}
	return nil
}

// runBatch processes docs concurrently under the batch timeout. Outcomes
// keep the order of docs; documents not reached before an error are left
// with done unset.
func (s *Scanner) runBatch(ctx context.Context, docs []*tracestrip.Document, opts ScanOptions) ([]outcome, error) {
	bctx, cancel := context.WithTimeout(ctx, opts.BatchTimeout)
	defer cancel()

	outcomes := make([]outcome, len(docs))

	g, gctx := errgroup.WithContext(bctx)
	g.SetLimit(opts.Concurrency)

	for i, doc := range docs {
		g.Go(func() error {
			if err := s.Limiter.Wait(gctx); err != nil {
				return err
			}
			o := s.process(gctx, doc, opts)
			if !o.done {
				return o.err
			}
			outcomes[i] = o
			return nil
		})
	}

	return outcomes, g.Wait()
}

// process cleans a single document. Failures of the document itself are
// reported in the outcome; a done outcome is never returned once the
// context has ended.
func (s *Scanner) process(ctx context.Context, doc *tracestrip.Document, opts ScanOptions) outcome {
	if err := ctx.Err(); err != nil {
		return outcome{err: err}
	}
	if !opts.Force && !doc.NeedsCleaning() {
		return outcome{done: true, skipped: true}
	}

	res := s.NewCleaner().Clean(doc.Content, opts.Clean)
	if err := ctx.Err(); err != nil {
		return outcome{err: err}
	}
	o := outcome{done: true, removed: res.Total(), cleaned: res.Changed()}
	if opts.DryRun {
		return o
	}

	upd := tracestrip.DocumentUpdate{MarkCleaned: true}
	if res.Changed() {
		upd.Content = &res.HTML
	}
	if _, err := s.Documents.UpdateDocument(ctx, doc.ID, upd); err != nil {
		if ctx.Err() != nil {
			return outcome{err: ctx.Err()}
		}
		s.logger().Warn("document update failed", "document", doc.ID, "error", err)
		return outcome{done: true, failed: true, err: err}
	}

	if res.Changed() && s.Audit != nil {
		entry := tracestrip.NewAuditEntry(doc.ID, tracestrip.AuditSourceScan, res)
		if err := s.Audit.CreateAuditEntry(ctx, entry); err != nil {
			s.logger().Warn("audit entry failed", "document", doc.ID, "error", err)
		}
	}
	return o
}

func apply(state *tracestrip.ScanState, o outcome) {
	state.Processed++
	switch {
	case o.failed:
		state.Failed++
	case o.skipped:
		state.Skipped++
	case o.cleaned:
		state.Cleaned++
		state.Removed += o.removed
	}
}

func notify(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}

func (s *Scanner) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
