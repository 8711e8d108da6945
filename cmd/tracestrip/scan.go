package main

import (
	"fmt"

	"github.com/fwojciec/tracestrip"
	"github.com/fwojciec/tracestrip/batch"
)

// Run executes the scan command.
func (c *ScanCmd) Run(deps *Dependencies) error {
	if deps.Scanner == nil {
		return tracestrip.Errorf(tracestrip.EINTERNAL, "scanner not configured")
	}

	opts := batch.OptionsFromSettings(deps.Settings)
	if c.BatchSize > 0 {
		opts.BatchSize = c.BatchSize
	}
	if c.Concurrency > 0 {
		opts.Concurrency = c.Concurrency
	}
	if c.Timeout > 0 {
		opts.BatchTimeout = c.Timeout
	}
	opts.MaxBatches = c.MaxBatches
	opts.DryRun = c.DryRun
	opts.Force = c.Force
	opts.Reset = c.Reset

	progress := func(event batch.ProgressEvent) {
		switch event.Type {
		case batch.ProgressStarted:
			if event.State.Cursor != "" {
				fmt.Fprintf(deps.Stdout, "Resuming after %s\n", event.State.Cursor)
			}
		case batch.ProgressDocument:
			if event.Error != nil {
				fmt.Fprintf(deps.Stderr, "  fail %s: %v\n", event.DocumentID, event.Error)
			}
		case batch.ProgressBatch:
			fmt.Fprintf(deps.Stdout, "  Batch %d: %d processed, %d cleaned\n",
				event.Batch, event.State.Processed, event.State.Cleaned)
		case batch.ProgressFinished:
			// Summary printed after scan completes
		}
	}

	state, err := deps.Scanner.Scan(deps.Ctx, opts, progress)
	if state != nil {
		verb := "Cleaned"
		if c.DryRun {
			verb = "Would clean"
		}
		fmt.Fprintf(deps.Stdout, "%s %d of %d documents (%d removed, %d skipped, %d failed)\n",
			verb, state.Cleaned, state.Processed, state.Removed, state.Skipped, state.Failed)
		if err == nil && state.Status != tracestrip.ScanComplete && !c.DryRun {
			fmt.Fprintln(deps.Stdout, "Scan paused. Run 'tracestrip scan' again to continue.")
		}
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error scanning: %v\n", err)
		return err
	}
	return nil
}
