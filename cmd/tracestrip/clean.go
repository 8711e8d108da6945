package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/tracestrip"
)

// Run executes the clean command.
func (c *CleanCmd) Run(deps *Dependencies) error {
	if c.ID != "" && c.File != "" {
		fmt.Fprintln(deps.Stderr, "error: use either a file or --id, not both")
		return tracestrip.Errorf(tracestrip.EINVALID, "use either a file or --id, not both")
	}

	opts := c.options(deps.Settings)
	if opts.IsNoop() {
		fmt.Fprintln(deps.Stderr, "error: --no-attributes and --no-unicode leave nothing to clean")
		return tracestrip.Errorf(tracestrip.EINVALID, "nothing to clean")
	}

	if c.ID != "" {
		return c.cleanDocument(deps, opts)
	}

	input, err := c.read(deps.Stdin)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	res := deps.NewCleaner(c.Fallback).Clean(input, opts)

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprint(deps.Stdout, res.HTML)
	if c.Stats {
		printStats(deps.Stderr, res)
	}
	if c.Locations {
		printLocations(deps.Stderr, res.Locations)
	}
	return nil
}

// cleanDocument cleans a stored document in place and records the removals
// in the audit log.
func (c *CleanCmd) cleanDocument(deps *Dependencies, opts tracestrip.CleanOptions) error {
	doc, err := deps.Documents.FindDocumentByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tracestrip.ErrorMessage(err))
		return err
	}

	res := deps.NewCleaner(c.Fallback).Clean(doc.Content, opts)

	upd := tracestrip.DocumentUpdate{MarkCleaned: true}
	if res.Changed() {
		upd.Content = &res.HTML
	}
	if _, err := deps.Documents.UpdateDocument(deps.Ctx, doc.ID, upd); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tracestrip.ErrorMessage(err))
		return err
	}

	if res.Changed() {
		entry := tracestrip.NewAuditEntry(doc.ID, tracestrip.AuditSourceManual, res)
		if err := deps.Audit.CreateAuditEntry(deps.Ctx, entry); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", tracestrip.ErrorMessage(err))
			return err
		}
	}

	fmt.Fprintf(deps.Stdout, "Cleaned %q: %d removed (%s)\n", doc.Title, res.Total(), res.Strategy)
	if c.Stats {
		printStats(deps.Stdout, res)
	}
	if c.Locations {
		printLocations(deps.Stdout, res.Locations)
	}
	return nil
}

func (c *CleanCmd) options(settings *tracestrip.Settings) tracestrip.CleanOptions {
	opts := tracestrip.DefaultCleanOptions()
	if settings != nil {
		opts = settings.Options()
	}
	if c.NoAttributes {
		opts.CleanAttributes = false
	}
	if c.NoUnicode {
		opts.CleanUnicode = false
	}
	if c.Locations {
		opts.TrackLocations = true
	}
	return opts
}

func (c *CleanCmd) read(stdin io.Reader) (string, error) {
	if c.File == "" || c.File == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}

	b, err := os.ReadFile(c.File)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", c.File, err)
	}
	return string(b), nil
}

func printStats(w io.Writer, res *tracestrip.CleanResult) {
	if !res.Changed() {
		fmt.Fprintln(w, "Nothing removed")
		return
	}
	for _, category := range res.Categories() {
		fmt.Fprintf(w, "  %-60s %d\n", category, res.Counts[category])
	}
	fmt.Fprintf(w, "  %-60s %d\n", "total", res.Total())
}

func printLocations(w io.Writer, locs []tracestrip.ChangeLocation) {
	for _, loc := range locs {
		where := loc.Element
		if where == "" {
			where = fmt.Sprintf("@%d", loc.Offset)
		}
		fmt.Fprintf(w, "  %s  %s  %q\n", where, loc.Category, loc.Snippet)
	}
}
