package main

import (
	"fmt"

	"github.com/fwojciec/tracestrip"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	docs, err := deps.Documents.FindDocuments(deps.Ctx, tracestrip.DocumentFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tracestrip.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, "No documents found. Use 'tracestrip import' to add some.")
		return nil
	}

	for _, doc := range docs {
		status := "clean"
		if doc.NeedsCleaning() {
			status = "dirty"
		}
		fmt.Fprintf(deps.Stdout, "%s  %-5s  %s\n", doc.ID, status, doc.Title)
	}

	return nil
}
