package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/tracestrip"
)

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	for _, path := range c.Files {
		content, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}

		doc := &tracestrip.Document{
			Title:   titleFromPath(path),
			Content: string(content),
		}
		if err := deps.Documents.CreateDocument(deps.Ctx, doc); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", path, tracestrip.ErrorMessage(err))
			return err
		}

		status := "not cleaned"
		if !doc.NeedsCleaning() {
			status = "cleaned"
		}
		fmt.Fprintf(deps.Stdout, "Imported %q (%s, %s)\n", doc.Title, doc.ID, status)
	}
	return nil
}

// titleFromPath returns the file name without its extension.
func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
