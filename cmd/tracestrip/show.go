package main

import (
	"fmt"

	"github.com/fwojciec/tracestrip"
	"github.com/fwojciec/tracestrip/htmltomarkdown"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	doc, err := deps.Documents.FindDocumentByID(deps.Ctx, c.ID)
	if err != nil {
		if tracestrip.ErrorCode(err) == tracestrip.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: document %q not found. Use 'tracestrip docs' to see stored documents.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", tracestrip.ErrorMessage(err))
		}
		return err
	}

	if !c.Markdown {
		fmt.Fprintln(deps.Stdout, doc.Content)
		return nil
	}

	md, err := htmltomarkdown.Preview(deps.Converter, doc)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tracestrip.ErrorMessage(err))
		return err
	}
	fmt.Fprint(deps.Stdout, md)
	return nil
}
