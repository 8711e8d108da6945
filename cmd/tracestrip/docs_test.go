package main_test

import (
	"context"
	"testing"

	"github.com/fwojciec/tracestrip"
	main "github.com/fwojciec/tracestrip/cmd/tracestrip"
	"github.com/fwojciec/tracestrip/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists documents with cleaning status", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps("")
		deps.Documents = &mock.DocumentService{
			FindDocumentsFn: func(_ context.Context, filter tracestrip.DocumentFilter) ([]*tracestrip.Document, error) {
				assert.Equal(t, 5, filter.Limit)
				return []*tracestrip.Document{
					{ID: "doc-1", Title: "Getting Started", ContentHash: "a", CleanedHash: "a"},
					{ID: "doc-2", Title: "Release Notes", ContentHash: "b"},
				}, nil
			},
		}

		err := (&main.DocsCmd{Limit: 5}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "doc-1  clean  Getting Started")
		assert.Contains(t, stdout.String(), "doc-2  dirty  Release Notes")
	})

	t.Run("shows hint when empty", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps("")
		deps.Documents = &mock.DocumentService{
			FindDocumentsFn: func(context.Context, tracestrip.DocumentFilter) ([]*tracestrip.Document, error) {
				return nil, nil
			},
		}

		err := (&main.DocsCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "tracestrip import")
	})
}
