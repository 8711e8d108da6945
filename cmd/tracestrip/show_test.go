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

func TestShowCmd_Run(t *testing.T) {
	t.Parallel()

	documents := &mock.DocumentService{
		FindDocumentByIDFn: func(_ context.Context, id string) (*tracestrip.Document, error) {
			if id == "doc-1" {
				return &tracestrip.Document{ID: id, Title: "Intro", Content: "<p>Hello <b>world</b></p>"}, nil
			}
			return nil, tracestrip.Errorf(tracestrip.ENOTFOUND, "document not found")
		},
	}

	t.Run("prints stored content", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps("")
		deps.Documents = documents

		err := (&main.ShowCmd{ID: "doc-1"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "<p>Hello <b>world</b></p>\n", stdout.String())
	})

	t.Run("renders markdown preview", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps("")
		deps.Documents = documents
		deps.Converter = &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				return "Hello **world**", nil
			},
		}

		err := (&main.ShowCmd{ID: "doc-1", Markdown: true}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "# Intro\n\nHello **world**\n", stdout.String())
	})

	t.Run("hints at docs command when not found", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newTestDeps("")
		deps.Documents = documents

		err := (&main.ShowCmd{ID: "nope"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, tracestrip.ENOTFOUND, tracestrip.ErrorCode(err))
		assert.Contains(t, stderr.String(), "tracestrip docs")
	})
}
