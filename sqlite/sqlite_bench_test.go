package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fwojciec/tracestrip"
	"github.com/fwojciec/tracestrip/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkCreateDocument measures inserts into a file-based database.
func BenchmarkCreateDocument(b *testing.B) {
	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	ctx := context.Background()
	svc := sqlite.NewDocumentService(db)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		doc := &tracestrip.Document{
			Title:   fmt.Sprintf("Page %d", i),
			Content: fmt.Sprintf(`<p data-start="%d" data-end="%d">Paragraph %d with some text.</p>`, i, i+10, i),
		}
		if err := svc.CreateDocument(ctx, doc); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkCursorScan measures paging through documents the way the batch scanner does.
func BenchmarkCursorScan(b *testing.B) {
	const docs, batchSize = 500, 50

	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	ctx := context.Background()
	svc := sqlite.NewDocumentService(db)
	for i := range docs {
		require.NoError(b, svc.CreateDocument(ctx, &tracestrip.Document{
			Title:   fmt.Sprintf("Page %d", i),
			Content: "<p>content</p>",
		}))
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		var cursor string
		for {
			batch, err := svc.FindDocuments(ctx, tracestrip.DocumentFilter{AfterID: &cursor, Limit: batchSize})
			if err != nil {
				b.Fatal(err)
			}
			if len(batch) == 0 {
				break
			}
			cursor = batch[len(batch)-1].ID
		}
	}
}
