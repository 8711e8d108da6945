package htmltomarkdown_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/tracestrip"
	"github.com/fwojciec/tracestrip/htmltomarkdown"
	"github.com/fwojciec/tracestrip/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts a cleaned chat answer", func(t *testing.T) {
		t.Parallel()

		html := `<h2>Steps</h2><ol><li>Open the <strong>settings</strong></li><li>Run <code>tracestrip scan</code></li></ol>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "## Steps")
		assert.Contains(t, md, "1. Open the **settings**")
		assert.Contains(t, md, "2. Run `tracestrip scan`")
	})

	t.Run("ignores attributes left on elements", func(t *testing.T) {
		t.Parallel()

		html := `<p data-start="0" data-end="5">Hello</p>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Equal(t, "Hello", md)
	})

	t.Run("converts links and strikethrough", func(t *testing.T) {
		t.Parallel()

		html := `<p>See <a href="https://example.com">docs</a>, <del>not this</del>.</p>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "[docs](https://example.com)")
		assert.Contains(t, md, "~~not this~~")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		html := `<table><thead><tr><th>Key</th><th>Count</th></tr></thead><tbody><tr><td>data-start</td><td>2</td></tr></tbody></table>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "| Key")
		assert.Contains(t, md, "data-start")
	})

	t.Run("blank input converts to empty string", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert("  \n ")

		require.NoError(t, err)
		assert.Empty(t, md)
	})
}

func TestPreview(t *testing.T) {
	t.Parallel()

	t.Run("prefixes converted content with title", func(t *testing.T) {
		t.Parallel()

		doc := &tracestrip.Document{Title: "Answer", Content: "<p>Hello</p>"}

		md, err := htmltomarkdown.Preview(htmltomarkdown.NewConverter(), doc)

		require.NoError(t, err)
		assert.Equal(t, "# Answer\n\nHello\n", md)
	})

	t.Run("renders title only for empty documents", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.Preview(htmltomarkdown.NewConverter(), &tracestrip.Document{Title: "Empty"})

		require.NoError(t, err)
		assert.Equal(t, "# Empty\n", md)
	})

	t.Run("returns converter errors", func(t *testing.T) {
		t.Parallel()

		conv := &mock.Converter{
			ConvertFn: func(string) (string, error) { return "", errors.New("boom") },
		}

		_, err := htmltomarkdown.Preview(conv, &tracestrip.Document{Title: "x", Content: "<p>x</p>"})
		require.Error(t, err)
	})
}
