package tracestrip

// Converter renders document HTML as Markdown for previews.
type Converter interface {
	Convert(html string) (string, error)
}
