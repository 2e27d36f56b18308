// Package render converts annotated topic trees and their markdown-subset
// content into calls against a rich-text document sink.
package render

// Style selects paragraph treatment in the sink.
type Style int

const (
	StyleNormal Style = iota
	StyleQuote
	StyleCode
)

// Span is one inline run of text with its emphasis flags. Unrecognized
// markup ends up as a plain span with the literal text.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
	Code   bool
}

// DocumentSink is the rich-text output boundary. Level and indent are
// clamped by implementations, never rejected.
type DocumentSink interface {
	AddHeading(text string, level int)
	AddParagraph(spans []Span, style Style)
	AddListItem(spans []Span, indent int)
}

// PlainText flattens spans for sinks that cannot express emphasis.
func PlainText(spans []Span) string {
	var out string
	for _, s := range spans {
		out += s.Text
	}
	return out
}
