package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
)

const monospaceFont = "Courier New"

// DocxSink writes sink calls into a DOCX document.
type DocxSink struct {
	doc *docx.Docx
}

func NewDocxSink() *DocxSink {
	return &DocxSink{doc: docx.New().WithDefaultTheme()}
}

// Heading text sizes in half-points, by level. The default theme carries no
// heading styles, so headings are sized bold runs.
var headingSizes = []string{"36", "32", "28", "26", "24"}

func headingSize(level int) string {
	if level < 1 {
		level = 1
	}
	if level > len(headingSizes) {
		level = len(headingSizes)
	}
	return headingSizes[level-1]
}

func (s *DocxSink) AddHeading(text string, level int) {
	p := s.doc.AddParagraph()
	p.AddText(text).Size(headingSize(level)).Bold()
}

func (s *DocxSink) AddParagraph(spans []Span, style Style) {
	p := s.doc.AddParagraph()
	for _, sp := range spans {
		r := p.AddText(sp.Text)
		if sp.Bold {
			r.Bold()
		}
		if sp.Italic {
			r.Italic()
		}
		if sp.Code || style == StyleCode {
			r.Font(monospaceFont, "", monospaceFont, "")
		}
		if style == StyleQuote {
			r.Italic().Color("595959")
		}
	}
}

func (s *DocxSink) AddListItem(spans []Span, indent int) {
	if indent < 0 {
		indent = 0
	}
	p := s.doc.AddParagraph()
	p.AddText(strings.Repeat("    ", indent) + "• ")
	for _, sp := range spans {
		r := p.AddText(sp.Text)
		if sp.Bold {
			r.Bold()
		}
		if sp.Italic {
			r.Italic()
		}
		if sp.Code {
			r.Font(monospaceFont, "", monospaceFont, "")
		}
	}
}

// Save writes the assembled document. A write failure is surfaced to the
// caller; the in-memory document stays usable.
func (s *DocxSink) Save(w io.Writer) error {
	if _, err := s.doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}
