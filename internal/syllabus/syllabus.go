// Package syllabus turns uploaded syllabus or reference files into plain
// text for prompting. Extraction is best-effort: malformed input yields
// partial text rather than a hard failure wherever possible.
package syllabus

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Extractor converts raw file bytes into plain text by extension.
type Extractor struct {
	// PDFFallbackPdftotext enables shelling out to pdftotext when the Go
	// PDF library cannot read a file.
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions Extract can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// IsSupported checks whether a filename's extension is extractable.
func IsSupported(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Extract returns the plain text of the file.
func (e *Extractor) Extract(data []byte, filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return extractPlain(data), nil
	case ".md", ".markdown":
		return extractMarkdown(data)
	case ".html", ".htm":
		return extractHTML(data)
	case ".pdf":
		return e.extractPDF(data)
	case ".docx":
		return extractDOCX(data)
	default:
		return "", fmt.Errorf("unsupported file extension: %s", filepath.Ext(filename))
	}
}

func extractPlain(data []byte) string {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.TrimSpace(text)
}
