package docs

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultMaxExtractChars caps the text returned from document extraction.
const DefaultMaxExtractChars = 500

// PDFExtractor pulls plain text out of a PDF file, truncated to MaxChars.
type PDFExtractor struct {
	MaxChars int
}

func (e PDFExtractor) ExtractText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", path, err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	max := e.MaxChars
	if max <= 0 {
		max = DefaultMaxExtractChars
	}
	return Truncate(strings.TrimSpace(buf.String()), max), nil
}

// Truncate shortens s to at most n characters, marking the cut with an
// ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
