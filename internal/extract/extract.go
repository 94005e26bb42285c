// Package extract recovers plain text from uploaded PDF bytes.
//
// Extraction is a two-step chain: a whole-document read first, then a
// page-by-page walk that concatenates each page's text fragments. If both
// steps yield nothing the document is unprocessable (scanned or image-based)
// and ErrNoText is returned so callers can distinguish it from a server
// fault.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoText means the PDF was well-formed but no text could be recovered.
var ErrNoText = errors.New("no text found in PDF")

// Extractor extracts plain text from a document's raw bytes.
type Extractor interface {
	Extract(content []byte) (string, error)
}

var _ Extractor = (*PDFExtractor)(nil)

// PDFExtractor implements Extractor for PDF documents.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF extractor.
func NewPDFExtractor() *PDFExtractor { return &PDFExtractor{} }

// Extract runs the primary whole-document extraction, then the per-page
// fallback. All-or-nothing per document: no retries, no partial results.
func (e *PDFExtractor) Extract(content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("empty PDF content")
	}

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	text := primaryText(r)
	if text == "" {
		text = fallbackText(r)
	}
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// primaryText reads the whole document in one pass. The parser panics on
// some malformed font tables; a panic here just hands off to the fallback.
func primaryText(r *pdf.Reader) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	rd, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(rd)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// fallbackText walks every page in document order, concatenating each page's
// recovered text fragments and trimming trailing whitespace per page.
func fallbackText(r *pdf.Reader) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		line := pageText(page)
		if line == "" {
			continue
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

func pageText(page pdf.Page) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	var sb strings.Builder
	for _, frag := range page.Content().Text {
		sb.WriteString(frag.S)
	}
	return strings.TrimRight(sb.String(), " \t\r\n")
}
