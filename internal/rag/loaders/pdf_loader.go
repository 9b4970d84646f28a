package loaders

import (
	"context"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"

	"ragbot/internal/rag/interfaces"
	"ragbot/internal/rag/schema"
)

// PdfLoader reads PDF files and yields one Page per document page.
type PdfLoader struct{}

// NewPdfLoader creates a new PdfLoader.
func NewPdfLoader() *PdfLoader {
	return &PdfLoader{}
}

// Load extracts the plain text of every page, preserving the document's
// 1-indexed page numbering. Pages with no extractable text are kept as
// empty pages so numbering stays aligned with the source.
func (l *PdfLoader) Load(ctx context.Context, path string) ([]schema.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat pdf %s: %w", path, err)
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf %s: %w", path, err)
	}

	numPages := reader.NumPage()
	pages := make([]schema.Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		text := ""
		if !page.V.IsNull() {
			text, err = page.GetPlainText(nil)
			if err != nil {
				return nil, fmt.Errorf("failed to extract text from page %d of %s: %w", i, path, err)
			}
		}
		pages = append(pages, schema.Page{Number: i, Text: text})
	}

	return pages, nil
}

var _ interfaces.Loader = (*PdfLoader)(nil)
