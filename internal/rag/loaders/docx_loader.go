package loaders

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"ragbot/internal/rag/interfaces"
	"ragbot/internal/rag/schema"
)

// DocxLoader reads Word (.docx) files. DOCX has no fixed pagination, so the
// whole document is returned as a single page 1.
type DocxLoader struct{}

// NewDocxLoader creates a new DocxLoader.
func NewDocxLoader() *DocxLoader {
	return &DocxLoader{}
}

// Load extracts the document's visible text as one page.
func (l *DocxLoader) Load(ctx context.Context, path string) ([]schema.Page, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open docx %s: %w", path, err)
	}
	defer r.Close()

	text := docxPlainText(r.Editable().GetContent())

	return []schema.Page{{Number: 1, Text: text}}, nil
}

// docxPlainText strips WordprocessingML markup from a document body,
// keeping the contents of <w:t> text runs and inserting line breaks at
// paragraph boundaries and explicit breaks.
func docxPlainText(content string) string {
	dec := xml.NewDecoder(strings.NewReader(content))
	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimSpace(b.String())
}

var _ interfaces.Loader = (*DocxLoader)(nil)
