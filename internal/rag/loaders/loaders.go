// Package loaders extracts per-page text from supported document formats.
package loaders

import (
	"path/filepath"
	"strings"

	"ragbot/internal/apperr"
	"ragbot/internal/rag/interfaces"
)

// ForFile selects the loader for a file path by extension. Unsupported
// extensions fail before any provider or store is contacted.
func ForFile(path string) (interfaces.Loader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return NewPdfLoader(), nil
	case ".docx":
		return NewDocxLoader(), nil
	default:
		return nil, apperr.Ingestion("Unsupported file type: "+ext, nil)
	}
}
