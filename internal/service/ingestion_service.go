package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"ragbot/internal/apperr"
	"ragbot/internal/rag/pipeline"
	"ragbot/pkg/logger"
)

// IngestionService accepts uploads and URL lists and feeds them through
// the ingestion pipeline.
type IngestionService struct {
	log      *logger.Logger
	pipeline *pipeline.IngestionPipeline
}

// NewIngestionService wires an ingestion service.
func NewIngestionService(p *pipeline.IngestionPipeline, log *logger.Logger) *IngestionService {
	return &IngestionService{log: log, pipeline: p}
}

// IngestDocuments saves each upload to a temp directory and ingests it.
// The first failing file aborts the batch; chunks from earlier files stay
// in the store.
func (s *IngestionService) IngestDocuments(ctx context.Context, collection string, files []*multipart.FileHeader) (int, error) {
	if len(files) == 0 {
		return 0, apperr.Ingestion("No files provided", nil)
	}

	tmpDir, err := os.MkdirTemp("", "ragbot-ingest-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	total := 0
	for _, header := range files {
		path, err := s.saveUpload(header, tmpDir)
		if err != nil {
			return total, err
		}
		s.sniffContentType(path)

		n, err := s.pipeline.IngestFile(ctx, collection, path)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// IngestURLs ingests each URL in order. The first failing URL aborts the
// batch.
func (s *IngestionService) IngestURLs(ctx context.Context, collection string, urls []string) (int, error) {
	if len(urls) == 0 {
		return 0, apperr.Ingestion("No URLs provided", nil)
	}

	total := 0
	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url == "" {
			return total, apperr.Ingestion("URL must not be empty", nil)
		}
		n, err := s.pipeline.IngestURL(ctx, collection, url)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (s *IngestionService) saveUpload(header *multipart.FileHeader, dir string) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", apperr.Ingestion(fmt.Sprintf("Failed to open upload %s", header.Filename), err)
	}
	defer src.Close()

	// Strip any client-supplied directory components.
	path := filepath.Join(dir, filepath.Base(header.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", header.Filename, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save upload %s: %w", header.Filename, err)
	}
	return path, nil
}

// sniffContentType logs when the file's detected type disagrees with its
// extension. The extension still decides the loader.
func (s *IngestionService) sniffContentType(path string) {
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !strings.EqualFold(detected.Extension(), ext) {
		s.log.Warn(fmt.Sprintf("File %s has extension %s but detected type %s", filepath.Base(path), ext, detected.String()))
	}
}
