package splitters

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"ragbot/internal/rag/interfaces"
	"ragbot/internal/rag/schema"
)

// PageSplitter joins a document's pages into one buffer, splits it with a
// RecursiveCharacterSplitter and attributes every resulting chunk back to
// the page it starts on.
type PageSplitter struct {
	splitter *RecursiveCharacterSplitter
}

// NewPageSplitter creates a PageSplitter with the given chunk geometry.
func NewPageSplitter(chunkSize, chunkOverlap int) *PageSplitter {
	return &PageSplitter{
		splitter: NewRecursiveCharacterSplitter(chunkSize, chunkOverlap),
	}
}

// Split concatenates the page texts in order, recording the cumulative
// offset at which each page begins, splits the buffer and resolves each
// chunk's owning page with an upper-bound search on the boundary table: the
// page with the greatest boundary not exceeding the chunk's start offset.
// A chunk starting exactly on a page boundary belongs to the page that
// starts there; a chunk whose overlap tail crosses into the next page is
// still attributed to its start page only.
func (s *PageSplitter) Split(pages []schema.Page, source string) []schema.Chunk {
	if len(pages) == 0 {
		return nil
	}

	var sb strings.Builder
	boundaries := make([]int, 0, len(pages))
	for _, page := range pages {
		boundaries = append(boundaries, sb.Len())
		sb.WriteString(page.Text)
	}
	buf := sb.String()

	spans := s.splitter.SplitText(buf)

	chunks := make([]schema.Chunk, 0, len(spans))
	for _, span := range spans {
		// Empty pages contribute duplicate boundary offsets; the
		// upper-bound search lands on the last page starting at the
		// offset, i.e. the one that actually owns the text.
		idx := sort.Search(len(boundaries), func(i int) bool {
			return boundaries[i] > span.Start
		}) - 1

		chunks = append(chunks, schema.Chunk{
			ID:          uuid.New().String(),
			Content:     span.Text,
			Source:      source,
			Page:        pages[idx].Number,
			StartOffset: span.Start,
		})
	}
	return chunks
}

var _ interfaces.Splitter = (*PageSplitter)(nil)
