// Package schema holds the data structures carried through the RAG
// pipelines.
package schema

// Page is the unit of text produced by a document loader. Pages are ordered
// and 1-indexed; formats without native pagination yield exactly one page.
type Page struct {
	Number int
	Text   string
}

// Chunk is one bounded slice of document text stored as a single retrievable
// unit in the vector store. StartOffset is the chunk's starting character
// offset in the buffer built by concatenating the source's page texts.
type Chunk struct {
	ID          string
	Content     string
	Source      string // originating file name or URL
	Page        int    // page the chunk starts on
	StartOffset int
	Embedding   []float32
}

// ScoredChunk is a chunk returned from a vector search together with its
// similarity score.
type ScoredChunk struct {
	Chunk
	Score float32
}

// SearchMode selects the ranking strategy for a vector search.
type SearchMode string

const (
	// SearchModeSimilarity ranks purely by similarity to the query.
	SearchModeSimilarity SearchMode = "similarity"
	// SearchModeMMR applies maximal-marginal-relevance re-ranking for
	// result diversity.
	SearchModeMMR SearchMode = "mmr"
)

// WebResult is one ranked result from the web search provider.
type WebResult struct {
	Title   string
	URL     string
	Content string
	Score   float32
}
