package models

// ApiResponse is the generic envelope returned by every endpoint.
type ApiResponse[T any] struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Data    *T      `json:"data"`
	Error   *string `json:"error"`
}

// OK builds a success envelope carrying data.
func OK[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{Success: true, Message: message, Data: &data}
}

// Ack builds a success envelope with no data payload.
func Ack(message string) ApiResponse[struct{}] {
	return ApiResponse[struct{}]{Success: true, Message: message}
}

// Fail builds a failure envelope.
func Fail(message, errMsg string) ApiResponse[struct{}] {
	return ApiResponse[struct{}]{Success: false, Message: message, Error: &errMsg}
}

// ChatRequest is the body of POST /{collection}/chat.
type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Query     string `json:"query" binding:"required"`
}

// ChatData is the data payload of a chat response.
type ChatData struct {
	Answer  string            `json:"answer"`
	Sources []RetrievedSource `json:"sources"`
}

// IngestURLsRequest is the body of POST /collection/{name}/ingest-urls.
type IngestURLsRequest struct {
	URLs []string `json:"urls" binding:"required"`
}

// CollectionsData is the data payload of GET /collection.
type CollectionsData struct {
	Collections []string `json:"collections"`
}

// SessionData is the data payload of GET /session.
type SessionData struct {
	SessionID string `json:"session_id"`
}

// RetrievedSource is one numbered citation returned alongside an answer.
// SourceID matches the [n] markers embedded in the answer text.
type RetrievedSource struct {
	SourceID int            `json:"source_id"`
	Content  string         `json:"content,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Origin   string         `json:"origin"`
}

// Origins for RetrievedSource.
const (
	OriginVectorStore = "vectorstore"
	OriginWebSearch   = "websearch"
)
