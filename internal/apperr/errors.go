// Package apperr defines the domain error taxonomy and how each error class
// maps onto an HTTP status code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain error for HTTP mapping and logging.
type Kind int

const (
	// KindIngestion covers bad file types and embedding/upsert failures
	// during ingestion. Treated as client-correctable.
	KindIngestion Kind = iota
	// KindQuery covers bad query input and retrieval/LLM failures while
	// answering.
	KindQuery
	// KindVectorDB covers vector store misconfiguration or init failures.
	KindVectorDB
	// KindLLMProvider covers LLM provider misconfiguration or init failures.
	KindLLMProvider
	// KindCollectionExists is raised when creating a collection whose name
	// is already taken, before any store mutation happens.
	KindCollectionExists
	// KindCollectionNotFound is raised when an operation targets a
	// collection that does not exist.
	KindCollectionNotFound
)

// Error is the common shape of all domain errors. The wrapped cause, when
// present, is reachable through errors.Unwrap.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// HTTPStatus returns the status code this error class maps to.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindIngestion, KindQuery:
		return http.StatusBadRequest
	case KindCollectionExists:
		return http.StatusConflict
	case KindCollectionNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// IsServerSide reports whether the error maps to a 5xx status. Server-side
// errors are logged at error level, client-side ones as warnings.
func (e *Error) IsServerSide() bool { return e.HTTPStatus() >= 500 }

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Ingestion builds an ingestion error.
func Ingestion(message string, cause error) *Error {
	return newError(KindIngestion, message, cause)
}

// Query builds a query error.
func Query(message string, cause error) *Error {
	return newError(KindQuery, message, cause)
}

// VectorDB builds a vector store error.
func VectorDB(message string, cause error) *Error {
	return newError(KindVectorDB, message, cause)
}

// LLMProvider builds an LLM provider error.
func LLMProvider(message string, cause error) *Error {
	return newError(KindLLMProvider, message, cause)
}

// CollectionExists builds a collection name conflict error.
func CollectionExists(name string) *Error {
	return newError(KindCollectionExists, fmt.Sprintf("collection %q already exists", name), nil)
}

// CollectionNotFound builds a missing collection error.
func CollectionNotFound(name string) *Error {
	return newError(KindCollectionNotFound, fmt.Sprintf("collection %q does not exist", name), nil)
}

// As extracts a domain *Error from an error chain.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
