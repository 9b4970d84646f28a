// Package api exposes the HTTP surface: routing, request binding, and the
// mapping from application errors to status codes and response envelopes.
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ragbot/internal/apperr"
	"ragbot/internal/models"
	"ragbot/internal/service"
	"ragbot/pkg/logger"
)

// Handler carries the services behind the HTTP endpoints.
type Handler struct {
	log         *logger.Logger
	collections *service.CollectionService
	ingestion   *service.IngestionService
	query       *service.QueryService
	healthCheck func(c *gin.Context) error
}

// NewHandler creates the HTTP handler set. healthCheck probes backing
// services; a nil check reports healthy unconditionally.
func NewHandler(collections *service.CollectionService, ingestion *service.IngestionService, query *service.QueryService, healthCheck func(c *gin.Context) error, log *logger.Logger) *Handler {
	return &Handler{
		log:         log,
		collections: collections,
		ingestion:   ingestion,
		query:       query,
		healthCheck: healthCheck,
	}
}

// respondError maps an error to the envelope and status code. Server-side
// failures are logged as errors with the cause chain, client-side ones as
// warnings.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	if appErr, ok := apperr.As(err); ok {
		status = appErr.HTTPStatus()
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		h.log.Error(fmt.Sprintf("%s %s failed: %v", c.Request.Method, c.FullPath(), err))
	} else {
		h.log.Warn(fmt.Sprintf("%s %s rejected: %v", c.Request.Method, c.FullPath(), err))
	}

	c.JSON(status, models.Fail(message, err.Error()))
}

// CreateCollection handles POST /collection/:collection_name.
func (h *Handler) CreateCollection(c *gin.Context) {
	name := c.Param("collection_name")
	if err := h.collections.Create(c.Request.Context(), name); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.Ack(fmt.Sprintf("Collection %q created successfully", name)))
}

// ListCollections handles GET /collection.
func (h *Handler) ListCollections(c *gin.Context) {
	names, err := h.collections.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, models.OK("Collections retrieved successfully", models.CollectionsData{Collections: names}))
}

// DeleteCollection handles DELETE /collection/:collection_name.
func (h *Handler) DeleteCollection(c *gin.Context) {
	name := c.Param("collection_name")
	if err := h.collections.Delete(c.Request.Context(), name); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Ack(fmt.Sprintf("Collection %q deleted successfully", name)))
}

// IngestDocuments handles POST /collection/:collection_name/ingest-documents.
func (h *Handler) IngestDocuments(c *gin.Context) {
	name := c.Param("collection_name")

	form, err := c.MultipartForm()
	if err != nil {
		h.respondError(c, apperr.Ingestion("Invalid multipart form", err))
		return
	}
	files := form.File["files"]

	count, err := h.ingestion.IngestDocuments(c.Request.Context(), name, files)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Ack(fmt.Sprintf("Ingested %d files (%d chunks) into collection %q", len(files), count, name)))
}

// IngestURLs handles POST /collection/:collection_name/ingest-urls.
func (h *Handler) IngestURLs(c *gin.Context) {
	name := c.Param("collection_name")

	var req models.IngestURLsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.Ingestion("Invalid request payload", err))
		return
	}

	count, err := h.ingestion.IngestURLs(c.Request.Context(), name, req.URLs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Ack(fmt.Sprintf("Ingested %d URLs (%d chunks) into collection %q", len(req.URLs), count, name)))
}

// Chat handles POST /:collection_name/chat.
func (h *Handler) Chat(c *gin.Context) {
	name := c.Param("collection_name")

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.Query("Invalid request payload: session_id and query are required", err))
		return
	}

	data, err := h.query.Chat(c.Request.Context(), name, req.SessionID, req.Query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OK("Query answered successfully", *data))
}

// NewSession handles GET /session.
func (h *Handler) NewSession(c *gin.Context) {
	c.JSON(http.StatusOK, models.OK("Session created successfully", models.SessionData{SessionID: service.NewSessionID()}))
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	if h.healthCheck != nil {
		if err := h.healthCheck(c); err != nil {
			h.log.Error(fmt.Sprintf("Health check failed: %v", err))
			c.JSON(http.StatusServiceUnavailable, models.Fail("Service is unhealthy", err.Error()))
			return
		}
	}
	c.JSON(http.StatusOK, models.Ack("Service is healthy"))
}
