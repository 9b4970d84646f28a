package api

import "github.com/gin-gonic/gin"

// SetupRouter builds the Gin engine with the full route table.
func SetupRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	collection := r.Group("/collection")
	{
		collection.GET("", h.ListCollections)
		collection.POST("/:collection_name", h.CreateCollection)
		collection.DELETE("/:collection_name", h.DeleteCollection)
		collection.POST("/:collection_name/ingest-documents", h.IngestDocuments)
		collection.POST("/:collection_name/ingest-urls", h.IngestURLs)
	}

	r.POST("/:collection_name/chat", h.Chat)
	r.GET("/session", h.NewSession)
	r.GET("/health", h.Health)

	return r
}
