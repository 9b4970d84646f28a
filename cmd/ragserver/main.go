package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"ragbot/internal/api"
	"ragbot/internal/config"
	"ragbot/internal/database/milvus"
	"ragbot/internal/database/redis"
	"ragbot/internal/embedding"
	"ragbot/internal/llm"
	"ragbot/internal/prompt"
	"ragbot/internal/rag/interfaces"
	"ragbot/internal/rag/loaders"
	"ragbot/internal/rag/pipeline"
	"ragbot/internal/rag/rerankers"
	"ragbot/internal/rag/schema"
	"ragbot/internal/rag/splitters"
	"ragbot/internal/rag/tools"
	"ragbot/internal/service"
	"ragbot/internal/session"
	"ragbot/internal/vectorstore"
	"ragbot/internal/websearch"
	"ragbot/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	configPath := os.Getenv("RAGBOT_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger.Init(logger.ParseLevel(cfg.Log.Level))
	appLogger := logger.New("ragserver")
	appLogger.Info("Configuration loaded")

	ctx := context.Background()

	// Backing stores.
	milvusClient, err := milvus.Connect(ctx, &cfg.Milvus)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	defer milvusClient.Close()
	appLogger.Info("Connected to Milvus")

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis")

	// Providers, selected once at configuration time.
	embedder, err := embedding.NewModel(ctx, embedding.ProviderGoogle, cfg.Google.APIKey, cfg.Google.EmbeddingModel)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	gemini, err := llm.NewClient(ctx, llm.ProviderGoogle, cfg.Google.APIKey, cfg.Google.LLMModel)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	prompts := prompt.NewManager()
	if agentSystem, err := prompts.Get(prompt.AgentSystemPrompt); err == nil {
		gemini.SetAgentSystemPrompt(agentSystem)
	}

	store, err := vectorstore.NewMilvusStore(milvusClient, cfg.Retrieval.MMRLambda, logger.New("vectorstore"))
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	tavily := websearch.NewTavilyClient(cfg.Tavily.APIKey)

	var urlLoader interfaces.Loader = loaders.NewWebLoader()
	if tavily.Configured() {
		urlLoader = loaders.NewExtractLoader(tavily)
	}

	var reranker interfaces.Reranker
	if cfg.Cohere.APIKey != "" {
		reranker = rerankers.NewCohereReranker(cfg.Cohere.APIKey, cfg.Cohere.Model, cfg.Retrieval.TopK)
		appLogger.Info("Cohere reranking enabled")
	}

	// Pipelines.
	splitter := splitters.NewPageSplitter(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap)
	toolbox := tools.NewToolbox(embedder, store, tavily, tools.Options{
		TopK:       cfg.Retrieval.TopK,
		Threshold:  cfg.Retrieval.SimilarityThreshold,
		SearchMode: schema.SearchMode(cfg.Retrieval.SearchMode),
		WebTopK:    cfg.Retrieval.WebTopK,
		Reranker:   reranker,
	}, logger.New("tools"))

	historyStore := session.NewStore(redisClient.Client, 0)
	ingestPipeline := pipeline.NewIngestionPipeline(splitter, embedder, store, urlLoader, logger.New("ingestion"))

	var answerer service.Answerer
	switch cfg.Query.Mode {
	case "agentic":
		answerer = pipeline.NewAgentPipeline(gemini, toolbox, historyStore, cfg.Query.MaxAgentSteps, logger.New("agent"))
		appLogger.Info("Query mode: agentic")
	default:
		answerer = pipeline.NewQueryPipeline(gemini, toolbox, prompts, historyStore, logger.New("query"))
		appLogger.Info("Query mode: pipeline")
	}

	// Services and HTTP surface.
	collectionService := service.NewCollectionService(store, embedder, logger.New("collections"))
	if name, err := collectionService.EnsureDefault(ctx, "google", cfg.Google.EmbeddingModel); err != nil {
		appLogger.Warn("Could not ensure default collection: " + err.Error())
	} else {
		appLogger.Info("Default collection ready: " + name)
	}
	ingestionService := service.NewIngestionService(ingestPipeline, logger.New("ingestion"))
	queryService := service.NewQueryService(store, answerer, logger.New("query"))

	healthCheck := func(c *gin.Context) error {
		if err := milvusClient.HealthCheck(c.Request.Context()); err != nil {
			return err
		}
		return redisClient.HealthCheck(c.Request.Context())
	}

	handler := api.NewHandler(collectionService, ingestionService, queryService, healthCheck, logger.New("api"))
	router := api.SetupRouter(handler)

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		appLogger.Info("Starting server on " + cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Forced shutdown: " + err.Error())
	}
	appLogger.Info("Server stopped")
}
