package main

import (
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"time"

	"docsection/internal/config"
	"docsection/internal/embedder"
	"docsection/internal/http"
	"docsection/internal/indexer"
	"docsection/internal/section"
	"docsection/internal/storage"
	"docsection/internal/tokenizer"
	"docsection/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	documentRepo := storage.NewDocumentRepo(db)

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	slog.Info("Qdrant client ready", "url", cfg.QdrantURL, "collection", cfg.QdrantCollection)

	// Embeddings client; the vector size is probed lazily on the first
	// indexing run.
	emb := embedder.NewOpenAI(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModel)

	// Token counter for chunk sizing. With no tokenize URL configured the
	// counter degrades to word counting immediately.
	counter := tokenizer.NewRemote(
		cfg.TokenizeURL,
		cfg.LLMAPIKey,
		cfg.ModelName,
		cfg.MaxTokenInput,
		time.Duration(cfg.TokenizeConnectTimeout)*time.Second,
		time.Duration(cfg.TokenizeReadTimeout)*time.Second,
	)

	segmenter := indexer.NewSegmenter(counter)
	pipeline := indexer.NewPipeline(
		cfg.UploadDir,
		segmenter,
		emb,
		vectorStore,
		documentRepo,
		cfg.QdrantCollection,
	)

	grouper := section.NewGrouper(vectorStore, cfg.QdrantCollection)

	// Create router with dependencies
	deps := &http.Deps{
		Pipeline:   pipeline,
		Embedder:   emb,
		Store:      vectorStore,
		Grouper:    grouper,
		Registry:   documentRepo,
		Collection: cfg.QdrantCollection,
		TopKLimit:  cfg.TopKLimit,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := cfg.Addr()
	slog.Info("Starting API server", "addr", addr, "upload_dir", cfg.UploadDir)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
