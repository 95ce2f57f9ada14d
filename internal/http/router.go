package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docsection/internal/embedder"
	"docsection/internal/handlers"
	"docsection/internal/section"
	"docsection/internal/storage"
	"docsection/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Pipeline   handlers.Indexer
	Embedder   embedder.Embedder
	Store      vectorstore.VectorStore
	Grouper    *section.Grouper
	Registry   storage.DocumentStore
	Collection string
	TopKLimit  int
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	healthHandler := handlers.NewHealthHandler(deps.Store, deps.Collection)
	indexHandler := handlers.NewIndexHandler(deps.Pipeline)
	similarHandler := handlers.NewSimilarHandler(deps.Embedder, deps.Store, deps.Collection, deps.TopKLimit)
	sectionsHandler := handlers.NewSectionsHandler(deps.Grouper)
	statusHandler := handlers.NewStatusHandler(deps.Registry)

	r.Method(http.MethodGet, "/health", healthHandler)

	r.Route("/api/v1/doc", func(r chi.Router) {
		r.Method(http.MethodPost, "/index", indexHandler)
		r.Method(http.MethodPost, "/similar", similarHandler)
		r.Method(http.MethodPost, "/sections", sectionsHandler)
		r.Method(http.MethodGet, "/status", statusHandler)
	})

	return r
}
