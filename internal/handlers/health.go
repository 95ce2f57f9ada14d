package handlers

import (
	"context"
	"net/http"
	"time"

	"docsection/internal/contextutil"
	"docsection/internal/vectorstore"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	store              vectorstore.VectorStore
	collection         string
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store vectorstore.VectorStore, collection string) *HealthHandler {
	return &HealthHandler{
		store:              store,
		collection:         collection,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "ok" or "degraded"
	Status string `json:"status"`

	// Whether the vector store answered the probe
	StoreOK bool `json:"store_ok"`

	// Whether the collection exists and holds at least one chunk
	DocLoaded bool `json:"doc_loaded"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`
}

// ServeHTTP handles HTTP requests for health checks.
// Returns 200 OK when the vector store responds, 503 Service Unavailable
// otherwise. An empty or missing collection is reported but not an error.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	storeOK := true
	docLoaded := false

	exists, err := h.store.CollectionExists(checkCtx, h.collection)
	if err != nil {
		logger.WarnContext(ctx, "vector store health check failed", "error", err)
		storeOK = false
	} else if exists {
		count, err := h.store.Count(checkCtx, h.collection)
		if err != nil {
			logger.WarnContext(ctx, "vector store count failed", "error", err)
			storeOK = false
		} else {
			docLoaded = count > 0
		}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !storeOK {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:    status,
		StoreOK:   storeOK,
		DocLoaded: docLoaded,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
