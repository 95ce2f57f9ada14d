package handlers

import (
	"context"
	"net/http"

	"docsection/internal/contextutil"
	"docsection/internal/indexer"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_indexer.go -package=mocks docsection/internal/handlers Indexer

// Indexer runs a full indexing pass over the upload directory.
type Indexer interface {
	IndexAll(ctx context.Context) (*indexer.Summary, error)
}

// IndexHandler handles HTTP requests to reindex the upload directory.
type IndexHandler struct {
	pipeline Indexer
}

// NewIndexHandler creates a new IndexHandler.
func NewIndexHandler(pipeline Indexer) *IndexHandler {
	return &IndexHandler{pipeline: pipeline}
}

// ServeHTTP handles HTTP requests to reindex the upload directory.
// The collection is replaced wholesale; the response summarizes how many
// chunks were inserted and how many documents succeeded or failed.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	summary, err := h.pipeline.IndexAll(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "indexing run failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to index documents")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
