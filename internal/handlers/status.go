package handlers

import (
	"net/http"

	"docsection/internal/contextutil"
	"docsection/internal/storage"
)

// StatusHandler handles HTTP requests for document registry listing.
type StatusHandler struct {
	registry storage.DocumentStore
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(registry storage.DocumentStore) *StatusHandler {
	return &StatusHandler{registry: registry}
}

// StatusResponse represents the document registry listing.
type StatusResponse struct {
	Documents []storage.DocumentRecord `json:"documents"`
}

// ServeHTTP handles HTTP requests for document registry listing.
// Returns the recorded outcome of the latest indexing run per document.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	docs, err := h.registry.ListAll(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}
	if docs == nil {
		docs = []storage.DocumentRecord{}
	}

	writeJSON(w, http.StatusOK, StatusResponse{Documents: docs})
}
