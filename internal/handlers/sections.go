package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"docsection/internal/contextutil"
	"docsection/internal/section"
)

// SectionsHandler handles HTTP requests for same-section chunk lookup.
type SectionsHandler struct {
	grouper *section.Grouper
}

// NewSectionsHandler creates a new SectionsHandler.
func NewSectionsHandler(grouper *section.Grouper) *SectionsHandler {
	return &SectionsHandler{grouper: grouper}
}

// SectionsRequest represents the HTTP request payload for section lookup.
type SectionsRequest struct {
	DocumentName string `json:"document_name"`
	ChunkIndex   int    `json:"chunk_index"`
	Depth        int    `json:"depth,omitempty"`
}

// SectionsResponse represents the HTTP response payload for section lookup.
type SectionsResponse struct {
	DepthUsed     int                `json:"depth_used"`
	TargetHeading string             `json:"target_heading,omitempty"`
	Results       []section.ChunkHit `json:"results"`
	Message       string             `json:"message,omitempty"`
}

// ServeHTTP handles HTTP requests for same-section chunk lookup.
// Given one chunk of a document, returns every chunk under the same heading
// at the requested depth, ordered by chunk index.
func (h *SectionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SectionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.DocumentName == "" {
		logger.WarnContext(ctx, "empty document_name in request")
		writeError(w, http.StatusBadRequest, "document_name is required")
		return
	}
	if req.ChunkIndex < 0 {
		logger.WarnContext(ctx, "negative chunk_index in request", "chunk_index", req.ChunkIndex)
		writeError(w, http.StatusBadRequest, "chunk_index must not be negative")
		return
	}

	result, err := h.grouper.Resolve(ctx, req.DocumentName, req.ChunkIndex, req.Depth)
	if err != nil {
		switch {
		case errors.Is(err, section.ErrDocumentNotFound):
			logger.WarnContext(ctx, "document not found", "document", req.DocumentName)
			writeError(w, http.StatusNotFound, "Document not found")
		case errors.Is(err, section.ErrChunkNotFound):
			logger.WarnContext(ctx, "chunk not found", "document", req.DocumentName, "chunk_index", req.ChunkIndex)
			writeError(w, http.StatusNotFound, "Chunk not found")
		default:
			logger.ErrorContext(ctx, "failed to resolve section", "error", err)
			writeError(w, http.StatusServiceUnavailable, "Vector store unavailable")
		}
		return
	}

	results := result.Matches
	if results == nil {
		results = []section.ChunkHit{}
	}

	writeJSON(w, http.StatusOK, SectionsResponse{
		DepthUsed:     result.DepthUsed,
		TargetHeading: result.TargetHeading,
		Results:       results,
		Message:       result.Message,
	})
}
