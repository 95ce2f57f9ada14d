package handlers

import (
	"encoding/json"
	"net/http"

	"docsection/internal/contextutil"
	"docsection/internal/embedder"
	"docsection/internal/heading"
	"docsection/internal/vectorstore"
)

const defaultTopK = 5

// SimilarHandler handles HTTP requests for similarity search.
type SimilarHandler struct {
	embedder   embedder.Embedder
	store      vectorstore.VectorStore
	collection string
	topKLimit  int
}

// NewSimilarHandler creates a new SimilarHandler.
func NewSimilarHandler(emb embedder.Embedder, store vectorstore.VectorStore, collection string, topKLimit int) *SimilarHandler {
	return &SimilarHandler{
		embedder:   emb,
		store:      store,
		collection: collection,
		topKLimit:  topKLimit,
	}
}

// SimilarRequest represents the HTTP request payload for similarity search.
type SimilarRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// SimilarHit represents one ranked search result.
type SimilarHit struct {
	Score    float32        `json:"score"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

// SimilarResponse represents the HTTP response payload for similarity search.
type SimilarResponse struct {
	Results []SimilarHit `json:"results"`
}

// ServeHTTP handles HTTP requests for similarity search.
// Embeds the query and returns the top_k nearest chunks with their text and
// public attributes.
func (h *SimilarHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SimilarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Query == "" {
		logger.WarnContext(ctx, "empty query in request")
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	// Enforce bounds for user-provided top_k. Zero means "default".
	if req.TopK <= 0 {
		req.TopK = defaultTopK
	}
	if h.topKLimit > 0 && req.TopK > h.topKLimit {
		req.TopK = h.topKLimit
	}

	queryVec, err := h.embedder.Embed(ctx, req.Query)
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed query", "error", err)
		writeError(w, http.StatusBadGateway, "Embedding service unavailable")
		return
	}

	hits, err := h.store.Search(ctx, h.collection, queryVec, req.TopK)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search chunks", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Vector store unavailable")
		return
	}

	results := make([]SimilarHit, len(hits))
	for i, hit := range hits {
		results[i] = SimilarHit{
			Score:    hit.Score,
			Text:     hit.Text,
			Metadata: publicMeta(hit.Meta),
		}
	}

	writeJSON(w, http.StatusOK, SimilarResponse{Results: results})
}

// publicMeta projects a stored attribute set down to the fields clients
// consume, with the heading path decoded from either of its encodings.
func publicMeta(meta map[string]any) map[string]any {
	out := map[string]any{
		"headings": []string(heading.FromAttributes(meta)),
	}
	if name, ok := meta["document_name"]; ok {
		out["document_name"] = name
	}
	if idx, ok := meta["chunk_index"]; ok {
		out["chunk_index"] = idx
	}
	return out
}
