package section

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"docsection/internal/heading"
	"docsection/internal/vectorstore"
)

var (
	// ErrDocumentNotFound is returned when no chunks exist for the document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrChunkNotFound is returned when the document has no chunk at the
	// requested index.
	ErrChunkNotFound = errors.New("chunk not found")
)

// ChunkHit is one chunk belonging to the resolved section.
type ChunkHit struct {
	ChunkIndex   int            `json:"chunk_index"`
	DocumentName string         `json:"document_name"`
	Text         string         `json:"text"`
	Headings     []string       `json:"headings"`
	Meta         map[string]any `json:"metadata"`
}

// Result is the outcome of a section lookup. When the target chunk carries
// no heading path, Matches is empty and Message explains why.
type Result struct {
	DepthUsed     int
	TargetHeading string
	Matches       []ChunkHit
	Message       string
}

// Grouper answers structural queries: given one chunk of a document, find
// every chunk that lives under the same heading at a chosen depth.
type Grouper struct {
	store      vectorstore.VectorStore
	collection string
}

// NewGrouper creates a grouper reading from the given collection.
func NewGrouper(store vectorstore.VectorStore, collection string) *Grouper {
	return &Grouper{store: store, collection: collection}
}

// Resolve fetches the document's chunks, locates the target chunk, resolves
// its heading at the requested depth and returns every sibling chunk whose
// heading path contains that heading. Depth counts from the most specific
// heading: depth 1 is the chunk's innermost heading, larger depths walk
// toward the document root. Depths below 1 are treated as 1 and depths past
// the root are clamped to the root.
func (g *Grouper) Resolve(ctx context.Context, documentName string, chunkIndex, depth int) (*Result, error) {
	if depth < 1 {
		depth = 1
	}

	records, err := g.store.FetchByDocument(ctx, g.collection, documentName)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document chunks: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, documentName)
	}

	target, found := findChunk(records, chunkIndex)
	if !found {
		return nil, fmt.Errorf("%w: document %s has no chunk %d", ErrChunkNotFound, documentName, chunkIndex)
	}

	path := heading.FromAttributes(target.Meta)
	targetHeading, depthUsed, ok := heading.Resolve(path, depth)
	if !ok {
		// Effective depth 0 signals that no heading was resolved at all.
		return &Result{
			Message: fmt.Sprintf("no section detected for chunk %d of %s", chunkIndex, documentName),
		}, nil
	}

	var matches []ChunkHit
	for _, rec := range records {
		recPath := heading.FromAttributes(rec.Meta)
		if !heading.Contains(recPath, targetHeading) {
			continue
		}
		idx, _ := chunkIndexOf(rec.Meta)
		matches = append(matches, ChunkHit{
			ChunkIndex:   idx,
			DocumentName: documentName,
			Text:         rec.Text,
			Headings:     recPath,
			Meta:         rec.Meta,
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ChunkIndex < matches[j].ChunkIndex
	})

	return &Result{
		DepthUsed:     depthUsed,
		TargetHeading: targetHeading,
		Matches:       matches,
	}, nil
}

// findChunk locates the record whose chunk_index attribute equals index.
func findChunk(records []vectorstore.Record, index int) (vectorstore.Record, bool) {
	for _, rec := range records {
		if idx, ok := chunkIndexOf(rec.Meta); ok && idx == index {
			return rec, true
		}
	}
	return vectorstore.Record{}, false
}

// chunkIndexOf reads the chunk_index attribute, tolerating the numeric
// types different payload decodings produce.
func chunkIndexOf(meta map[string]any) (int, bool) {
	switch v := meta["chunk_index"].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
