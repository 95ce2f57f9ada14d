package indexer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"docsection/internal/contextutil"
	"docsection/internal/docconv"
	"docsection/internal/embedder"
	"docsection/internal/storage"
	"docsection/internal/vectorstore"
)

// Pipeline runs the batch indexing flow: scan the upload directory, convert
// and segment each document, embed the chunks and insert them into a freshly
// recreated collection.
type Pipeline struct {
	uploadDir  string
	segmenter  *Segmenter
	embedder   embedder.Embedder
	store      vectorstore.VectorStore
	registry   storage.DocumentStore
	collection string
}

// NewPipeline creates an indexing pipeline. registry may be nil to skip
// recording per-document outcomes.
func NewPipeline(uploadDir string, seg *Segmenter, emb embedder.Embedder, store vectorstore.VectorStore, registry storage.DocumentStore, collection string) *Pipeline {
	return &Pipeline{
		uploadDir:  uploadDir,
		segmenter:  seg,
		embedder:   emb,
		store:      store,
		registry:   registry,
		collection: collection,
	}
}

// IndexAll replaces the collection with the current contents of the upload
// directory. One failing document is logged and counted, not fatal; the run
// continues with the rest. An empty upload directory leaves the existing
// collection untouched.
func (p *Pipeline) IndexAll(ctx context.Context) (*Summary, error) {
	logger := contextutil.LoggerFromContext(ctx)

	paths, err := scanUploads(p.uploadDir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		logger.WarnContext(ctx, "no documents to index", "dir", p.uploadDir)
		return &Summary{}, nil
	}

	dim, err := p.embedder.Dimension(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to determine embedding dimension: %w", err)
	}

	if err := p.store.Recreate(ctx, p.collection, dim); err != nil {
		return nil, fmt.Errorf("failed to recreate collection: %w", err)
	}

	summary := &Summary{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := filepath.Base(path)
		inserted, err := p.indexDocument(ctx, path)
		if err != nil {
			logger.ErrorContext(ctx, "failed to index document", "document", name, "error", err)
			summary.DocumentsFailed++
			p.record(ctx, &storage.DocumentRecord{Name: name, Status: storage.StatusFailed})
			continue
		}

		summary.DocumentsIndexed++
		summary.Inserted += inserted
		p.record(ctx, &storage.DocumentRecord{Name: name, ChunkCount: inserted, Status: storage.StatusIndexed})
	}

	logger.InfoContext(ctx, "indexing run finished",
		"inserted", summary.Inserted,
		"documents_indexed", summary.DocumentsIndexed,
		"documents_failed", summary.DocumentsFailed,
	)
	return summary, nil
}

// indexDocument converts, segments, embeds and inserts one file, returning
// the number of chunks stored.
func (p *Pipeline) indexDocument(ctx context.Context, path string) (int, error) {
	doc, err := docconv.Convert(path)
	if err != nil {
		return 0, fmt.Errorf("failed to convert document: %w", err)
	}

	chunks := p.segmenter.Segment(doc)

	var texts []string
	var metas []map[string]any
	for i := range chunks {
		// Numbering by kept position keeps indices contiguous after empty
		// chunks are dropped.
		text, attrs := Normalize(&chunks[i], len(texts), doc.Name)
		if text == "" {
			continue
		}
		texts = append(texts, text)
		metas = append(metas, attrs)
	}
	if len(texts) == 0 {
		return 0, nil
	}

	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(texts) {
		return 0, fmt.Errorf("embedding count mismatch: got %d vectors for %d chunks", len(vectors), len(texts))
	}

	points := make([]vectorstore.Point, len(texts))
	for i := range texts {
		points[i] = vectorstore.Point{
			ID:   uuid.New().String(),
			Vec:  vectors[i],
			Text: texts[i],
			Meta: metas[i],
		}
	}

	if err := p.store.Insert(ctx, p.collection, points); err != nil {
		return 0, fmt.Errorf("failed to insert chunks: %w", err)
	}

	return len(points), nil
}

// record writes a registry entry, tolerating a nil registry and logging
// rather than failing the run on error.
func (p *Pipeline) record(ctx context.Context, doc *storage.DocumentRecord) {
	if p.registry == nil {
		return
	}
	if err := p.registry.Record(ctx, doc); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record document outcome", "document", doc.Name, "error", err)
	}
}
