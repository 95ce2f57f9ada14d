package indexer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/mock/gomock"

	"docsection/internal/storage"
	storagemocks "docsection/internal/storage/mocks"
	"docsection/internal/vectorstore"
	"docsection/internal/vectorstore/mocks"
)

// fakeEmbedder returns fixed-size vectors without any network traffic.
type fakeEmbedder struct {
	dim    int
	err    error
	embeds int
}

func (e *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.embeds++
	return make([]float32, e.dim), nil
}

func (e *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vec, err := e.Embed(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (e *fakeEmbedder) Dimension(_ context.Context) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	return e.dim, nil
}

func writeUpload(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write upload fixture: %v", err)
	}
}

func TestPipeline_IndexAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	writeUpload(t, dir, "notes.md", "# Intro\n\nSome intro text.\n\n## Details\n\nMore text here.\n")

	store := mocks.NewMockVectorStore(ctrl)
	store.EXPECT().Recreate(gomock.Any(), "docs", 4).Return(nil)

	var inserted []vectorstore.Point
	store.EXPECT().Insert(gomock.Any(), "docs", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, points []vectorstore.Point) error {
			inserted = points
			return nil
		})

	registry := storagemocks.NewMockDocumentStore(ctrl)
	registry.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, doc *storage.DocumentRecord) error {
			if doc.Name != "notes.md" || doc.Status != storage.StatusIndexed {
				t.Errorf("Record() doc = %+v, want indexed notes.md", doc)
			}
			return nil
		})

	seg := NewSegmenter(&wordCounter{max: 100})
	pipeline := NewPipeline(dir, seg, &fakeEmbedder{dim: 4}, store, registry, "docs")

	summary, err := pipeline.IndexAll(context.Background())
	if err != nil {
		t.Fatalf("IndexAll() error = %v", err)
	}

	if summary.DocumentsIndexed != 1 || summary.DocumentsFailed != 0 {
		t.Errorf("summary = %+v, want 1 indexed, 0 failed", summary)
	}
	if summary.Inserted != len(inserted) {
		t.Errorf("summary.Inserted = %d, want %d", summary.Inserted, len(inserted))
	}
	if len(inserted) == 0 {
		t.Fatal("no points inserted")
	}

	for i, point := range inserted {
		if point.ID == "" {
			t.Errorf("point %d has empty ID", i)
		}
		if len(point.Vec) != 4 {
			t.Errorf("point %d vector length = %d, want 4", i, len(point.Vec))
		}
		if point.Meta["chunk_index"] != i {
			t.Errorf("point %d chunk_index = %v, want %d", i, point.Meta["chunk_index"], i)
		}
		if point.Meta["document_name"] != "notes.md" {
			t.Errorf("point %d document_name = %v, want notes.md", i, point.Meta["document_name"])
		}
	}
}

func TestPipeline_IndexAll_EmptyDir(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No Recreate expectation: an empty upload dir must leave the existing
	// collection untouched.
	store := mocks.NewMockVectorStore(ctrl)

	pipeline := NewPipeline(t.TempDir(), NewSegmenter(&wordCounter{max: 100}), &fakeEmbedder{dim: 4}, store, nil, "docs")

	summary, err := pipeline.IndexAll(context.Background())
	if err != nil {
		t.Fatalf("IndexAll() error = %v", err)
	}
	if summary.Inserted != 0 || summary.DocumentsIndexed != 0 || summary.DocumentsFailed != 0 {
		t.Errorf("summary = %+v, want all zero", summary)
	}
}

func TestPipeline_IndexAll_CountsFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	writeUpload(t, dir, "bad.docx", "not a zip archive")
	writeUpload(t, dir, "good.md", "# Title\n\nParagraph.\n")

	store := mocks.NewMockVectorStore(ctrl)
	store.EXPECT().Recreate(gomock.Any(), "docs", 4).Return(nil)
	store.EXPECT().Insert(gomock.Any(), "docs", gomock.Any()).Return(nil)

	var recorded []storage.DocumentRecord
	registry := storagemocks.NewMockDocumentStore(ctrl)
	registry.EXPECT().Record(gomock.Any(), gomock.Any()).Times(2).
		DoAndReturn(func(_ context.Context, doc *storage.DocumentRecord) error {
			recorded = append(recorded, *doc)
			return nil
		})

	pipeline := NewPipeline(dir, NewSegmenter(&wordCounter{max: 100}), &fakeEmbedder{dim: 4}, store, registry, "docs")

	summary, err := pipeline.IndexAll(context.Background())
	if err != nil {
		t.Fatalf("IndexAll() error = %v", err)
	}

	if summary.DocumentsIndexed != 1 {
		t.Errorf("DocumentsIndexed = %d, want 1", summary.DocumentsIndexed)
	}
	if summary.DocumentsFailed != 1 {
		t.Errorf("DocumentsFailed = %d, want 1", summary.DocumentsFailed)
	}

	// Upload scan is sorted, so bad.docx is processed first.
	if len(recorded) != 2 {
		t.Fatalf("recorded %d registry entries, want 2", len(recorded))
	}
	if recorded[0].Name != "bad.docx" || recorded[0].Status != storage.StatusFailed {
		t.Errorf("recorded[0] = %+v, want failed bad.docx", recorded[0])
	}
	if recorded[1].Name != "good.md" || recorded[1].Status != storage.StatusIndexed {
		t.Errorf("recorded[1] = %+v, want indexed good.md", recorded[1])
	}
}

func TestPipeline_IndexAll_EmbedderDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	writeUpload(t, dir, "a.md", "# Title\n\nText.\n")

	store := mocks.NewMockVectorStore(ctrl)

	emb := &fakeEmbedder{dim: 4, err: errors.New("gateway unavailable")}
	pipeline := NewPipeline(dir, NewSegmenter(&wordCounter{max: 100}), emb, store, nil, "docs")

	if _, err := pipeline.IndexAll(context.Background()); err == nil {
		t.Fatal("IndexAll() should fail when the dimension probe fails")
	}
}

func TestScanUploads(t *testing.T) {
	dir := t.TempDir()
	writeUpload(t, dir, "b.md", "x")
	writeUpload(t, dir, "a.docx", "x")
	writeUpload(t, dir, "skip.txt", "x")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("failed to create subdir: %v", err)
	}

	paths, err := scanUploads(dir)
	if err != nil {
		t.Fatalf("scanUploads() error = %v", err)
	}

	if len(paths) != 2 {
		t.Fatalf("scanUploads() count = %d, want 2 (%v)", len(paths), paths)
	}
	if filepath.Base(paths[0]) != "a.docx" || filepath.Base(paths[1]) != "b.md" {
		t.Errorf("scanUploads() order = %v, want a.docx then b.md", paths)
	}
}
