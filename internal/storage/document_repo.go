package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks docsection/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DocumentStore defines the interface for document registry operations.
type DocumentStore interface {
	// Record inserts or replaces the registry entry for a document.
	Record(ctx context.Context, doc *DocumentRecord) error
	// ListAll returns every registry entry ordered by name.
	ListAll(ctx context.Context) ([]DocumentRecord, error)
}

// DocumentRepo provides methods for document registry operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Record inserts or replaces the registry entry for a document.
// Each indexing run overwrites the previous outcome for the same name.
func (r *DocumentRepo) Record(ctx context.Context, doc *DocumentRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (name, chunk_count, status, indexed_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (name) DO UPDATE SET
		 chunk_count = excluded.chunk_count, status = excluded.status, indexed_at = CURRENT_TIMESTAMP`,
		doc.Name, doc.ChunkCount, doc.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to record document: %w", err)
	}

	return nil
}

// ListAll returns every registry entry ordered by name.
func (r *DocumentRepo) ListAll(ctx context.Context) ([]DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT name, chunk_count, status, indexed_at FROM documents ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []DocumentRecord
	for rows.Next() {
		var doc DocumentRecord
		var indexedAtStr string
		if err := rows.Scan(&doc.Name, &doc.ChunkCount, &doc.Status, &indexedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}

		// Parse indexed_at DATETIME string
		doc.IndexedAt, err = time.Parse("2006-01-02 15:04:05", indexedAtStr)
		if err != nil {
			// Try alternative format (SQLite might use different format)
			doc.IndexedAt, err = time.Parse(time.RFC3339, indexedAtStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse indexed_at timestamp: %w", err)
			}
		}

		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate document rows: %w", err)
	}

	return docs, nil
}
