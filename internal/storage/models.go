package storage

import "time"

// Document statuses recorded after an indexing run.
const (
	StatusIndexed = "indexed"
	StatusFailed  = "failed"
)

// DocumentRecord tracks the outcome of indexing one source document.
type DocumentRecord struct {
	Name       string    `json:"name"`
	ChunkCount int       `json:"chunk_count"`
	Status     string    `json:"status"`
	IndexedAt  time.Time `json:"indexed_at"`
}
