package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks docsection/internal/vectorstore VectorStore

import "context"

// Point is one chunk ready for insertion: its text, embedding and
// normalized attributes.
type Point struct {
	ID   string
	Vec  []float32
	Text string
	Meta map[string]any
}

// SearchHit is one ranked result of a similarity search.
type SearchHit struct {
	ID    string
	Score float32
	Text  string
	Meta  map[string]any
}

// Record is one stored chunk returned by a structural (non-vector) fetch.
type Record struct {
	ID   string
	Text string
	Meta map[string]any
}

// VectorStore defines the storage contract the core consumes. The backing
// store is a black box: it persists (text, vector, attributes) triples,
// answers similarity searches, and returns all records of one document.
type VectorStore interface {
	// Recreate drops the collection if it exists and creates it fresh with
	// the given vector size. Indexing is a whole-collection replace, not an
	// incremental upsert; readers mid-query during a recreate may observe a
	// missing or partially populated collection.
	Recreate(ctx context.Context, collection string, vectorSize int) error

	// Insert adds points to the collection.
	Insert(ctx context.Context, collection string, points []Point) error

	// Search returns the k nearest stored points to the query vector.
	Search(ctx context.Context, collection string, query []float32, k int) ([]SearchHit, error)

	// FetchByDocument returns every record whose document_name attribute
	// matches, in storage order. An unknown document yields an empty slice,
	// not an error.
	FetchByDocument(ctx context.Context, collection, documentName string) ([]Record, error)

	// Count returns the number of stored points.
	Count(ctx context.Context, collection string) (int, error)

	// CollectionExists reports whether the collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)
}
