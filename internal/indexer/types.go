package indexer

// Chunk is one retrievable unit produced by segmentation, before metadata
// normalization assigns its position and document identity.
type Chunk struct {
	// Text holds the chunk's human-readable content. Content is an
	// alternative field some producers fill instead; Text wins when both are set.
	Text    string
	Content string
	// Meta is the chunk's own attribute set as extracted by the segmenter:
	// heading path, captions, origin info and internal bookkeeping.
	Meta map[string]any
}

// Summary reports the outcome of one batch indexing run. Per-file failure
// detail is not enumerated here; it goes to the logs and the document
// registry.
type Summary struct {
	Inserted         int `json:"inserted"`
	DocumentsIndexed int `json:"documents_indexed"`
	DocumentsFailed  int `json:"documents_failed"`
}
