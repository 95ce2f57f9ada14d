package indexer

import (
	"strings"

	"docsection/internal/docconv"
	"docsection/internal/tokenizer"
)

// Segmenter groups converted content blocks into chunks whose approximate
// token length respects the counter's budget. Section headers always start a
// new chunk and maintain the heading stack that becomes each chunk's heading
// path.
type Segmenter struct {
	counter tokenizer.Counter
}

// NewSegmenter creates a segmenter sized by the given token counter.
func NewSegmenter(counter tokenizer.Counter) *Segmenter {
	return &Segmenter{counter: counter}
}

// headingInfo tracks one entry of the open-section stack.
type headingInfo struct {
	level int
	text  string
}

// Segment walks the document's blocks in order and returns its chunks.
// Chunk indices are not assigned here; the caller numbers the chunks it
// keeps so indices stay contiguous after empty chunks are discarded.
func (s *Segmenter) Segment(doc *docconv.Document) []Chunk {
	maxTokens := s.counter.MaxTokens()

	var (
		chunks    []Chunk
		stack     []headingInfo
		parts     []string
		tokens    int
		captions  []string
		blockRefs []int
	)

	flush := func() {
		text := strings.TrimSpace(strings.Join(parts, "\n"))
		if text != "" {
			chunks = append(chunks, newChunk(text, stack, captions, blockRefs, doc.Name))
		}
		parts, tokens, captions, blockRefs = nil, 0, nil, nil
	}

	for i, b := range doc.Blocks {
		if b.Label == docconv.LabelSectionHeader {
			flush()
			title := strings.TrimSpace(b.Text)
			if title == "" {
				continue
			}
			for len(stack) > 0 && stack[len(stack)-1].level >= b.Level {
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, headingInfo{level: b.Level, text: title})
			continue
		}

		if b.Label == docconv.LabelCaption {
			captions = append(captions, b.Text)
		}

		n := s.counter.CountTokens(b.Text)
		if n > maxTokens {
			// A single oversized block becomes its own run of chunks.
			flush()
			for _, piece := range s.split(b.Text, maxTokens) {
				chunks = append(chunks, newChunk(piece, stack, nil, []int{i}, doc.Name))
			}
			continue
		}

		if tokens+n > maxTokens && len(parts) > 0 {
			flush()
		}
		parts = append(parts, b.Text)
		tokens += n
		blockRefs = append(blockRefs, i)
	}
	flush()

	return chunks
}

func newChunk(text string, stack []headingInfo, captions []string, refs []int, docName string) Chunk {
	headings := make([]string, len(stack))
	for i, h := range stack {
		headings[i] = h.text
	}

	meta := map[string]any{
		"headings": headings,
		"origin":   map[string]any{"filename": docName},
		// doc_items back-references are segmenter bookkeeping; metadata
		// normalization drops them before persistence.
		"doc_items": refs,
	}
	if len(captions) > 0 {
		meta["captions"] = captions
	}

	return Chunk{Text: text, Meta: meta}
}

// split breaks oversized text into pieces that each fit the token budget,
// preferring paragraph boundaries, then sentence boundaries, then hard word
// runs.
func (s *Segmenter) split(text string, maxTokens int) []string {
	var pieces []string
	var cur []string
	tokens := 0

	emit := func() {
		if len(cur) > 0 {
			pieces = append(pieces, strings.Join(cur, "\n"))
			cur, tokens = nil, 0
		}
	}

	for _, seg := range s.segments(text, maxTokens) {
		n := s.counter.CountTokens(seg)
		if tokens+n > maxTokens && len(cur) > 0 {
			emit()
		}
		cur = append(cur, seg)
		tokens += n
	}
	emit()

	return pieces
}

// segments decomposes text just far enough that every segment fits the
// budget on its own.
func (s *Segmenter) segments(text string, maxTokens int) []string {
	var segs []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if s.counter.CountTokens(para) <= maxTokens {
			segs = append(segs, para)
			continue
		}
		for _, sent := range splitSentences(para) {
			if s.counter.CountTokens(sent) <= maxTokens {
				segs = append(segs, sent)
				continue
			}
			segs = append(segs, s.wordRuns(sent, maxTokens)...)
		}
	}
	return segs
}

func splitSentences(text string) []string {
	var sentences []string
	for _, sent := range strings.SplitAfter(text, ". ") {
		sent = strings.TrimSpace(sent)
		if sent != "" {
			sentences = append(sentences, sent)
		}
	}
	return sentences
}

// wordRuns is the last resort: greedy word groups under the budget.
func (s *Segmenter) wordRuns(text string, maxTokens int) []string {
	var runs []string
	var cur []string
	tokens := 0

	for _, word := range strings.Fields(text) {
		n := s.counter.CountTokens(word)
		if n == 0 {
			n = 1
		}
		if tokens+n > maxTokens && len(cur) > 0 {
			runs = append(runs, strings.Join(cur, " "))
			cur, tokens = nil, 0
		}
		cur = append(cur, word)
		tokens += n
	}
	if len(cur) > 0 {
		runs = append(runs, strings.Join(cur, " "))
	}
	return runs
}
