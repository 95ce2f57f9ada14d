package indexer

import (
	"reflect"
	"strings"
	"testing"

	"docsection/internal/docconv"
)

// wordCounter sizes chunks by whitespace word count, which keeps the tests
// independent of any tokenize endpoint.
type wordCounter struct {
	max int
}

func (c *wordCounter) CountTokens(text string) int { return len(strings.Fields(text)) }
func (c *wordCounter) MaxTokens() int              { return c.max }

func chunkHeadings(t *testing.T, c Chunk) []string {
	t.Helper()
	headings, ok := c.Meta["headings"].([]string)
	if !ok {
		t.Fatalf("chunk headings = %v (%T), want []string", c.Meta["headings"], c.Meta["headings"])
	}
	return headings
}

func TestSegment_HeadingStack(t *testing.T) {
	doc := &docconv.Document{
		Name: "doc.md",
		Blocks: []docconv.Block{
			{Label: docconv.LabelSectionHeader, Level: 1, Text: "1 Intro"},
			{Label: docconv.LabelParagraph, Text: "Intro text."},
			{Label: docconv.LabelSectionHeader, Level: 2, Text: "1.1 Scope"},
			{Label: docconv.LabelParagraph, Text: "Scope text."},
			{Label: docconv.LabelSectionHeader, Level: 2, Text: "1.2 Terms"},
			{Label: docconv.LabelParagraph, Text: "Terms text."},
			{Label: docconv.LabelSectionHeader, Level: 1, Text: "2 Design"},
			{Label: docconv.LabelParagraph, Text: "Design text."},
		},
	}

	seg := NewSegmenter(&wordCounter{max: 100})
	chunks := seg.Segment(doc)

	if len(chunks) != 4 {
		t.Fatalf("Segment() chunk count = %d, want 4", len(chunks))
	}

	wantHeadings := [][]string{
		{"1 Intro"},
		{"1 Intro", "1.1 Scope"},
		{"1 Intro", "1.2 Terms"},
		{"2 Design"},
	}
	for i, want := range wantHeadings {
		if got := chunkHeadings(t, chunks[i]); !reflect.DeepEqual(got, want) {
			t.Errorf("chunk %d headings = %v, want %v", i, got, want)
		}
	}
}

func TestSegment_RespectsBudget(t *testing.T) {
	doc := &docconv.Document{
		Name: "doc.md",
		Blocks: []docconv.Block{
			{Label: docconv.LabelParagraph, Text: "one two three"},
			{Label: docconv.LabelParagraph, Text: "four five six"},
			{Label: docconv.LabelParagraph, Text: "seven eight"},
		},
	}

	counter := &wordCounter{max: 6}
	chunks := NewSegmenter(counter).Segment(doc)

	if len(chunks) != 2 {
		t.Fatalf("Segment() chunk count = %d, want 2", len(chunks))
	}
	if chunks[0].Text != "one two three\nfour five six" {
		t.Errorf("chunk 0 text = %q", chunks[0].Text)
	}
	if chunks[1].Text != "seven eight" {
		t.Errorf("chunk 1 text = %q", chunks[1].Text)
	}
	for i, c := range chunks {
		if n := counter.CountTokens(c.Text); n > counter.max {
			t.Errorf("chunk %d token count = %d, exceeds budget %d", i, n, counter.max)
		}
	}
}

func TestSegment_SplitsOversizedBlock(t *testing.T) {
	words := make([]string, 25)
	for i := range words {
		words[i] = "word"
	}
	doc := &docconv.Document{
		Name: "doc.md",
		Blocks: []docconv.Block{
			{Label: docconv.LabelParagraph, Text: strings.Join(words, " ")},
		},
	}

	counter := &wordCounter{max: 10}
	chunks := NewSegmenter(counter).Segment(doc)

	if len(chunks) < 3 {
		t.Fatalf("Segment() chunk count = %d, want at least 3", len(chunks))
	}
	total := 0
	for i, c := range chunks {
		n := counter.CountTokens(c.Text)
		if n > counter.max {
			t.Errorf("chunk %d token count = %d, exceeds budget %d", i, n, counter.max)
		}
		total += n
	}
	if total != 25 {
		t.Errorf("total words across chunks = %d, want 25", total)
	}
}

func TestSegment_EmptyHeadingSkipped(t *testing.T) {
	doc := &docconv.Document{
		Name: "doc.md",
		Blocks: []docconv.Block{
			{Label: docconv.LabelSectionHeader, Level: 1, Text: "   "},
			{Label: docconv.LabelParagraph, Text: "Body."},
		},
	}

	chunks := NewSegmenter(&wordCounter{max: 100}).Segment(doc)
	if len(chunks) != 1 {
		t.Fatalf("Segment() chunk count = %d, want 1", len(chunks))
	}
	if got := chunkHeadings(t, chunks[0]); len(got) != 0 {
		t.Errorf("chunk headings = %v, want empty", got)
	}
}

func TestSegment_Captions(t *testing.T) {
	doc := &docconv.Document{
		Name: "doc.md",
		Blocks: []docconv.Block{
			{Label: docconv.LabelTable, Text: "a | b"},
			{Label: docconv.LabelCaption, Text: "Table 1. Results"},
		},
	}

	chunks := NewSegmenter(&wordCounter{max: 100}).Segment(doc)
	if len(chunks) != 1 {
		t.Fatalf("Segment() chunk count = %d, want 1", len(chunks))
	}
	captions, ok := chunks[0].Meta["captions"].([]string)
	if !ok || len(captions) != 1 || captions[0] != "Table 1. Results" {
		t.Errorf("chunk captions = %v, want [Table 1. Results]", chunks[0].Meta["captions"])
	}
	if !strings.Contains(chunks[0].Text, "Table 1. Results") {
		t.Errorf("chunk text should include the caption, got %q", chunks[0].Text)
	}
}

func TestSegment_OriginFilename(t *testing.T) {
	doc := &docconv.Document{
		Name: "report.docx",
		Blocks: []docconv.Block{
			{Label: docconv.LabelParagraph, Text: "Body."},
		},
	}

	chunks := NewSegmenter(&wordCounter{max: 100}).Segment(doc)
	if len(chunks) != 1 {
		t.Fatalf("Segment() chunk count = %d, want 1", len(chunks))
	}
	origin, ok := chunks[0].Meta["origin"].(map[string]any)
	if !ok || origin["filename"] != "report.docx" {
		t.Errorf("chunk origin = %v, want filename report.docx", chunks[0].Meta["origin"])
	}
}
