package indexer

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalize_Authoritative(t *testing.T) {
	chunk := &Chunk{
		Text: "chunk body",
		Meta: map[string]any{
			"chunk_index":   99,
			"document_name": "wrong.docx",
			"source":        "crawler",
			"headings":      []string{"2", "2.4"},
		},
	}

	text, attrs := Normalize(chunk, 3, "right.docx")

	if text != "chunk body" {
		t.Errorf("Normalize() text = %q, want chunk body", text)
	}
	if attrs["chunk_index"] != 3 {
		t.Errorf("chunk_index = %v, want 3", attrs["chunk_index"])
	}
	if attrs["document_name"] != "right.docx" {
		t.Errorf("document_name = %v, want right.docx", attrs["document_name"])
	}
	if attrs["source"] != "upload" {
		t.Errorf("source = %v, want upload", attrs["source"])
	}
}

func TestNormalize_DropsInternalFields(t *testing.T) {
	chunk := &Chunk{
		Text: "body",
		Meta: map[string]any{
			"doc":       "tree handle",
			"doc_items": []int{0, 1},
			"captions":  []string{"Table 1"},
		},
	}

	_, attrs := Normalize(chunk, 0, "a.md")

	if _, ok := attrs["doc"]; ok {
		t.Error("doc should be dropped")
	}
	if _, ok := attrs["doc_items"]; ok {
		t.Error("doc_items should be dropped")
	}
	if _, ok := attrs["captions"]; !ok {
		t.Error("captions should be kept")
	}
}

func TestNormalize_StringifiesOpaqueValues(t *testing.T) {
	chunk := &Chunk{
		Text: "body",
		Meta: map[string]any{
			"handle": make(chan int),
			"plain":  map[string]any{"nested": true},
		},
	}

	_, attrs := Normalize(chunk, 0, "a.md")

	if _, ok := attrs["handle"].(string); !ok {
		t.Errorf("handle = %v (%T), want string form", attrs["handle"], attrs["handle"])
	}
	if !reflect.DeepEqual(attrs["plain"], map[string]any{"nested": true}) {
		t.Errorf("plain = %v, serializable value should pass through", attrs["plain"])
	}
}

func TestNormalize_HeadingsCoercion(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want []string
	}{
		{name: "string slice", raw: []string{"1", "1.2"}, want: []string{"1", "1.2"}},
		{name: "any slice", raw: []any{"1", 2}, want: []string{"1", "2"}},
		{name: "garbage", raw: "not a list", want: []string{}},
		{name: "number", raw: 42, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := &Chunk{Text: "body", Meta: map[string]any{"headings": tt.raw}}
			_, attrs := Normalize(chunk, 0, "a.md")
			if !reflect.DeepEqual(attrs["headings"], tt.want) {
				t.Errorf("headings = %v, want %v", attrs["headings"], tt.want)
			}
		})
	}
}

func TestNormalize_TextFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		chunk Chunk
		want  string
	}{
		{
			name:  "text wins over content",
			chunk: Chunk{Text: "primary", Content: "secondary"},
			want:  "primary",
		},
		{
			name:  "content when text empty",
			chunk: Chunk{Text: "  ", Content: "secondary"},
			want:  "secondary",
		},
		{
			name:  "page_content attribute",
			chunk: Chunk{Meta: map[string]any{"page_content": "from meta"}},
			want:  "from meta",
		},
		{
			name:  "nothing yields empty",
			chunk: Chunk{},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, _ := Normalize(&tt.chunk, 0, "a.md")
			if text != tt.want {
				t.Errorf("Normalize() text = %q, want %q", text, tt.want)
			}
		})
	}
}

func TestNormalize_MetaRendering(t *testing.T) {
	chunk := &Chunk{Meta: map[string]any{"note": "only attributes"}}
	text, _ := Normalize(chunk, 0, "a.md")
	if !strings.Contains(text, "only attributes") {
		t.Errorf("Normalize() text = %q, want rendered attribute set", text)
	}
}
