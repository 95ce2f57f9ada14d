package indexer

import (
	"encoding/json"
	"fmt"
	"strings"
)

// internalMetaFields mirror segmenter or document-tree bookkeeping; they are
// dropped at normalization, never persisted.
var internalMetaFields = map[string]struct{}{
	"doc":       {},
	"doc_items": {},
}

// Normalize turns one segmented chunk plus its caller-assigned position into
// (text, attributes) ready for persistence.
//
// Malformed individual fields degrade independently and never fail the whole
// call: a value that cannot be represented as plain structured data is kept
// as its string form, and an uncoercible headings value becomes an empty
// list. The returned text may be empty after trimming, which is a valid
// outcome the caller handles by discarding the chunk.
func Normalize(c *Chunk, index int, documentName string) (string, map[string]any) {
	text := extractText(c)

	attrs := make(map[string]any, len(c.Meta)+3)
	for key, value := range c.Meta {
		if _, internal := internalMetaFields[key]; internal {
			continue
		}
		if isPlainData(value) {
			attrs[key] = value
		} else {
			attrs[key] = fmt.Sprint(value)
		}
	}

	if raw, ok := attrs["headings"]; ok {
		attrs["headings"] = coerceStrings(raw)
	}

	// These three are authoritative and caller-assigned, never chunk-derived.
	attrs["chunk_index"] = index
	attrs["document_name"] = documentName
	attrs["source"] = "upload"

	return text, attrs
}

// extractText tries the fixed set of fields that may hold the chunk's
// human-readable content, falling back to a generic rendering of the
// attribute set.
func extractText(c *Chunk) string {
	for _, candidate := range []string{c.Text, c.Content} {
		if t := strings.TrimSpace(candidate); t != "" {
			return t
		}
	}
	if raw, ok := c.Meta["page_content"].(string); ok {
		if t := strings.TrimSpace(raw); t != "" {
			return t
		}
	}
	if len(c.Meta) > 0 {
		return strings.TrimSpace(fmt.Sprint(c.Meta))
	}
	return ""
}

// isPlainData reports whether a value survives as plain structured data
// (strings, numbers, booleans, and nested mappings/sequences of the same).
func isPlainData(v any) bool {
	if v == nil {
		return true
	}
	_, err := json.Marshal(v)
	return err == nil
}

// coerceStrings forces a headings value to a string sequence regardless of
// its original element type. Anything uncoercible yields an empty sequence.
func coerceStrings(raw any) []string {
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, h := range v {
			out = append(out, fmt.Sprint(h))
		}
		return out
	default:
		return []string{}
	}
}
