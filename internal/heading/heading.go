package heading

import (
	"fmt"
	"regexp"
	"strings"
)

// Path is an ordered list of section titles describing a chunk's position in
// a document's table of contents, from the root section down to the chunk's
// immediate containing section. A nil Path means no section context was
// detected, which is distinct from a path that happens to be empty after
// normalization.
type Path []string

var (
	headingsFragmentRe = regexp.MustCompile(`headings=\[(.*?)]`)
	quotedLiteralRe    = regexp.MustCompile(`'(.*?)'`)
)

// Resolve picks the grouping heading at the requested depth. Depth counts
// from the most specific end of the path: depth 1 is the last element, depth
// 2 its parent, and so on. A user viewing one chunk wants progressively
// broader sibling sets, so this is relative to the chunk, not an absolute
// tree depth. Depth is clamped to [1, len(p)] and the effective depth is
// returned. An empty path yields ok=false, which callers must treat as "no
// section context" rather than an error.
func Resolve(p Path, depth int) (heading string, effectiveDepth int, ok bool) {
	if len(p) == 0 {
		return "", 0, false
	}
	if depth < 1 {
		depth = 1
	}
	if depth > len(p) {
		depth = len(p)
	}
	return p[len(p)-depth], depth, true
}

// Contains reports whether the path includes the given heading. Comparison
// is exact string equality after trimming surrounding whitespace; no case
// folding is applied.
func Contains(p Path, heading string) bool {
	target := strings.TrimSpace(heading)
	for _, h := range p {
		if strings.TrimSpace(h) == target {
			return true
		}
	}
	return false
}

// FromAttributes extracts a heading path from normalized chunk attributes.
// Two encodings of the same data exist in the wild: a structured "headings"
// list, and a serialized debug dump under "meta" containing a headings=[...]
// fragment. They are tried in that order; first non-empty result wins.
func FromAttributes(attrs map[string]any) Path {
	if len(attrs) == 0 {
		return nil
	}
	if raw, ok := attrs["headings"]; ok {
		if p := fromStructured(raw); len(p) > 0 {
			return p
		}
	}
	if meta, ok := attrs["meta"].(string); ok {
		if p := FromMetaString(meta); len(p) > 0 {
			return p
		}
	}
	return nil
}

// fromStructured coerces a structured headings value to a Path regardless of
// its element type. Entries are trimmed and empties dropped.
func fromStructured(raw any) Path {
	var p Path
	switch v := raw.(type) {
	case []string:
		for _, h := range v {
			if t := strings.TrimSpace(h); t != "" {
				p = append(p, t)
			}
		}
	case []any:
		for _, h := range v {
			if t := strings.TrimSpace(fmt.Sprint(h)); t != "" {
				p = append(p, t)
			}
		}
	case Path:
		return fromStructured([]string(v))
	}
	return p
}

// FromMetaString pulls a heading path out of a debug-style key=value dump,
// e.g. "schema_name='DocMeta' headings=['2 ', '2.4 '] captions=None". Quoted
// string literals inside the headings=[...] fragment are extracted and
// trimmed.
func FromMetaString(meta string) Path {
	if meta == "" {
		return nil
	}
	m := headingsFragmentRe.FindStringSubmatch(meta)
	if m == nil {
		return nil
	}
	var p Path
	for _, lit := range quotedLiteralRe.FindAllStringSubmatch(m[1], -1) {
		if t := strings.TrimSpace(lit[1]); t != "" {
			p = append(p, t)
		}
	}
	return p
}
