package docconv

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Label classifies a content block extracted from a source document.
type Label string

const (
	LabelSectionHeader Label = "section_header"
	LabelParagraph     Label = "paragraph"
	LabelListItem      Label = "list_item"
	LabelTable         Label = "table"
	LabelCaption       Label = "caption"
	LabelCode          Label = "code"
)

// Block is one labeled content unit in document order.
type Block struct {
	Label Label
	// Level is the section nesting level for section headers; 0 for other labels.
	Level int
	Text  string
}

// Document is the ordered result of converting one source file.
type Document struct {
	Name   string // base filename, used as the owning document identifier
	Blocks []Block
}

// SupportedExt reports whether files with the given extension can be converted.
func SupportedExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".docx", ".md", ".markdown", ".pdf":
		return true
	}
	return false
}

// Convert reads a source file and returns its ordered content blocks.
// The converter is chosen by file extension.
func Convert(path string) (*Document, error) {
	name := filepath.Base(path)

	var (
		blocks []Block
		err    error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".docx":
		blocks, err = convertDocx(path)
	case ".md", ".markdown":
		blocks, err = convertMarkdown(path)
	case ".pdf":
		blocks, err = convertPDF(path)
	default:
		return nil, fmt.Errorf("unsupported document type %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", name, err)
	}

	return &Document{Name: name, Blocks: blocks}, nil
}
