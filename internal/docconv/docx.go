package docconv

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// convertDocx extracts content blocks from an OOXML word-processor file.
// A .docx is a zip archive; the document body lives in word/document.xml as
// an ordered stream of paragraphs and tables.
func convertDocx(path string) ([]Block, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() {
		_ = zr.Close()
	}()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open document body: %w", err)
		}
		blocks, err := parseDocumentXML(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse document body: %w", err)
		}
		return blocks, nil
	}

	return nil, fmt.Errorf("archive has no word/document.xml")
}

// parseDocumentXML walks the body token stream, emitting one block per
// top-level paragraph or table. OMML equation subtrees are skipped entirely;
// the conversion backend this replaces could not render them either and the
// surrounding text survives without them.
func parseDocumentXML(r io.Reader) ([]Block, error) {
	dec := xml.NewDecoder(r)

	var blocks []Block
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "p":
			b, err := parseParagraph(dec)
			if err != nil {
				return nil, err
			}
			if b.Text != "" {
				blocks = append(blocks, b)
			}
		case "tbl":
			text, err := parseTable(dec)
			if err != nil {
				return nil, err
			}
			if text != "" {
				blocks = append(blocks, Block{Label: LabelTable, Text: text})
			}
		}
	}
	return blocks, nil
}

// parseParagraph consumes tokens until the enclosing w:p closes, collecting
// run text and the paragraph style.
func parseParagraph(dec *xml.Decoder) (Block, error) {
	var (
		sb       strings.Builder
		style    string
		numbered bool
		inText   bool
	)

	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return Block{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "oMath", "oMathPara":
				if err := dec.Skip(); err != nil {
					return Block{}, err
				}
				continue
			case "pStyle":
				style = attrValue(t, "val")
			case "numPr":
				numbered = true
			case "t":
				inText = true
			case "tab":
				sb.WriteByte(' ')
			case "br", "cr":
				sb.WriteByte('\n')
			}
			depth++
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
			depth--
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return classifyParagraph(strings.TrimSpace(sb.String()), style, numbered), nil
}

func classifyParagraph(text, style string, numbered bool) Block {
	if level := headingLevel(style); level > 0 {
		return Block{Label: LabelSectionHeader, Level: level, Text: text}
	}
	switch {
	case strings.EqualFold(style, "Title"):
		return Block{Label: LabelSectionHeader, Level: 1, Text: text}
	case strings.EqualFold(style, "Caption"):
		return Block{Label: LabelCaption, Text: text}
	case numbered:
		return Block{Label: LabelListItem, Text: text}
	}
	return Block{Label: LabelParagraph, Text: text}
}

// headingLevel maps paragraph styles like "Heading1" or "heading 2" to their
// section level, or 0 for non-heading styles.
func headingLevel(style string) int {
	s := strings.ToLower(strings.TrimSpace(style))
	if !strings.HasPrefix(s, "heading") {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(s, "heading")))
	if err != nil || n < 1 || n > 9 {
		return 0
	}
	return n
}

// parseTable flattens a w:tbl into one text block, one line per row with
// cells joined by " | ".
func parseTable(dec *xml.Decoder) (string, error) {
	var (
		rows   []string
		cells  []string
		cell   strings.Builder
		inCell bool
		inText bool
	)

	flushCell := func() {
		if inCell {
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
			inCell = false
		}
	}
	flushRow := func() {
		flushCell()
		if len(cells) > 0 {
			rows = append(rows, strings.Join(cells, " | "))
			cells = nil
		}
	}

	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "oMath", "oMathPara":
				if err := dec.Skip(); err != nil {
					return "", err
				}
				continue
			case "tc":
				flushCell()
				inCell = true
			case "t":
				inText = true
			}
			depth++
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "tr":
				flushRow()
			}
			depth--
		case xml.CharData:
			if inText && inCell {
				cell.Write(t)
			}
		}
	}
	flushRow()

	return strings.TrimSpace(strings.Join(rows, "\n")), nil
}

func attrValue(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
