package docconv

import (
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// convertMarkdown parses a markdown file into content blocks using the
// goldmark AST. ATX headings become section headers; paragraphs, list items,
// code blocks and tables become content blocks in document order.
func convertMarkdown(path string) ([]Block, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	reader := text.NewReader(content)
	doc := markdownParser.Parser().Parse(reader)

	var blocks []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			blocks = append(blocks, Block{
				Label: LabelSectionHeader,
				Level: node.Level,
				Text:  nodeText(node, content),
			})
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph:
			// List item paragraphs are collected by the ListItem case.
			if _, inList := node.Parent().(*ast.ListItem); inList {
				return ast.WalkContinue, nil
			}
			if t := nodeText(node, content); t != "" {
				blocks = append(blocks, Block{Label: LabelParagraph, Text: t})
			}
			return ast.WalkSkipChildren, nil

		case *ast.ListItem:
			if t := nodeText(node, content); t != "" {
				blocks = append(blocks, Block{Label: LabelListItem, Text: t})
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			if t := codeText(node, content); t != "" {
				blocks = append(blocks, Block{Label: LabelCode, Text: t})
			}
			return ast.WalkSkipChildren, nil

		case *ast.CodeBlock:
			if t := codeText(node, content); t != "" {
				blocks = append(blocks, Block{Label: LabelCode, Text: t})
			}
			return ast.WalkSkipChildren, nil

		default:
			// Table extension nodes are detected by kind name so this package
			// does not import the extension AST types.
			kindName := n.Kind().String()
			if kindName == "Table" {
				if t := tableText(n, content); t != "" {
					blocks = append(blocks, Block{Label: LabelTable, Text: t})
				}
				return ast.WalkSkipChildren, nil
			}
			return ast.WalkContinue, nil
		}
	})

	return blocks, nil
}

// nodeText extracts the plain text of a node and its children.
func nodeText(n ast.Node, content []byte) string {
	var sb strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(content))
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.String:
			sb.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(sb.String())
}

// codeText extracts the raw lines of a code block.
func codeText(n interface{ Lines() *text.Segments }, content []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(content))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// tableText flattens a table node into one line per row, cells joined by " | ".
func tableText(table ast.Node, content []byte) string {
	var rows []string

	_ = ast.Walk(table, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		kindName := node.Kind().String()
		if kindName == "TableRow" || kindName == "TableHeader" {
			var cells []string
			for cell := node.FirstChild(); cell != nil; cell = cell.NextSibling() {
				cells = append(cells, nodeText(cell, content))
			}
			rows = append(rows, strings.Join(cells, " | "))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(strings.Join(rows, "\n"))
}
