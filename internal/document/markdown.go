package document

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownReader extracts fenced code blocks as cells from Markdown and
// R-Markdown documents using goldmark.
type MarkdownReader struct{}

// NewMarkdownReader creates a new MarkdownReader.
func NewMarkdownReader() *MarkdownReader {
	return &MarkdownReader{}
}

// SupportedExtensions returns the file extensions this reader handles.
func (r *MarkdownReader) SupportedExtensions() []string {
	return []string{".md", ".markdown", ".Rmd"}
}

// Read walks the Markdown AST and returns every fenced code block as a cell.
func (r *MarkdownReader) Read(path string, content []byte) ([]Cell, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(content))

	var cells []Cell
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var buf bytes.Buffer
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(content))
		}

		cell := Cell{
			Source:   strings.TrimSuffix(buf.String(), "\n"),
			Language: fenceLanguage(block, content),
		}
		if lines.Len() > 0 {
			cell.Line = lineNumber(content, lines.At(0).Start)
		}
		cells = append(cells, cell)
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return cells, nil
}

// fenceLanguage normalizes the fence info word: R-Markdown writes it in
// braces, possibly with chunk options ("{python tags=...}").
func fenceLanguage(block *ast.FencedCodeBlock, content []byte) string {
	lang := string(block.Language(content))
	lang = strings.TrimPrefix(lang, "{")
	lang = strings.TrimSuffix(lang, "}")
	if i := strings.IndexAny(lang, " ,"); i >= 0 {
		lang = lang[:i]
	}
	return lang
}

// lineNumber converts a byte offset into a 1-based line number.
func lineNumber(content []byte, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	return bytes.Count(content[:offset], []byte("\n")) + 1
}
