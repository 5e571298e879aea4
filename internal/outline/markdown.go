package outline

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor handles Markdown files using goldmark. Heading
// levels become outline levels directly.
type MarkdownExtractor struct{}

func (p *MarkdownExtractor) Extract(r io.Reader, filename string) (*Book, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	title := strings.TrimSuffix(strings.TrimSuffix(filename, ".md"), ".markdown")
	sb := newSectionBuilder(title)

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			sb.Heading(node.Level, string(node.Text(src)))
		default:
			sb.Text(extractText(n, src))
		}
	}

	return sb.Book(), nil
}

// extractText gets the text content of a goldmark AST node. A block's
// raw lines and its inline children cover the same source, so a node
// with lines yields those and nothing else.
func extractText(n ast.Node, src []byte) string {
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines.Len() > 0 {
			var buf bytes.Buffer
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				buf.Write(line.Value(src))
			}
			return strings.TrimSpace(buf.String())
		}
	}
	// Container blocks (lists, quotes) carry no lines of their own;
	// collect from their children.
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if text := extractText(c, src); text != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(text)
		}
	}
	return strings.TrimSpace(buf.String())
}
