package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"chronicle/anchoring/internal/prosemirror"
)

var markdownParser = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
	),
)

// FromMarkdown parses markdown into a document tree.
func FromMarkdown(source []byte) (*prosemirror.Node, error) {
	root := markdownParser.Parser().Parse(text.NewReader(source))
	doc, ok := root.(*ast.Document)
	if !ok {
		return nil, fmt.Errorf("parse markdown: unexpected root %s", root.Kind())
	}
	c := &mdConverter{source: source}
	return prosemirror.Doc(c.blocks(doc)...), nil
}

type mdConverter struct {
	source []byte
}

func (c *mdConverter) blocks(parent ast.Node) []*prosemirror.Node {
	var out []*prosemirror.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if block := c.block(n); block != nil {
			out = append(out, block)
		}
	}
	return out
}

func (c *mdConverter) block(n ast.Node) *prosemirror.Node {
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return prosemirror.Paragraph(c.inlines(n, nil)...)
	case *ast.Heading:
		return prosemirror.Heading(n.Level, c.inlines(n, nil)...)
	case *ast.Blockquote:
		return prosemirror.NewNode("blockquote", nil, c.blocks(n)...)
	case *ast.List:
		if n.IsOrdered() {
			return prosemirror.NewNode("orderedList", map[string]any{"start": float64(n.Start)}, c.blocks(n)...)
		}
		return prosemirror.NewNode("bulletList", nil, c.blocks(n)...)
	case *ast.ListItem:
		return prosemirror.NewNode("listItem", nil, c.blocks(n)...)
	case *ast.FencedCodeBlock:
		attrs := map[string]any{}
		if lang := n.Language(c.source); len(lang) > 0 {
			attrs["language"] = string(lang)
		}
		return c.codeBlock(n, attrs)
	case *ast.CodeBlock:
		return c.codeBlock(n, nil)
	case *ast.ThematicBreak:
		return prosemirror.NewNode("horizontalRule", nil)
	case *east.Table:
		return prosemirror.NewNode("table", nil, c.blocks(n)...)
	case *east.TableHeader:
		return prosemirror.NewNode("tableRow", nil, c.cells(n, "tableHeader")...)
	case *east.TableRow:
		return prosemirror.NewNode("tableRow", nil, c.cells(n, "tableCell")...)
	default:
		// HTML blocks and unknown extensions carry no document text.
		return nil
	}
}

func (c *mdConverter) cells(row ast.Node, cellType string) []*prosemirror.Node {
	var out []*prosemirror.Node
	for n := row.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, prosemirror.NewNode(cellType, nil, prosemirror.Paragraph(c.inlines(n, nil)...)))
	}
	return out
}

func (c *mdConverter) codeBlock(n ast.Node, attrs map[string]any) *prosemirror.Node {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(c.source))
	}
	body := strings.TrimSuffix(buf.String(), "\n")
	if body == "" {
		return prosemirror.NewNode("codeBlock", attrs)
	}
	return prosemirror.NewNode("codeBlock", attrs, prosemirror.NewText(body))
}

func (c *mdConverter) inlines(parent ast.Node, marks []prosemirror.Mark) []*prosemirror.Node {
	var out []*prosemirror.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, c.inline(n, marks)...)
	}
	return out
}

func (c *mdConverter) inline(n ast.Node, marks []prosemirror.Mark) []*prosemirror.Node {
	switch n := n.(type) {
	case *ast.Text:
		out := []*prosemirror.Node{prosemirror.NewText(string(n.Segment.Value(c.source)), marks...)}
		switch {
		case n.HardLineBreak():
			out = append(out, prosemirror.HardBreak())
		case n.SoftLineBreak():
			out = append(out, prosemirror.NewText(" ", marks...))
		}
		return out
	case *ast.String:
		return []*prosemirror.Node{prosemirror.NewText(string(n.Value), marks...)}
	case *ast.Emphasis:
		markType := "italic"
		if n.Level == 2 {
			markType = "bold"
		}
		return c.inlines(n, prosemirror.NewMark(markType, nil).AddToSet(marks))
	case *east.Strikethrough:
		return c.inlines(n, prosemirror.NewMark("strike", nil).AddToSet(marks))
	case *ast.CodeSpan:
		code := prosemirror.NewMark("code", nil).AddToSet(marks)
		return []*prosemirror.Node{prosemirror.NewText(c.plainText(n), code...)}
	case *ast.Link:
		link := prosemirror.NewMark("link", map[string]any{"href": string(n.Destination)})
		return c.inlines(n, link.AddToSet(marks))
	case *ast.AutoLink:
		link := prosemirror.NewMark("link", map[string]any{"href": string(n.URL(c.source))})
		return []*prosemirror.Node{prosemirror.NewText(string(n.Label(c.source)), link.AddToSet(marks)...)}
	case *ast.Image:
		return []*prosemirror.Node{prosemirror.NewNode("image", map[string]any{
			"src": string(n.Destination),
			"alt": c.plainText(n),
		})}
	default:
		return c.inlines(n, marks)
	}
}

func (c *mdConverter) plainText(parent ast.Node) string {
	var b strings.Builder
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *ast.Text:
			b.Write(n.Segment.Value(c.source))
		case *ast.String:
			b.Write(n.Value)
		default:
			b.WriteString(c.plainText(n))
		}
	}
	return b.String()
}
