package export

import (
	"fmt"
	"strings"

	"chronicle/anchoring/internal/anchor"
	"chronicle/anchoring/internal/prosemirror"
)

// PlainText returns the document text with blocks separated by newlines.
// Comment anchors leave no trace.
func PlainText(doc *prosemirror.Node) string {
	if doc == nil {
		return ""
	}
	return doc.TextBetween(0, doc.ContentSize(), "\n")
}

// Markdown serializes doc. Comment marks are dropped, so text split only by
// anchors serializes exactly as if it had never been annotated.
func Markdown(doc *prosemirror.Node) string {
	if doc == nil {
		return ""
	}
	var blocks []string
	for _, child := range doc.Content {
		if block := markdownBlock(child, ""); block != "" {
			blocks = append(blocks, block)
		}
	}
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

func markdownBlock(node *prosemirror.Node, indent string) string {
	switch node.Type {
	case "paragraph":
		return indentLines(markdownInline(node.Content), indent)
	case "heading":
		level := 1
		if lvl, ok := node.Attrs["level"].(float64); ok && lvl >= 1 && lvl <= 6 {
			level = int(lvl)
		}
		return indent + strings.Repeat("#", level) + " " + markdownInline(node.Content)
	case "codeBlock":
		lang, _ := node.Attrs["language"].(string)
		body := node.TextContent()
		return indentLines("```"+lang+"\n"+body+"\n```", indent)
	case "blockquote":
		var parts []string
		for _, child := range node.Content {
			parts = append(parts, markdownBlock(child, ""))
		}
		return indentLines(prefixLines(strings.Join(parts, "\n\n"), "> "), indent)
	case "bulletList", "orderedList":
		var items []string
		number := 1
		if start, ok := node.Attrs["start"].(float64); ok && start > 0 {
			number = int(start)
		}
		for i, item := range node.Content {
			marker := "- "
			if node.Type == "orderedList" {
				marker = fmt.Sprintf("%d. ", number+i)
			}
			items = append(items, markdownListItem(item, indent, marker))
		}
		return strings.Join(items, "\n")
	case "horizontalRule":
		return indent + "---"
	case "table":
		return markdownTable(node, indent)
	default:
		var parts []string
		for _, child := range node.Content {
			if part := markdownBlock(child, indent); part != "" {
				parts = append(parts, part)
			}
		}
		return strings.Join(parts, "\n\n")
	}
}

func markdownListItem(item *prosemirror.Node, indent, marker string) string {
	childIndent := indent + strings.Repeat(" ", len(marker))
	var parts []string
	for i, child := range item.Content {
		if i == 0 {
			parts = append(parts, indent+marker+strings.TrimPrefix(markdownBlock(child, childIndent), childIndent))
			continue
		}
		parts = append(parts, markdownBlock(child, childIndent))
	}
	if len(parts) == 0 {
		return indent + strings.TrimRight(marker, " ")
	}
	return strings.Join(parts, "\n")
}

func markdownTable(table *prosemirror.Node, indent string) string {
	var lines []string
	for i, row := range table.Content {
		var cells []string
		for _, cell := range row.Content {
			var parts []string
			for _, child := range cell.Content {
				parts = append(parts, strings.ReplaceAll(markdownInline(child.Content), "|", `\|`))
			}
			cells = append(cells, strings.Join(parts, " "))
		}
		lines = append(lines, indent+"| "+strings.Join(cells, " | ")+" |")
		if i == 0 {
			seps := make([]string, len(cells))
			for j := range seps {
				seps[j] = "---"
			}
			lines = append(lines, indent+"| "+strings.Join(seps, " | ")+" |")
		}
	}
	return strings.Join(lines, "\n")
}

// markdownInline renders inline content. Runs are first merged on their
// non-comment marks so anchors cannot split emphasis.
func markdownInline(content []*prosemirror.Node) string {
	var b strings.Builder
	for _, node := range mergeIgnoringComments(content) {
		switch {
		case node.IsText():
			b.WriteString(markdownText(node))
		case node.Type == "hardBreak":
			b.WriteString("\\\n")
		case node.Type == "image":
			src, _ := node.Attrs["src"].(string)
			alt, _ := node.Attrs["alt"].(string)
			fmt.Fprintf(&b, "![%s](%s)", alt, src)
		}
	}
	return b.String()
}

func markdownText(node *prosemirror.Node) string {
	text := node.Text
	if node.HasMark("code", nil) {
		return "`" + text + "`"
	}
	text = escapeMarkdown(text)
	for i := len(node.Marks) - 1; i >= 0; i-- {
		mark := node.Marks[i]
		switch mark.Type {
		case "bold":
			text = "**" + text + "**"
		case "italic":
			text = "*" + text + "*"
		case "strike":
			text = "~~" + text + "~~"
		case "link":
			text = "[" + text + "](" + mark.Attr("href") + ")"
		}
	}
	return text
}

func mergeIgnoringComments(content []*prosemirror.Node) []*prosemirror.Node {
	var out []*prosemirror.Node
	for _, node := range content {
		if node.IsText() {
			node = prosemirror.NewText(node.Text, withoutComments(node.Marks)...)
		}
		if n := len(out); n > 0 && node.IsText() && out[n-1].IsText() && prosemirror.SameMarkSet(out[n-1].Marks, node.Marks) {
			out[n-1] = prosemirror.NewText(out[n-1].Text+node.Text, node.Marks...)
			continue
		}
		out = append(out, node)
	}
	return out
}

func withoutComments(marks []prosemirror.Mark) []prosemirror.Mark {
	var out []prosemirror.Mark
	for _, m := range marks {
		if m.Type != anchor.MarkType {
			out = append(out, m)
		}
	}
	return out
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
)

func escapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

func indentLines(text, indent string) string {
	if indent == "" {
		return text
	}
	return prefixLines(text, indent)
}

func prefixLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
