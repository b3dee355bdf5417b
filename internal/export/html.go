package export

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"chronicle/anchoring/internal/anchor"
	"chronicle/anchoring/internal/prosemirror"
)

// HTMLOptions adds editor overlays to rendered HTML.
type HTMLOptions struct {
	// Badges are rendered as empty elements at their positions.
	Badges []anchor.Badge
	// Highlights wrap document ranges; only Highlight decorations are used.
	Highlights []anchor.Decoration
}

// HTML renders doc. Comment marks become wrappers carrying data-comment-id
// so a click can be traced back to its comment without a lookup table.
func HTML(doc *prosemirror.Node, opts HTMLOptions) string {
	if doc == nil {
		return ""
	}
	r := &htmlRenderer{badges: append([]anchor.Badge(nil), opts.Badges...)}
	sort.SliceStable(r.badges, func(i, j int) bool { return r.badges[i].Pos < r.badges[j].Pos })
	for _, d := range opts.Highlights {
		if d.Kind == anchor.Highlight && d.From < d.To {
			r.highlights = append(r.highlights, d)
		}
	}
	r.renderContent(doc, 0)
	r.flushBadges(doc.ContentSize())
	return r.b.String()
}

type htmlRenderer struct {
	b          strings.Builder
	badges     []anchor.Badge
	next       int
	highlights []anchor.Decoration
}

// flushBadges writes every pending badge positioned at or before pos.
func (r *htmlRenderer) flushBadges(pos int) {
	for r.next < len(r.badges) && r.badges[r.next].Pos <= pos {
		fmt.Fprintf(&r.b, `<span class="comment-badge" %s="%s"></span>`, anchor.DataAttr, html.EscapeString(r.badges[r.next].CommentID))
		r.next++
	}
}

// renderContent renders the children of node; start is the position of
// node's content.
func (r *htmlRenderer) renderContent(node *prosemirror.Node, start int) {
	pos := start
	for _, child := range node.Content {
		r.renderNode(child, pos)
		pos += child.NodeSize()
		if child.IsInline() {
			r.flushBadges(pos)
		}
	}
}

func (r *htmlRenderer) wrap(open, close string, node *prosemirror.Node, pos int) {
	r.b.WriteString(open)
	r.renderContent(node, pos+1)
	if node.IsTextblock() {
		r.flushBadges(pos + 1 + node.ContentSize())
	}
	r.b.WriteString(close)
}

// renderNode renders one node; pos is the position before it.
func (r *htmlRenderer) renderNode(node *prosemirror.Node, pos int) {
	switch node.Type {
	case "paragraph":
		r.wrap("<p>", "</p>\n", node, pos)
	case "heading":
		level := 1
		if lvl, ok := node.Attrs["level"].(float64); ok && lvl >= 1 && lvl <= 6 {
			level = int(lvl)
		}
		r.wrap(fmt.Sprintf("<h%d>", level), fmt.Sprintf("</h%d>\n", level), node, pos)
	case "bulletList":
		r.wrap("<ul>\n", "</ul>\n", node, pos)
	case "orderedList":
		r.wrap("<ol>\n", "</ol>\n", node, pos)
	case "listItem":
		r.wrap("<li>", "</li>\n", node, pos)
	case "blockquote":
		r.wrap("<blockquote>\n", "</blockquote>\n", node, pos)
	case "codeBlock":
		r.wrap("<pre><code>", "</code></pre>\n", node, pos)
	case "table":
		r.wrap("<table>\n", "</table>\n", node, pos)
	case "tableRow":
		r.wrap("<tr>\n", "</tr>\n", node, pos)
	case "tableCell":
		r.wrap("<td>", "</td>\n", node, pos)
	case "tableHeader":
		r.wrap("<th>", "</th>\n", node, pos)
	case "text":
		r.renderText(node, pos)
	case "hardBreak":
		r.b.WriteString("<br>")
	case "horizontalRule":
		r.b.WriteString("<hr>\n")
	case "image":
		src, _ := node.Attrs["src"].(string)
		alt, _ := node.Attrs["alt"].(string)
		fmt.Fprintf(&r.b, `<img src="%s" alt="%s">`, html.EscapeString(src), html.EscapeString(alt))
	default:
		// Unknown node type - render content if any
		r.renderContent(node, pos+1)
	}
}

// renderText splits a text node at highlight and badge boundaries, then
// renders each piece with its marks and highlights.
func (r *htmlRenderer) renderText(node *prosemirror.Node, pos int) {
	runes := []rune(node.Text)
	end := pos + len(runes)
	cuts := map[int]struct{}{pos: {}, end: {}}
	for _, d := range r.highlights {
		for _, p := range []int{d.From, d.To} {
			if p > pos && p < end {
				cuts[p] = struct{}{}
			}
		}
	}
	for _, b := range r.badges[r.next:] {
		if b.Pos > pos && b.Pos < end {
			cuts[b.Pos] = struct{}{}
		}
	}
	points := make([]int, 0, len(cuts))
	for p := range cuts {
		points = append(points, p)
	}
	sort.Ints(points)

	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		piece := renderMarks(html.EscapeString(string(runes[a-pos:b-pos])), node.Marks)
		for _, d := range r.highlights {
			if d.From <= a && b <= d.To {
				piece = fmt.Sprintf(`<span class="comment-highlight" %s="%s">%s</span>`, anchor.DataAttr, html.EscapeString(d.CommentID), piece)
			}
		}
		r.b.WriteString(piece)
		if b < end {
			r.flushBadges(b)
		}
	}
}

// renderMarks wraps escaped text in its marks, outermost first.
func renderMarks(text string, marks []prosemirror.Mark) string {
	for i := len(marks) - 1; i >= 0; i-- {
		mark := marks[i]
		switch mark.Type {
		case "bold":
			text = fmt.Sprintf("<strong>%s</strong>", text)
		case "italic":
			text = fmt.Sprintf("<em>%s</em>", text)
		case "code":
			text = fmt.Sprintf("<code>%s</code>", text)
		case "link":
			text = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(mark.Attr("href")), text)
		case "strike":
			text = fmt.Sprintf("<s>%s</s>", text)
		case "underline":
			text = fmt.Sprintf("<u>%s</u>", text)
		case anchor.MarkType:
			text = fmt.Sprintf(`<span class="comment-mark" %s="%s">%s</span>`, anchor.DataAttr, html.EscapeString(mark.Attr(anchor.AttrCommentID)), text)
		}
	}
	return text
}
