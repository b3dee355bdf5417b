// Package prosemirror is a small document engine over ProseMirror-shaped
// JSON: an immutable node tree, integer positions, steps, transactions and
// plugins.
package prosemirror

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"
)

// Node is a document node. Nodes are never mutated after construction;
// edits build new nodes and share untouched subtrees.
type Node struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []*Node        `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
}

// NewNode builds a non-text node.
func NewNode(nodeType string, attrs map[string]any, content ...*Node) *Node {
	return &Node{Type: nodeType, Attrs: attrs, Content: content}
}

// NewText builds a text node. Marks are stored in schema order.
func NewText(text string, marks ...Mark) *Node {
	var set []Mark
	for _, m := range marks {
		set = m.AddToSet(set)
	}
	return &Node{Type: "text", Text: text, Marks: set}
}

// ParseJSON decodes a ProseMirror JSON document.
func ParseJSON(data []byte) (*Node, error) {
	var doc Node
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc.Type != "doc" {
		return nil, fmt.Errorf("decode document: root type %q, want doc", doc.Type)
	}
	doc.normalize()
	return &doc, nil
}

// normalize sorts mark sets and merges adjacent text in freshly decoded trees.
func (n *Node) normalize() {
	for _, child := range n.Content {
		if len(child.Marks) > 1 {
			sortMarks(child.Marks)
		}
		child.normalize()
	}
	if n.IsTextblock() {
		n.Content = normalizeInline(n.Content)
	}
}

func (n *Node) spec() NodeSpec {
	return NodeSpecFor(n.Type)
}

func (n *Node) IsText() bool {
	return n.Type == "text"
}

func (n *Node) IsLeaf() bool {
	return !n.IsText() && n.spec().Leaf
}

func (n *Node) IsInline() bool {
	return n.IsText() || n.spec().Inline
}

func (n *Node) IsBlock() bool {
	return !n.IsInline()
}

func (n *Node) IsTextblock() bool {
	return n.spec().Textblock
}

// TextLen is the length of a text node in characters (runes).
func (n *Node) TextLen() int {
	return utf8.RuneCountInString(n.Text)
}

// NodeSize is the number of positions the node occupies in its parent.
func (n *Node) NodeSize() int {
	switch {
	case n.IsText():
		return n.TextLen()
	case n.IsLeaf():
		return 1
	default:
		return n.ContentSize() + 2
	}
}

// ContentSize is the number of positions inside the node.
func (n *Node) ContentSize() int {
	size := 0
	for _, child := range n.Content {
		size += child.NodeSize()
	}
	return size
}

func (n *Node) ChildCount() int {
	return len(n.Content)
}

func (n *Node) Child(i int) *Node {
	return n.Content[i]
}

func (n *Node) maybeChild(i int) *Node {
	if i < 0 || i >= len(n.Content) {
		return nil
	}
	return n.Content[i]
}

// HasMark reports whether the node carries a mark of the given type that
// satisfies match. A nil match accepts any mark of that type.
func (n *Node) HasMark(markType string, match func(Mark) bool) bool {
	for _, m := range n.Marks {
		if m.Type == markType && (match == nil || match(m)) {
			return true
		}
	}
	return false
}

func (n *Node) withContent(content []*Node) *Node {
	return &Node{Type: n.Type, Attrs: n.Attrs, Content: content, Marks: n.Marks}
}

func (n *Node) withMarks(marks []Mark) *Node {
	return &Node{Type: n.Type, Attrs: n.Attrs, Content: n.Content, Text: n.Text, Marks: marks}
}

// cut returns the part of a text node between the rune offsets from and to.
// Non-text nodes are returned unchanged.
func (n *Node) cut(from, to int) *Node {
	if !n.IsText() {
		return n
	}
	runes := []rune(n.Text)
	if from <= 0 && to >= len(runes) {
		return n
	}
	if from < 0 {
		from = 0
	}
	if to > len(runes) {
		to = len(runes)
	}
	return &Node{Type: n.Type, Text: string(runes[from:to]), Marks: n.Marks}
}

// Descendants calls f for every descendant with its position. Returning
// false skips the node's children.
func (n *Node) Descendants(f func(node *Node, pos int, parent *Node) bool) {
	n.NodesBetween(0, n.ContentSize(), f)
}

// NodesBetween calls f for every descendant overlapping [from, to).
func (n *Node) NodesBetween(from, to int, f func(node *Node, pos int, parent *Node) bool) {
	n.nodesBetween(from, to, f, 0)
}

func (n *Node) nodesBetween(from, to int, f func(node *Node, pos int, parent *Node) bool, startPos int) {
	pos := 0
	for i := 0; i < len(n.Content) && pos < to; i++ {
		child := n.Content[i]
		end := pos + child.NodeSize()
		if end > from && f(child, startPos+pos, n) && len(child.Content) > 0 {
			start := pos + 1
			child.nodesBetween(max(0, from-start), min(child.ContentSize(), to-start), f, startPos+start)
		}
		pos = end
	}
}

// TextBetween returns the text in [from, to). blockSep is inserted between
// textblocks; inline leaves contribute their LeafText.
func (n *Node) TextBetween(from, to int, blockSep string) string {
	var b strings.Builder
	first := true
	n.NodesBetween(from, to, func(node *Node, pos int, _ *Node) bool {
		var text string
		switch {
		case node.IsText():
			text = node.cut(max(from, pos)-pos, to-pos).Text
		case node.IsLeaf():
			text = node.spec().LeafText
		}
		if node.IsBlock() && (node.IsTextblock() || node.IsLeaf() && text != "") && blockSep != "" {
			if first {
				first = false
			} else {
				b.WriteString(blockSep)
			}
		}
		b.WriteString(text)
		return true
	})
	return b.String()
}

// TextContent concatenates all text in the node.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	return n.TextBetween(0, n.ContentSize(), "")
}

// Equal reports structural equality.
func (n *Node) Equal(other *Node) bool {
	if n == other {
		return true
	}
	if n == nil || other == nil {
		return false
	}
	if n.Type != other.Type || n.Text != other.Text || !SameMarkSet(n.Marks, other.Marks) {
		return false
	}
	if (len(n.Attrs) != 0 || len(other.Attrs) != 0) && !reflect.DeepEqual(n.Attrs, other.Attrs) {
		return false
	}
	if len(n.Content) != len(other.Content) {
		return false
	}
	for i := range n.Content {
		if !n.Content[i].Equal(other.Content[i]) {
			return false
		}
	}
	return true
}

// normalizeInline drops empty text nodes and merges neighbours with equal marks.
func normalizeInline(content []*Node) []*Node {
	out := make([]*Node, 0, len(content))
	for _, node := range content {
		if node.IsText() && node.Text == "" {
			continue
		}
		if len(out) > 0 {
			last := out[len(out)-1]
			if last.IsText() && node.IsText() && SameMarkSet(last.Marks, node.Marks) {
				out[len(out)-1] = &Node{Type: "text", Text: last.Text + node.Text, Marks: last.Marks}
				continue
			}
		}
		out = append(out, node)
	}
	return out
}
