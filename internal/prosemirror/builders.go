package prosemirror

// Doc builds a document node.
func Doc(content ...*Node) *Node {
	return NewNode("doc", nil, content...)
}

// Paragraph builds a paragraph, merging adjacent text with equal marks.
func Paragraph(content ...*Node) *Node {
	return NewNode("paragraph", nil, normalizeInline(content)...)
}

// Heading builds a heading of the given level.
func Heading(level int, content ...*Node) *Node {
	return NewNode("heading", map[string]any{"level": float64(level)}, normalizeInline(content)...)
}

// HardBreak builds an inline line break.
func HardBreak() *Node {
	return NewNode("hardBreak", nil)
}
