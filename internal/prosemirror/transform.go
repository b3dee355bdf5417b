package prosemirror

import "fmt"

// Step is an atomic document change.
type Step interface {
	Apply(doc *Node) (*Node, error)
	Map() StepMap
}

// StepMap describes how a step moved positions: OldSize positions at Start
// were replaced by NewSize positions.
type StepMap struct {
	Start   int
	OldSize int
	NewSize int
}

// Map maps pos through the step. assoc decides which side a position at an
// insertion point sticks to: negative keeps it before the inserted content.
func (m StepMap) Map(pos int, assoc int) int {
	if m.OldSize == 0 && m.NewSize == 0 {
		return pos
	}
	end := m.Start + m.OldSize
	if pos < m.Start {
		return pos
	}
	if pos > end {
		return pos + m.NewSize - m.OldSize
	}
	side := assoc
	if m.OldSize != 0 {
		switch pos {
		case m.Start:
			side = -1
		case end:
			side = 1
		}
	}
	if side < 0 {
		return m.Start
	}
	return m.Start + m.NewSize
}

// Mapping is an ordered list of step maps.
type Mapping []StepMap

func (m Mapping) Map(pos int, assoc int) int {
	for _, sm := range m {
		pos = sm.Map(pos, assoc)
	}
	return pos
}

// ReplaceStep replaces [From, To) with inline content. When From and To sit
// in different sibling textblocks the two blocks are joined.
type ReplaceStep struct {
	From    int
	To      int
	Content []*Node
}

func (s ReplaceStep) Map() StepMap {
	size := 0
	for _, node := range s.Content {
		size += node.NodeSize()
	}
	return StepMap{Start: s.From, OldSize: s.To - s.From, NewSize: size}
}

func (s ReplaceStep) Apply(doc *Node) (*Node, error) {
	if s.From > s.To {
		return nil, stepError("INVALID_RANGE", fmt.Sprintf("replace %d..%d", s.From, s.To), ErrOutOfRange)
	}
	for _, node := range s.Content {
		if !node.IsInline() {
			return nil, stepError("INVALID_CONTENT", fmt.Sprintf("replace with block node %q", node.Type), nil)
		}
	}
	rFrom, err := doc.Resolve(s.From)
	if err != nil {
		return nil, stepError("INVALID_RANGE", fmt.Sprintf("replace from %d", s.From), err)
	}
	rTo, err := doc.Resolve(s.To)
	if err != nil {
		return nil, stepError("INVALID_RANGE", fmt.Sprintf("replace to %d", s.To), err)
	}
	if s.From == s.To && len(s.Content) == 0 {
		return doc, nil
	}
	if !rFrom.Parent().IsTextblock() || !rTo.Parent().IsTextblock() {
		return nil, stepError("NOT_TEXTBLOCK", fmt.Sprintf("replace %d..%d", s.From, s.To), ErrNotTextblock)
	}

	depth := rFrom.Depth()
	fromBlock := rFrom.Parent()
	head := sliceInline(fromBlock.Content, 0, rFrom.ParentOffset)
	if rFrom.Start(depth) == rTo.Start(rTo.Depth()) {
		tail := sliceInline(fromBlock.Content, rTo.ParentOffset, fromBlock.ContentSize())
		merged := fromBlock.withContent(joinInline(head, s.Content, tail))
		return replaceUp(rFrom, depth, merged), nil
	}

	// Cross-block: only sibling textblocks can be joined.
	if rTo.Depth() != depth || rFrom.Start(depth-1) != rTo.Start(depth-1) {
		return nil, stepError("UNSUPPORTED_JOIN", fmt.Sprintf("replace %d..%d spans blocks with different parents", s.From, s.To), nil)
	}
	toBlock := rTo.Parent()
	tail := sliceInline(toBlock.Content, rTo.ParentOffset, toBlock.ContentSize())
	merged := fromBlock.withContent(joinInline(head, s.Content, tail))

	parent := rFrom.Node(depth - 1)
	first, last := rFrom.Index(depth-1), rTo.Index(depth-1)
	content := make([]*Node, 0, parent.ChildCount()-(last-first))
	content = append(content, parent.Content[:first]...)
	content = append(content, merged)
	content = append(content, parent.Content[last+1:]...)
	return replaceUp(rFrom, depth-1, parent.withContent(content)), nil
}

// AddMarkStep adds Mark to every text character in [From, To).
type AddMarkStep struct {
	From int
	To   int
	Mark Mark
}

func (s AddMarkStep) Map() StepMap {
	return StepMap{}
}

func (s AddMarkStep) Apply(doc *Node) (*Node, error) {
	return mapTextInRange(doc, s.From, s.To, func(text *Node) *Node {
		return text.withMarks(s.Mark.AddToSet(text.Marks))
	})
}

// RemoveMarkStep removes Mark from every text character in [From, To).
type RemoveMarkStep struct {
	From int
	To   int
	Mark Mark
}

func (s RemoveMarkStep) Map() StepMap {
	return StepMap{}
}

func (s RemoveMarkStep) Apply(doc *Node) (*Node, error) {
	return mapTextInRange(doc, s.From, s.To, func(text *Node) *Node {
		return text.withMarks(s.Mark.RemoveFromSet(text.Marks))
	})
}

// replaceUp swaps the ancestor at depth for node and rebuilds the path to the root.
func replaceUp(r *ResolvedPos, depth int, node *Node) *Node {
	for d := depth - 1; d >= 0; d-- {
		parent := r.Node(d)
		content := make([]*Node, len(parent.Content))
		copy(content, parent.Content)
		content[r.Index(d)] = node
		node = parent.withContent(content)
	}
	return node
}

func mapTextInRange(doc *Node, from, to int, f func(text *Node) *Node) (*Node, error) {
	if from < 0 || to > doc.ContentSize() || from > to {
		return nil, stepError("INVALID_RANGE", fmt.Sprintf("mark %d..%d", from, to), ErrOutOfRange)
	}
	if from == to {
		return doc, nil
	}
	return mapBlocks(doc, 0, from, to, f), nil
}

// mapBlocks rebuilds every textblock under node whose content overlaps
// [from, to). start is the absolute position of node's content.
func mapBlocks(node *Node, start, from, to int, f func(text *Node) *Node) *Node {
	if node.IsTextblock() {
		local := mapInline(node.Content, from-start, to-start, f)
		if local == nil {
			return node
		}
		return node.withContent(local)
	}
	var content []*Node
	pos := start
	for i, child := range node.Content {
		end := pos + child.NodeSize()
		if end > from && pos < to && len(child.Content) > 0 {
			updated := mapBlocks(child, pos+1, from, to, f)
			if updated != child {
				if content == nil {
					content = make([]*Node, len(node.Content))
					copy(content, node.Content)
				}
				content[i] = updated
			}
		}
		pos = end
	}
	if content == nil {
		return node
	}
	return node.withContent(content)
}

// mapInline applies f to the text in [from, to) of an inline run, splitting
// text nodes at the boundaries. It returns nil when nothing changed.
func mapInline(content []*Node, from, to int, f func(text *Node) *Node) []*Node {
	out := make([]*Node, 0, len(content)+2)
	changed := false
	pos := 0
	for _, child := range content {
		size := child.NodeSize()
		end := pos + size
		if !child.IsText() || end <= from || pos >= to {
			out = append(out, child)
			pos = end
			continue
		}
		a, b := max(from-pos, 0), min(to-pos, size)
		if a > 0 {
			out = append(out, child.cut(0, a))
		}
		middle := child.cut(a, b)
		mapped := f(middle)
		if !SameMarkSet(mapped.Marks, middle.Marks) {
			changed = true
		}
		out = append(out, mapped)
		if b < size {
			out = append(out, child.cut(b, size))
		}
		pos = end
	}
	if !changed {
		return nil
	}
	return normalizeInline(out)
}

// sliceInline copies the part of an inline run in [from, to).
func sliceInline(content []*Node, from, to int) []*Node {
	var out []*Node
	pos := 0
	for _, child := range content {
		size := child.NodeSize()
		end := pos + size
		if end > from && pos < to {
			out = append(out, child.cut(max(from-pos, 0), min(to-pos, size)))
		}
		pos = end
	}
	return out
}

func joinInline(parts ...[]*Node) []*Node {
	var out []*Node
	for _, part := range parts {
		out = append(out, part...)
	}
	return normalizeInline(out)
}
