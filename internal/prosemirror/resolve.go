package prosemirror

import "fmt"

type resolvedLevel struct {
	node *Node
	// index of the child containing (or following) the position
	index int
	// absolute position where that child starts
	offset int
}

// ResolvedPos is a position with its ancestry resolved.
type ResolvedPos struct {
	Pos          int
	ParentOffset int
	path         []resolvedLevel
}

// Resolve resolves pos in doc.
func (n *Node) Resolve(pos int) (*ResolvedPos, error) {
	if pos < 0 || pos > n.ContentSize() {
		return nil, fmt.Errorf("resolve %d: %w", pos, ErrOutOfRange)
	}
	var path []resolvedLevel
	start := 0
	parentOffset := pos
	node := n
	for {
		index, offset := node.findIndex(parentOffset)
		rem := parentOffset - offset
		path = append(path, resolvedLevel{node: node, index: index, offset: start + offset})
		if rem == 0 {
			break
		}
		node = node.Child(index)
		if node.IsText() {
			break
		}
		parentOffset = rem - 1
		start += offset + 1
	}
	return &ResolvedPos{Pos: pos, ParentOffset: parentOffset, path: path}, nil
}

// findIndex finds the child containing pos. A pos on a child boundary
// resolves to the child after it.
func (n *Node) findIndex(pos int) (int, int) {
	if pos == 0 {
		return 0, 0
	}
	cur := 0
	for i, child := range n.Content {
		end := cur + child.NodeSize()
		if end >= pos {
			if end == pos {
				return i + 1, end
			}
			return i, cur
		}
		cur = end
	}
	return len(n.Content), cur
}

// Depth is the number of ancestors above the parent.
func (r *ResolvedPos) Depth() int {
	return len(r.path) - 1
}

// Node returns the ancestor at depth d; d == Depth() is the parent.
func (r *ResolvedPos) Node(d int) *Node {
	return r.path[d].node
}

// Index returns the child index at depth d.
func (r *ResolvedPos) Index(d int) int {
	return r.path[d].index
}

func (r *ResolvedPos) Parent() *Node {
	return r.Node(r.Depth())
}

// Start is the position at which the content of the ancestor at depth d starts.
func (r *ResolvedPos) Start(d int) int {
	if d == 0 {
		return 0
	}
	return r.path[d-1].offset + 1
}

// End is the position at which the content of the ancestor at depth d ends.
func (r *ResolvedPos) End(d int) int {
	return r.Start(d) + r.Node(d).ContentSize()
}

// Before is the position directly before the ancestor at depth d (d > 0).
func (r *ResolvedPos) Before(d int) int {
	return r.path[d-1].offset
}

func (r *ResolvedPos) textOffset() int {
	return r.Pos - r.path[len(r.path)-1].offset
}

// NodeAfter returns the node directly after the position, cut to start at it.
func (r *ResolvedPos) NodeAfter() *Node {
	parent := r.Parent()
	index := r.Index(r.Depth())
	if index == parent.ChildCount() {
		return nil
	}
	child := parent.Child(index)
	if off := r.textOffset(); off > 0 {
		return child.cut(off, child.TextLen())
	}
	return child
}

// NodeBefore returns the node directly before the position, cut to end at it.
func (r *ResolvedPos) NodeBefore() *Node {
	parent := r.Parent()
	index := r.Index(r.Depth())
	if off := r.textOffset(); off > 0 {
		return parent.Child(index).cut(0, off)
	}
	if index == 0 {
		return nil
	}
	return parent.Child(index - 1)
}

// Marks returns the marks text inserted at this position would receive.
// Inside a text node that node's marks apply. At a boundary the marks of the
// node before are used (after, at the start of a textblock), minus any
// non-inclusive mark the other neighbour does not share.
func (r *ResolvedPos) Marks() []Mark {
	parent := r.Parent()
	index := r.Index(r.Depth())
	if parent.ContentSize() == 0 {
		return nil
	}
	if r.textOffset() > 0 {
		return parent.Child(index).Marks
	}
	main, other := parent.maybeChild(index-1), parent.maybeChild(index)
	if main == nil {
		main, other = other, main
	}
	marks := main.Marks
	for _, m := range main.Marks {
		if MarkSpecFor(m.Type).Inclusive {
			continue
		}
		if other == nil || !m.IsInSet(other.Marks) {
			marks = m.RemoveFromSet(marks)
		}
	}
	return marks
}
