package prosemirror

import "sync"

// NodeSpec describes how a node type behaves structurally.
type NodeSpec struct {
	Inline    bool
	Leaf      bool
	Textblock bool
	// LeafText is what reading text out of the document yields for an
	// inline leaf. A line break reads as a space, as it does in search.
	LeafText string
}

// MarkSpec describes how a mark type behaves under editing.
type MarkSpec struct {
	// Inclusive marks extend to text typed at their boundaries.
	Inclusive bool
	// ExcludesSelf marks replace an existing mark of the same type
	// instead of coexisting with it.
	ExcludesSelf bool
	// DOMAttrs returns the data attributes a rendered wrapper carries.
	DOMAttrs func(m Mark) map[string]string

	rank int
}

type schema struct {
	mu    sync.RWMutex
	nodes map[string]NodeSpec
	marks map[string]MarkSpec
}

var defaultSchema = newSchema()

func newSchema() *schema {
	s := &schema{
		nodes: map[string]NodeSpec{
			"doc":            {},
			"paragraph":      {Textblock: true},
			"heading":        {Textblock: true},
			"codeBlock":      {Textblock: true},
			"blockquote":     {},
			"bulletList":     {},
			"orderedList":    {},
			"listItem":       {},
			"table":          {},
			"tableRow":       {},
			"tableCell":      {},
			"tableHeader":    {},
			"horizontalRule": {Leaf: true},
			"hardBreak":      {Inline: true, Leaf: true, LeafText: " "},
			"image":          {Inline: true, Leaf: true},
			"text":           {Inline: true},
		},
		marks: map[string]MarkSpec{},
	}
	for _, name := range []string{"link", "bold", "italic", "code", "strike", "underline"} {
		s.registerMark(name, MarkSpec{Inclusive: name != "link", ExcludesSelf: true})
	}
	return s
}

func (s *schema) registerMark(name string, spec MarkSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.marks[name]; ok {
		spec.rank = existing.rank
	} else {
		spec.rank = len(s.marks)
	}
	s.marks[name] = spec
}

// RegisterMark adds or replaces a mark type in the schema. Intended to be
// called from package init.
func RegisterMark(name string, spec MarkSpec) {
	defaultSchema.registerMark(name, spec)
}

// NodeSpecFor returns the spec for a node type. Unknown types behave as
// block containers.
func NodeSpecFor(name string) NodeSpec {
	defaultSchema.mu.RLock()
	defer defaultSchema.mu.RUnlock()
	return defaultSchema.nodes[name]
}

// MarkSpecFor returns the spec for a mark type. Unknown marks are
// inclusive and exclude themselves, and rank after every known mark.
func MarkSpecFor(name string) MarkSpec {
	defaultSchema.mu.RLock()
	defer defaultSchema.mu.RUnlock()
	spec, ok := defaultSchema.marks[name]
	if !ok {
		return MarkSpec{Inclusive: true, ExcludesSelf: true, rank: len(defaultSchema.marks)}
	}
	return spec
}
