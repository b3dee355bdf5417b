package prosemirror

// Selection is a text selection between Anchor and Head.
type Selection struct {
	Anchor int
	Head   int
}

// Cursor is a collapsed selection at pos.
func Cursor(pos int) Selection {
	return Selection{Anchor: pos, Head: pos}
}

func (s Selection) From() int {
	return min(s.Anchor, s.Head)
}

func (s Selection) To() int {
	return max(s.Anchor, s.Head)
}

// Empty reports whether the selection is a collapsed caret.
func (s Selection) Empty() bool {
	return s.Anchor == s.Head
}

// ClickTarget is what a pointer event landed on: a document position and
// the data attributes of the rendered element under the pointer.
type ClickTarget struct {
	Pos   int
	Attrs map[string]string
}

// Point is a screen coordinate.
type Point struct {
	X float64
	Y float64
}

// Plugin hooks into state application and view events. Every hook is optional.
type Plugin struct {
	Key string
	// AppendTransaction may return a follow-up transaction for the batch
	// trs, which took oldState to newState.
	AppendTransaction func(trs []*Transaction, oldState, newState *State) *Transaction
	// AfterApply runs once the host has installed newState.
	AfterApply func(trs []*Transaction, oldState, newState *State)
	// HandleKeyDown returns true when it handled key and suppressed the default.
	HandleKeyDown func(state *State, dispatch func(*Transaction), key string) bool
	// HandleClick returns true when it handled the click.
	HandleClick func(state *State, target ClickTarget, at Point) bool
}

// State is an immutable editor state.
type State struct {
	Doc         *Node
	Selection   Selection
	StoredMarks []Mark
	Plugins     []*Plugin
}

// NewState builds a state with the caret at the start of the first textblock.
func NewState(doc *Node, plugins ...*Plugin) *State {
	return &State{Doc: doc, Selection: Cursor(startOfFirstTextblock(doc)), Plugins: plugins}
}

func startOfFirstTextblock(doc *Node) int {
	found := -1
	doc.Descendants(func(node *Node, pos int, _ *Node) bool {
		if found >= 0 {
			return false
		}
		if node.IsTextblock() {
			found = pos + 1
			return false
		}
		return true
	})
	if found < 0 {
		return 0
	}
	return found
}

// Tr starts a transaction on the state.
func (s *State) Tr() *Transaction {
	return &Transaction{
		base:   s,
		before: s.Doc,
		doc:    s.Doc,
	}
}

// ApplyTransaction applies tr and lets plugins append follow-up transactions
// until none do. It returns the resulting state and every applied transaction.
func (s *State) ApplyTransaction(root *Transaction) (*State, []*Transaction) {
	trs := []*Transaction{root}
	newState := s.apply(root)
	type seenState struct {
		state *State
		n     int
	}
	seen := make([]seenState, len(s.Plugins))
	for i := range seen {
		seen[i] = seenState{state: s}
	}
	for {
		appended := false
		for i, p := range s.Plugins {
			if p.AppendTransaction == nil || seen[i].n >= len(trs) {
				continue
			}
			tr := p.AppendTransaction(trs[seen[i].n:], seen[i].state, newState)
			seen[i] = seenState{state: newState, n: len(trs)}
			if tr == nil {
				continue
			}
			tr.SetMeta(MetaAppendedTransaction, root)
			trs = append(trs, tr)
			newState = newState.apply(tr)
			appended = true
		}
		if !appended {
			return newState, trs
		}
	}
}

func (s *State) apply(tr *Transaction) *State {
	stored := s.StoredMarks
	if tr.storedMarksSet {
		stored = tr.storedMarks
	} else if tr.DocChanged() || tr.selectionSet {
		stored = nil
	}
	return &State{
		Doc:         tr.doc,
		Selection:   tr.Selection(),
		StoredMarks: stored,
		Plugins:     s.Plugins,
	}
}

// MetaAppendedTransaction is set on transactions appended by plugins and
// holds the root transaction.
const MetaAppendedTransaction = "appendedTransaction"

// Transaction accumulates steps against a state.
type Transaction struct {
	base           *State
	before         *Node
	doc            *Node
	steps          []Step
	docs           []*Node
	mapping        Mapping
	selection      Selection
	selectionSet   bool
	storedMarks    []Mark
	storedMarksSet bool
	meta           map[string]any
}

// Step applies step to the current document.
func (tr *Transaction) Step(step Step) error {
	doc, err := step.Apply(tr.doc)
	if err != nil {
		return err
	}
	tr.steps = append(tr.steps, step)
	tr.docs = append(tr.docs, tr.doc)
	tr.mapping = append(tr.mapping, step.Map())
	tr.doc = doc
	return nil
}

func (tr *Transaction) AddMark(from, to int, m Mark) error {
	return tr.Step(AddMarkStep{From: from, To: to, Mark: m})
}

func (tr *Transaction) RemoveMark(from, to int, m Mark) error {
	return tr.Step(RemoveMarkStep{From: from, To: to, Mark: m})
}

func (tr *Transaction) Replace(from, to int, content ...*Node) error {
	return tr.Step(ReplaceStep{From: from, To: to, Content: content})
}

func (tr *Transaction) Delete(from, to int) error {
	return tr.Replace(from, to)
}

// InsertText replaces [from, to) with text. The text takes the stored marks,
// or the marks typing at from would receive.
func (tr *Transaction) InsertText(text string, from, to int) error {
	if from != to {
		if err := tr.Delete(from, to); err != nil {
			return err
		}
	}
	if text == "" {
		return nil
	}
	marks := tr.storedMarks
	if !tr.storedMarksSet {
		if tr.base.StoredMarks != nil && !tr.DocChanged() {
			marks = tr.base.StoredMarks
		} else {
			r, err := tr.doc.Resolve(from)
			if err != nil {
				return err
			}
			marks = r.Marks()
		}
	}
	return tr.Replace(from, from, &Node{Type: "text", Text: text, Marks: marks})
}

func (tr *Transaction) SetSelection(sel Selection) {
	tr.selection = sel
	tr.selectionSet = true
}

// Selection returns the explicit selection, or the base selection mapped
// through the transaction's steps.
func (tr *Transaction) Selection() Selection {
	if tr.selectionSet {
		return tr.selection
	}
	size := tr.doc.ContentSize()
	clamp := func(pos int) int {
		return min(max(pos, 0), size)
	}
	sel := tr.base.Selection
	return Selection{
		Anchor: clamp(tr.mapping.Map(sel.Anchor, 1)),
		Head:   clamp(tr.mapping.Map(sel.Head, 1)),
	}
}

func (tr *Transaction) SetStoredMarks(marks []Mark) {
	tr.storedMarks = marks
	tr.storedMarksSet = true
}

func (tr *Transaction) SetMeta(key string, value any) {
	if tr.meta == nil {
		tr.meta = make(map[string]any)
	}
	tr.meta[key] = value
}

func (tr *Transaction) Meta(key string) any {
	return tr.meta[key]
}

// DocChanged reports whether any step changed the document.
func (tr *Transaction) DocChanged() bool {
	return len(tr.steps) > 0
}

func (tr *Transaction) Doc() *Node {
	return tr.doc
}

func (tr *Transaction) Before() *Node {
	return tr.before
}

func (tr *Transaction) Steps() []Step {
	return tr.steps
}

// DocBefore returns the document step i was applied to.
func (tr *Transaction) DocBefore(i int) *Node {
	return tr.docs[i]
}
