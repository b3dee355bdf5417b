package prosemirror

// Key names understood by the default keymap.
const (
	KeyBackspace = "Backspace"
	KeyDelete    = "Delete"
)

// Command builds a transaction for state. It returns nil when it does not
// apply.
type Command func(state *State) (*Transaction, error)

// DeleteSelection deletes a non-empty selection.
func DeleteSelection(state *State) (*Transaction, error) {
	sel := state.Selection
	if sel.Empty() {
		return nil, nil
	}
	tr := state.Tr()
	if err := tr.Delete(sel.From(), sel.To()); err != nil {
		return nil, err
	}
	tr.SetSelection(Cursor(sel.From()))
	return tr, nil
}

// DeleteBackward deletes the selection, or the character before the caret,
// or joins the textblock with a preceding sibling textblock.
func DeleteBackward(state *State) (*Transaction, error) {
	if !state.Selection.Empty() {
		return DeleteSelection(state)
	}
	pos := state.Selection.Head
	r, err := state.Doc.Resolve(pos)
	if err != nil {
		return nil, err
	}
	if !r.Parent().IsTextblock() {
		return nil, nil
	}
	from := pos - 1
	if r.ParentOffset == 0 {
		depth := r.Depth()
		prev := r.Node(depth - 1).maybeChild(r.Index(depth-1) - 1)
		if prev == nil || !prev.IsTextblock() {
			return nil, nil
		}
		from = pos - 2
	}
	tr := state.Tr()
	if err := tr.Delete(from, pos); err != nil {
		return nil, err
	}
	tr.SetSelection(Cursor(from))
	return tr, nil
}

// DeleteForward deletes the selection, or the character after the caret,
// or joins the following sibling textblock into this one.
func DeleteForward(state *State) (*Transaction, error) {
	if !state.Selection.Empty() {
		return DeleteSelection(state)
	}
	pos := state.Selection.Head
	r, err := state.Doc.Resolve(pos)
	if err != nil {
		return nil, err
	}
	if !r.Parent().IsTextblock() {
		return nil, nil
	}
	to := pos + 1
	if r.ParentOffset == r.Parent().ContentSize() {
		depth := r.Depth()
		next := r.Node(depth - 1).maybeChild(r.Index(depth-1) + 1)
		if next == nil || !next.IsTextblock() {
			return nil, nil
		}
		to = pos + 2
	}
	tr := state.Tr()
	if err := tr.Delete(pos, to); err != nil {
		return nil, err
	}
	tr.SetSelection(Cursor(pos))
	return tr, nil
}

// InsertTextCommand replaces the selection with text and leaves the caret
// after it.
func InsertTextCommand(text string) Command {
	return func(state *State) (*Transaction, error) {
		sel := state.Selection
		tr := state.Tr()
		if err := tr.InsertText(text, sel.From(), sel.To()); err != nil {
			return nil, err
		}
		tr.SetSelection(Cursor(sel.From() + len([]rune(text))))
		return tr, nil
	}
}

// DefaultKeymap maps key names to the engine's built-in commands.
var DefaultKeymap = map[string]Command{
	KeyBackspace: DeleteBackward,
	KeyDelete:    DeleteForward,
}
