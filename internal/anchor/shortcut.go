package anchor

import "chronicle/anchoring/internal/prosemirror"

// MetaShortcut is set on transactions produced by the deletion shortcut.
const MetaShortcut = "commentShortcut"

// DeletionShortcut turns Backspace (Delete) next to an anchor into removal of
// that whole anchor. Only a collapsed caret qualifies, the character before
// (after) it must carry a comment mark, and the text itself is kept.
func DeletionShortcut() *prosemirror.Plugin {
	return &prosemirror.Plugin{
		Key: "commentDeletionShortcut",
		HandleKeyDown: func(state *prosemirror.State, dispatch func(*prosemirror.Transaction), key string) bool {
			if key != prosemirror.KeyBackspace && key != prosemirror.KeyDelete {
				return false
			}
			if !state.Selection.Empty() {
				return false
			}
			r, err := state.Doc.Resolve(state.Selection.Head)
			if err != nil {
				return false
			}
			adjacent := r.NodeBefore()
			if key == prosemirror.KeyDelete {
				adjacent = r.NodeAfter()
			}
			if adjacent == nil || !adjacent.IsText() {
				return false
			}
			ids := commentIDsOf(adjacent.Marks)
			if len(ids) == 0 {
				return false
			}
			tr := state.Tr()
			for _, id := range ids {
				if err := UnbindTr(tr, id); err != nil {
					return false
				}
			}
			tr.SetMeta(MetaShortcut, ids)
			dispatch(tr)
			return true
		},
	}
}

// ClickHandler routes clicks on rendered anchors and badges to onClick with
// the comment id read back from the element's data attribute.
func ClickHandler(onClick func(id string, at prosemirror.Point)) *prosemirror.Plugin {
	return &prosemirror.Plugin{
		Key: "commentClick",
		HandleClick: func(_ *prosemirror.State, target prosemirror.ClickTarget, at prosemirror.Point) bool {
			id := target.Attrs[DataAttr]
			if id == "" || onClick == nil {
				return false
			}
			onClick(id, at)
			return true
		},
	}
}
