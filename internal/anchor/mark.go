package anchor

import (
	"fmt"
	"sort"

	"chronicle/anchoring/internal/prosemirror"
)

const (
	// MarkType is the mark that realizes an anchor inside the document.
	MarkType = "comment"
	// AttrCommentID is the mark attribute holding the comment id.
	AttrCommentID = "commentId"
	// DataAttr is the attribute rendered wrappers and badges carry.
	DataAttr = "data-comment-id"
)

func init() {
	// Anchors neither grow when typing at their edges nor displace other
	// marks, including other comments.
	prosemirror.RegisterMark(MarkType, prosemirror.MarkSpec{
		Inclusive:    false,
		ExcludesSelf: false,
		DOMAttrs: func(m prosemirror.Mark) map[string]string {
			return map[string]string{DataAttr: m.Attr(AttrCommentID)}
		},
	})
}

// CommentMark builds the anchor mark for a comment id.
func CommentMark(id string) prosemirror.Mark {
	return prosemirror.NewMark(MarkType, map[string]any{AttrCommentID: id})
}

// CommentIDOf returns the comment id carried by m.
func CommentIDOf(m prosemirror.Mark) (string, bool) {
	if m.Type != MarkType {
		return "", false
	}
	id := m.Attr(AttrCommentID)
	return id, id != ""
}

func commentIDsOf(marks []prosemirror.Mark) []string {
	var ids []string
	for _, m := range marks {
		if id, ok := CommentIDOf(m); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// CommentIDs returns the distinct comment ids anchored in doc, sorted.
func CommentIDs(doc *prosemirror.Node) []string {
	set := commentIDSet(doc)
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func commentIDSet(doc *prosemirror.Node) map[string]struct{} {
	set := make(map[string]struct{})
	doc.Descendants(func(node *prosemirror.Node, _ int, _ *prosemirror.Node) bool {
		for _, id := range commentIDsOf(node.Marks) {
			set[id] = struct{}{}
		}
		return true
	})
	return set
}

// BindTr adds the anchor for id over [from, to) to tr.
func BindTr(tr *prosemirror.Transaction, id string, from, to int) error {
	if from >= to {
		return fmt.Errorf("bind %s: empty range %d..%d", id, from, to)
	}
	if err := tr.AddMark(from, to, CommentMark(id)); err != nil {
		return fmt.Errorf("bind %s: %w", id, err)
	}
	return nil
}

// UnbindTr strips every anchor mark for id from the whole document. Removal
// is keyed by the id, not by a range, since edits may have moved the anchor.
func UnbindTr(tr *prosemirror.Transaction, id string) error {
	doc := tr.Doc()
	var marks []prosemirror.Mark
	doc.Descendants(func(node *prosemirror.Node, _ int, _ *prosemirror.Node) bool {
		for _, m := range node.Marks {
			if markID, ok := CommentIDOf(m); ok && markID == id && !m.IsInSet(marks) {
				marks = append(marks, m)
			}
		}
		return true
	})
	for _, m := range marks {
		if err := tr.RemoveMark(0, doc.ContentSize(), m); err != nil {
			return fmt.Errorf("unbind %s: %w", id, err)
		}
	}
	return nil
}

// Bind returns a transaction anchoring id over [from, to).
func Bind(state *prosemirror.State, id string, from, to int) (*prosemirror.Transaction, error) {
	tr := state.Tr()
	if err := BindTr(tr, id, from, to); err != nil {
		return nil, err
	}
	return tr, nil
}

// Unbind returns a transaction removing the anchor for id.
func Unbind(state *prosemirror.State, id string) (*prosemirror.Transaction, error) {
	tr := state.Tr()
	if err := UnbindTr(tr, id); err != nil {
		return nil, err
	}
	return tr, nil
}

// StripAnchors returns doc without any comment marks, for contexts where
// anchors must not outlive the editing session.
func StripAnchors(doc *prosemirror.Node) (*prosemirror.Node, error) {
	tr := prosemirror.NewState(doc).Tr()
	for _, id := range CommentIDs(doc) {
		if err := UnbindTr(tr, id); err != nil {
			return nil, err
		}
	}
	return tr.Doc(), nil
}
