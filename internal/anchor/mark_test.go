package anchor

import (
	"testing"

	"chronicle/anchoring/internal/prosemirror"
)

func TestBindAndUnbindCoexistingAnchors(t *testing.T) {
	state := boundState(t, scenarioDoc(), []binding{
		{"c1", 5, 16}, // quick brown
		{"c2", 11, 20}, // brown fox
	})
	if got := CommentIDs(state.Doc); !equalStrings(got, []string{"c1", "c2"}) {
		t.Fatalf("CommentIDs() = %v", got)
	}

	var shared *prosemirror.Node
	state.Doc.Descendants(func(node *prosemirror.Node, pos int, _ *prosemirror.Node) bool {
		if node.IsText() && pos == 11 {
			shared = node
		}
		return true
	})
	if shared == nil || shared.Text != "brown" || len(commentIDsOf(shared.Marks)) != 2 {
		t.Fatalf("overlap should carry both anchors, got %+v", shared)
	}

	tr, err := Unbind(state, "c1")
	if err != nil {
		t.Fatalf("Unbind failed: %v", err)
	}
	next, _ := apply(t, state, tr)
	if got := CommentIDs(next.Doc); !equalStrings(got, []string{"c2"}) {
		t.Errorf("after unbind CommentIDs() = %v, want [c2]", got)
	}
	if next.Doc.TextContent() != state.Doc.TextContent() {
		t.Error("unbinding changed the text")
	}
	if spans := Spans(next.Doc); len(spans) != 1 || spans[0] != (Span{CommentID: "c2", From: 11, To: 20}) {
		t.Errorf("Spans() = %+v", spans)
	}
}

func TestUnbindRemovesEveryRun(t *testing.T) {
	// c1 split by a line break is two runs with one id
	doc := prosemirror.Doc(prosemirror.Paragraph(
		prosemirror.NewText("ab"), prosemirror.HardBreak(), prosemirror.NewText("cd"),
	))
	state := boundState(t, doc, []binding{{"c1", 1, 6}})
	tr, err := Unbind(state, "c1")
	if err != nil {
		t.Fatalf("Unbind failed: %v", err)
	}
	next, _ := apply(t, state, tr)
	if ids := CommentIDs(next.Doc); len(ids) != 0 {
		t.Errorf("expected no anchors, got %v", ids)
	}
	if !next.Doc.Equal(doc) {
		t.Error("expected the original document back")
	}
}

func TestUnbindUnknownIDIsNoop(t *testing.T) {
	state := boundState(t, scenarioDoc(), []binding{{"c1", 5, 10}})
	tr, err := Unbind(state, "missing")
	if err != nil {
		t.Fatalf("Unbind failed: %v", err)
	}
	if tr.DocChanged() {
		t.Error("unbinding an unknown id should add no steps")
	}
}

func TestBindRejectsEmptyRange(t *testing.T) {
	state := prosemirror.NewState(scenarioDoc())
	if _, err := Bind(state, "c1", 5, 5); err == nil {
		t.Error("expected an error for an empty range")
	}
	if _, err := Bind(state, "c1", 5, 500); err == nil {
		t.Error("expected an error for an out-of-range bind")
	}
}

func TestStripAnchors(t *testing.T) {
	doc := scenarioDoc()
	state := boundState(t, doc, []binding{{"c1", 5, 10}, {"c2", 22, 27}})
	stripped, err := StripAnchors(state.Doc)
	if err != nil {
		t.Fatalf("StripAnchors failed: %v", err)
	}
	if !stripped.Equal(doc) {
		t.Error("expected every anchor removed")
	}
}

func TestCommentIDOf(t *testing.T) {
	if id, ok := CommentIDOf(CommentMark("c9")); !ok || id != "c9" {
		t.Errorf("CommentIDOf(comment) = %q, %v", id, ok)
	}
	if _, ok := CommentIDOf(prosemirror.NewMark("bold", nil)); ok {
		t.Error("bold is not a comment")
	}
	if _, ok := CommentIDOf(prosemirror.NewMark(MarkType, nil)); ok {
		t.Error("a comment mark without id should be ignored")
	}
}
