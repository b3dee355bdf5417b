package anchor

import (
	"testing"

	"chronicle/anchoring/internal/prosemirror"
)

func TestDecorations(t *testing.T) {
	// "ab" at 1..3, "cd efg" at 5..11
	doc := prosemirror.Doc(
		prosemirror.Paragraph(prosemirror.NewText("ab")),
		prosemirror.Paragraph(prosemirror.NewText("cd efg")),
	)
	comments := []Comment{
		{ID: "span", SelectedText: "b\ncd"},
		{ID: "span", SelectedText: "efg"},
		{ID: "tail", SelectedText: "EFG"},
		{ID: "missing", SelectedText: "nowhere"},
		{ID: "", SelectedText: "ab"},
	}
	got := Decorations(doc, comments, nil, nil)
	want := []Decoration{
		{Kind: Highlight, From: 2, To: 3, CommentID: "span"},
		{Kind: Highlight, From: 5, To: 7, CommentID: "span"},
		{Kind: Widget, From: 7, To: 7, CommentID: "span"},
		{Kind: Highlight, From: 8, To: 11, CommentID: "tail"},
		{Kind: Widget, From: 11, To: 11, CommentID: "tail"},
	}
	if len(got) != len(want) {
		t.Fatalf("Decorations() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("decoration %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDecorationsLeaveDocumentUntouched(t *testing.T) {
	doc := scenarioDoc()
	cache, err := NewTextCache(4)
	if err != nil {
		t.Fatalf("NewTextCache failed: %v", err)
	}
	Decorations(doc, []Comment{{ID: "c1", SelectedText: "quick"}}, SubstringLocator{}, cache)
	if len(CommentIDs(doc)) != 0 {
		t.Error("decorations must not add marks")
	}
	if cache.Len() != 1 {
		t.Errorf("expected the extraction to be cached, Len() = %d", cache.Len())
	}
	if got := Decorations(doc, nil, nil, cache); got != nil {
		t.Errorf("no comments should give no decorations, got %+v", got)
	}
}
