package anchor

import (
	"testing"

	"chronicle/anchoring/internal/prosemirror"
)

func TestComputeBadgesOnePerComment(t *testing.T) {
	// "ab" <br> "cd" in one paragraph: a=1 b=2 br=3 c=4 d=5
	doc := prosemirror.Doc(
		prosemirror.Paragraph(prosemirror.NewText("ab"), prosemirror.HardBreak(), prosemirror.NewText("cd")),
		prosemirror.Paragraph(prosemirror.NewText("efgh")),
	)
	state := boundState(t, doc, []binding{
		{"split", 1, 6},
		{"later", 8, 10},
		{"also", 2, 3},
	})

	badges := ComputeBadges(state.Doc)
	want := []Badge{
		{CommentID: "also", Pos: 3},
		{CommentID: "split", Pos: 6},
		{CommentID: "later", Pos: 10},
	}
	if len(badges) != len(want) {
		t.Fatalf("ComputeBadges() = %+v, want %+v", badges, want)
	}
	for i := range want {
		if badges[i] != want[i] {
			t.Errorf("badge %d = %+v, want %+v", i, badges[i], want[i])
		}
	}

	spans := Spans(state.Doc)
	if len(spans) != 3 || spans[0] != (Span{CommentID: "split", From: 1, To: 6}) {
		t.Errorf("Spans() = %+v", spans)
	}
}

func TestComputeBadgesEmptyDoc(t *testing.T) {
	if badges := ComputeBadges(prosemirror.Doc(prosemirror.Paragraph())); len(badges) != 0 {
		t.Errorf("expected no badges, got %+v", badges)
	}
}
