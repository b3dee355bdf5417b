package anchor

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"chronicle/anchoring/internal/prosemirror"
)

func TestRehydrateRoundTrip(t *testing.T) {
	var logs bytes.Buffer
	h := &Rehydrator{Logger: log.New(&logs, "", 0)}
	state := prosemirror.NewState(scenarioDoc())
	comments := []Comment{
		{ID: "c1", SelectedText: "quick brown fox"},
		{ID: "c2", SelectedText: "JUMPS   over"},
		{ID: "c3", SelectedText: "not in the document"},
		{ID: "c4", SelectedText: "ju"},
	}

	tr, report := h.Rehydrate(state, comments)
	if tr == nil {
		t.Fatal("expected a transaction")
	}
	if !equalStrings(report.Bound, []string{"c1", "c2"}) {
		t.Errorf("Bound = %v", report.Bound)
	}
	if !equalStrings(report.Unlocated, []string{"c3", "c4"}) {
		t.Errorf("Unlocated = %v", report.Unlocated)
	}
	if !strings.Contains(logs.String(), "comment c3 could not be relocated") {
		t.Errorf("expected unlocated comment to be logged, got %q", logs.String())
	}
	if meta, ok := tr.Meta(MetaRehydrate).(Report); !ok || len(meta.Bound) != 2 {
		t.Errorf("MetaRehydrate = %+v", tr.Meta(MetaRehydrate))
	}

	next, _ := apply(t, state, tr)
	for _, span := range Spans(next.Doc) {
		var selected string
		for _, c := range comments {
			if c.ID == span.CommentID {
				selected = c.SelectedText
			}
		}
		got := NormalizeForSearch(next.Doc.TextBetween(span.From, span.To, "\n"))
		if got != NormalizeForSearch(selected) {
			t.Errorf("%s reads back %q, want %q", span.CommentID, got, NormalizeForSearch(selected))
		}
	}
	spans := Spans(next.Doc)
	if len(spans) != 2 || spans[0] != (Span{CommentID: "c1", From: 5, To: 20}) {
		t.Errorf("Spans() = %+v", spans)
	}
}

func TestRehydrateIsIdempotent(t *testing.T) {
	state := prosemirror.NewState(scenarioDoc())
	comments := []Comment{{ID: "c1", SelectedText: "quick brown fox"}}

	tr, _ := Rehydrate(state, comments)
	state, _ = apply(t, state, tr)

	again, report := Rehydrate(state, comments)
	if again != nil {
		t.Error("second pass should produce no transaction")
	}
	if len(report.Bound) != 0 || len(report.Removed) != 0 {
		t.Errorf("second pass report = %+v", report)
	}
	if badges := ComputeBadges(state.Doc); len(badges) != 1 {
		t.Errorf("expected one badge, got %+v", badges)
	}
}

func TestRehydrateRemovesUnwantedAnchors(t *testing.T) {
	state := boundState(t, scenarioDoc(), []binding{{"c1", 5, 20}, {"gone", 22, 27}})
	tr, report := Rehydrate(state, []Comment{{ID: "c1", SelectedText: "quick brown fox"}})
	if !equalStrings(report.Removed, []string{"gone"}) {
		t.Errorf("Removed = %v", report.Removed)
	}
	next, _ := apply(t, state, tr)
	if ids := CommentIDs(next.Doc); !equalStrings(ids, []string{"c1"}) {
		t.Errorf("CommentIDs() = %v", ids)
	}
}

func TestRehydrateCachedPositions(t *testing.T) {
	// "the cat and the cat": the second "cat" spans 17..20
	doc := prosemirror.Doc(prosemirror.Paragraph(prosemirror.NewText("the cat and the cat")))

	tests := []struct {
		name       string
		comment    Comment
		wantSpan   Span
		wantCached bool
	}{
		{
			name:       "cached positions still match",
			comment:    Comment{ID: "c1", SelectedText: "Cat", From: intPtr(17), To: intPtr(20)},
			wantSpan:   Span{CommentID: "c1", From: 17, To: 20},
			wantCached: true,
		},
		{
			name:     "stale positions fall back to search",
			comment:  Comment{ID: "c1", SelectedText: "cat", From: intPtr(1), To: intPtr(4)},
			wantSpan: Span{CommentID: "c1", From: 5, To: 8},
		},
		{
			name:     "out of range positions fall back to search",
			comment:  Comment{ID: "c1", SelectedText: "cat", From: intPtr(17), To: intPtr(99)},
			wantSpan: Span{CommentID: "c1", From: 5, To: 8},
		},
		{
			name:     "cached selection below the minimum",
			comment:  Comment{ID: "c1", SelectedText: "ca", From: intPtr(17), To: intPtr(19)},
			wantSpan: Span{},
		},
		{
			name:     "no cached positions",
			comment:  Comment{ID: "c1", SelectedText: "cat"},
			wantSpan: Span{CommentID: "c1", From: 5, To: 8},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := prosemirror.NewState(doc)
			tr, report := Rehydrate(state, []Comment{tt.comment})
			if tt.wantSpan == (Span{}) {
				if tr != nil || !equalStrings(report.Unlocated, []string{"c1"}) {
					t.Errorf("expected c1 to stay unanchored, got tr %v report %+v", tr != nil, report)
				}
				return
			}
			next, _ := apply(t, state, tr)
			spans := Spans(next.Doc)
			if len(spans) != 1 || spans[0] != tt.wantSpan {
				t.Errorf("Spans() = %+v, want %+v", spans, tt.wantSpan)
			}
			if cached := len(report.Cached) == 1; cached != tt.wantCached {
				t.Errorf("Cached = %v, want cached %v", report.Cached, tt.wantCached)
			}
		})
	}
}

func TestRehydrateFirstLineFallback(t *testing.T) {
	state := prosemirror.NewState(scenarioDoc())
	tr, report := Rehydrate(state, []Comment{{ID: "c1", SelectedText: "quick brown fox\nleaps over the dog"}})
	if !equalStrings(report.Bound, []string{"c1"}) {
		t.Fatalf("Bound = %v", report.Bound)
	}
	next, _ := apply(t, state, tr)
	spans := Spans(next.Doc)
	if len(spans) != 1 || next.Doc.TextBetween(spans[0].From, spans[0].To, "\n") != "quick brown fox" {
		t.Errorf("Spans() = %+v", spans)
	}
}

func TestRehydrateUsesCacheOncePerPass(t *testing.T) {
	cache, err := NewTextCache(4)
	if err != nil {
		t.Fatalf("NewTextCache failed: %v", err)
	}
	h := &Rehydrator{Cache: cache, Locator: DiffLocator{}}
	state := prosemirror.NewState(scenarioDoc())
	_, report := h.Rehydrate(state, []Comment{
		{ID: "a", SelectedText: "quick"},
		{ID: "b", SelectedText: "jumps"},
		{ID: "a", SelectedText: "duplicate id"},
	})
	if !equalStrings(report.Bound, []string{"a", "b"}) {
		t.Errorf("Bound = %v", report.Bound)
	}
	if cache.Len() != 1 {
		t.Errorf("expected one cached extraction, got %d", cache.Len())
	}
}

func TestRehydrateSelectionAcrossLineBreak(t *testing.T) {
	// "first line here" 1..16, break at 16, "second line here" 17..33
	doc := prosemirror.Doc(prosemirror.Paragraph(
		prosemirror.NewText("first line here"), prosemirror.HardBreak(), prosemirror.NewText("second line here"),
	))
	selected := doc.TextBetween(1, doc.ContentSize()-1, "\n")

	tests := []struct {
		name    string
		comment Comment
	}{
		{"searched", Comment{ID: "c1", SelectedText: selected}},
		{"cached", Comment{ID: "c1", SelectedText: selected, From: intPtr(1), To: intPtr(33)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := prosemirror.NewState(doc)
			tr, report := Rehydrate(state, []Comment{tt.comment})
			if !equalStrings(report.Bound, []string{"c1"}) {
				t.Fatalf("Bound = %v, Unlocated = %v", report.Bound, report.Unlocated)
			}
			next, _ := apply(t, state, tr)
			spans := Spans(next.Doc)
			if len(spans) != 1 || spans[0] != (Span{CommentID: "c1", From: 1, To: 33}) {
				t.Fatalf("Spans() = %+v", spans)
			}
			if got := next.Doc.TextBetween(spans[0].From, spans[0].To, "\n"); got != selected {
				t.Errorf("anchor reads back %q, want %q", got, selected)
			}
			badges := ComputeBadges(next.Doc)
			if len(badges) != 1 || badges[0].Pos != 33 {
				t.Errorf("ComputeBadges() = %+v, want one badge at 33", badges)
			}
		})
	}
}
