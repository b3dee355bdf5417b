package anchor

import (
	"testing"

	"chronicle/anchoring/internal/prosemirror"
)

func TestResolveRange(t *testing.T) {
	doc := prosemirror.Doc(
		prosemirror.Paragraph(prosemirror.NewText("ab")),
		prosemirror.Paragraph(prosemirror.NewText("c"), prosemirror.HardBreak(), prosemirror.NewText("d")),
	)
	ext := ExtractText(doc)

	tests := []struct {
		name   string
		match  Match
		want   Range
		ok     bool
		ranges []Range
	}{
		{"across blocks", Match{Index: 1, Length: 3}, Range{From: 2, To: 6}, true, []Range{{2, 3}, {5, 6}}},
		{"across line break", Match{Index: 3, Length: 3}, Range{From: 5, To: 8}, true, []Range{{5, 6}, {7, 8}}},
		{"single run", Match{Index: 0, Length: 2}, Range{From: 1, To: 3}, true, []Range{{1, 3}}},
		{"separator only", Match{Index: 2, Length: 1}, Range{}, false, nil},
		{"out of bounds", Match{Index: 4, Length: 9}, Range{}, false, nil},
		{"empty", Match{Index: 0, Length: 0}, Range{}, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveRange(tt.match, ext)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ResolveRange() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
			ranges := ResolveRanges(tt.match, ext)
			if len(ranges) != len(tt.ranges) {
				t.Fatalf("ResolveRanges() = %+v, want %+v", ranges, tt.ranges)
			}
			for i := range ranges {
				if ranges[i] != tt.ranges[i] {
					t.Errorf("ResolveRanges() = %+v, want %+v", ranges, tt.ranges)
				}
			}
		})
	}
}

func TestResolvedRangeReadsBackSelectedText(t *testing.T) {
	doc := scenarioDoc()
	ext := ExtractText(doc)
	m, ok := Locate("quick brown fox", ext.Normalized)
	if !ok {
		t.Fatal("expected a match")
	}
	r, ok := ResolveRange(m, ext)
	if !ok {
		t.Fatal("expected a range")
	}
	if r != (Range{From: 5, To: 20}) {
		t.Errorf("range = %+v", r)
	}
	if got := doc.TextBetween(r.From, r.To, "\n"); got != "quick brown fox" {
		t.Errorf("text at range = %q", got)
	}
}
