package anchor

import (
	"sort"

	"chronicle/anchoring/internal/prosemirror"
)

type DecorationKind int

const (
	// Highlight covers [From, To) inline.
	Highlight DecorationKind = iota
	// Widget is a zero-width badge at From.
	Widget
)

// Decoration is an overlay computed from the document text rather than
// stored in it.
type Decoration struct {
	Kind      DecorationKind
	From      int
	To        int
	CommentID string
}

// Decorations locates every comment in doc and returns highlights split at
// block boundaries plus one badge widget after each comment's last range.
// Comments that cannot be located get nothing. The search reruns on every
// call; cache keeps the extraction per snapshot.
func Decorations(doc *prosemirror.Node, comments []Comment, locator Locator, cache *TextCache) []Decoration {
	if len(comments) == 0 {
		return nil
	}
	if locator == nil {
		locator = SubstringLocator{}
	}
	ext := cache.Extract(doc)
	var decorations []Decoration
	seen := make(map[string]struct{}, len(comments))
	for _, c := range comments {
		if _, dup := seen[c.ID]; dup || c.ID == "" {
			continue
		}
		seen[c.ID] = struct{}{}
		m, ok := locator.Locate(c.SelectedText, ext.Normalized)
		if !ok {
			continue
		}
		ranges := ResolveRanges(m, ext)
		if len(ranges) == 0 {
			continue
		}
		for _, r := range ranges {
			decorations = append(decorations, Decoration{Kind: Highlight, From: r.From, To: r.To, CommentID: c.ID})
		}
		end := ranges[len(ranges)-1].To
		decorations = append(decorations, Decoration{Kind: Widget, From: end, To: end, CommentID: c.ID})
	}
	sort.SliceStable(decorations, func(i, j int) bool {
		if decorations[i].From != decorations[j].From {
			return decorations[i].From < decorations[j].From
		}
		return decorations[i].Kind < decorations[j].Kind
	})
	return decorations
}
