package anchor

import (
	"sort"

	"chronicle/anchoring/internal/prosemirror"
)

// Badge is the single marker rendered for an anchored comment.
type Badge struct {
	CommentID string
	Pos       int
}

// ComputeBadges returns one badge per anchored comment, placed at the end
// of the last text run carrying its mark. Badges are ordered by position.
func ComputeBadges(doc *prosemirror.Node) []Badge {
	ends := make(map[string]int)
	doc.Descendants(func(node *prosemirror.Node, pos int, _ *prosemirror.Node) bool {
		if !node.IsText() {
			return true
		}
		end := pos + node.NodeSize()
		for _, id := range commentIDsOf(node.Marks) {
			if cur, ok := ends[id]; !ok || end > cur {
				ends[id] = end
			}
		}
		return true
	})
	badges := make([]Badge, 0, len(ends))
	for id, pos := range ends {
		badges = append(badges, Badge{CommentID: id, Pos: pos})
	}
	sort.Slice(badges, func(i, j int) bool {
		if badges[i].Pos != badges[j].Pos {
			return badges[i].Pos < badges[j].Pos
		}
		return badges[i].CommentID < badges[j].CommentID
	})
	return badges
}

// Span is the extent of one comment's anchor: from the first to the last
// character carrying its mark. An anchor split by other content still has
// a single span.
type Span struct {
	CommentID string `json:"id"`
	From      int    `json:"from"`
	To        int    `json:"to"`
}

// Spans returns the span of every anchored comment, ordered by start.
func Spans(doc *prosemirror.Node) []Span {
	byID := make(map[string]*Span)
	doc.Descendants(func(node *prosemirror.Node, pos int, _ *prosemirror.Node) bool {
		if !node.IsText() {
			return true
		}
		end := pos + node.NodeSize()
		for _, id := range commentIDsOf(node.Marks) {
			if s, ok := byID[id]; ok {
				s.From = min(s.From, pos)
				s.To = max(s.To, end)
				continue
			}
			byID[id] = &Span{CommentID: id, From: pos, To: end}
		}
		return true
	})
	spans := make([]Span, 0, len(byID))
	for _, s := range byID {
		spans = append(spans, *s)
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].From != spans[j].From {
			return spans[i].From < spans[j].From
		}
		return spans[i].CommentID < spans[j].CommentID
	})
	return spans
}
