// Package anchor binds comments to spans of a rich-text document, keeps the
// bindings alive across edits and reports comments whose text was deleted.
package anchor

import (
	"strings"
	"unicode"

	"chronicle/anchoring/internal/prosemirror"
)

// Sentinel marks a flattened character that has no document position.
const Sentinel = -1

// Extraction is a document flattened to plain text. Positions holds one
// entry per rune of Text: the document position of that character, or
// Sentinel for synthetic separators.
type Extraction struct {
	Text      string
	Positions []int

	// Normalized is NormalizeForSearch(Text).
	Normalized string
	// normIndex maps each rune of Normalized to a rune index in Text.
	normIndex []int
}

// ExtractText flattens doc depth-first. Text contributes its characters, a
// line break contributes a space, and leaving a block contributes a newline
// unless the text already ends in one. Separators get Sentinel positions.
func ExtractText(doc *prosemirror.Node) *Extraction {
	x := &extractor{}
	x.walk(doc, 0)
	normalized, index := normalizeWithMap(x.text)
	return &Extraction{
		Text:       string(x.text),
		Positions:  x.positions,
		Normalized: string(normalized),
		normIndex:  index,
	}
}

type extractor struct {
	text      []rune
	positions []int
}

func (x *extractor) push(r rune, pos int) {
	x.text = append(x.text, r)
	x.positions = append(x.positions, pos)
}

func (x *extractor) walk(parent *prosemirror.Node, start int) {
	pos := start
	for _, child := range parent.Content {
		switch {
		case child.IsText():
			i := 0
			for _, r := range child.Text {
				x.push(r, pos+i)
				i++
			}
		case child.IsInline() && child.IsLeaf():
			if prosemirror.NodeSpecFor(child.Type).LeafText != "" {
				x.push(' ', Sentinel)
			}
		case !child.IsLeaf():
			x.walk(child, pos+1)
		}
		if child.IsBlock() && (len(x.text) == 0 || x.text[len(x.text)-1] != '\n') {
			x.push('\n', Sentinel)
		}
		pos += child.NodeSize()
	}
}

// NormalizeForSearch canonicalizes text for comparison: CRLF becomes LF,
// runs of spaces and tabs become one space, runs of newlines become one,
// surrounding whitespace is trimmed and letters are lowercased.
func NormalizeForSearch(text string) string {
	normalized, _ := normalizeWithMap([]rune(text))
	return string(normalized)
}

// normalizeWithMap normalizes s and returns, for every normalized rune, the
// index of the original rune it came from. A collapsed whitespace run maps
// to its last rune. Lowercasing is done rune by rune so the mapping stays 1:1.
func normalizeWithMap(s []rune) ([]rune, []int) {
	out := make([]rune, 0, len(s))
	index := make([]int, 0, len(s))
	isNewline := func(i int) bool {
		return s[i] == '\n' || s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n'
	}
	for i := 0; i < len(s); i++ {
		r := s[i]
		switch {
		case r == '\r' && i+1 < len(s) && s[i+1] == '\n':
			continue
		case r == ' ' || r == '\t':
			j := i
			for j+1 < len(s) && (s[j+1] == ' ' || s[j+1] == '\t') {
				j++
			}
			out = append(out, ' ')
			index = append(index, j)
			i = j
		case r == '\n':
			j := i
			for j+1 < len(s) && isNewline(j+1) {
				j++
			}
			out = append(out, '\n')
			index = append(index, j)
			i = j
		default:
			out = append(out, unicode.ToLower(r))
			index = append(index, i)
		}
	}

	start, end := 0, len(out)
	for start < end && unicode.IsSpace(out[start]) {
		start++
	}
	for end > start && unicode.IsSpace(out[end-1]) {
		end--
	}
	return out[start:end], index[start:end]
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}
