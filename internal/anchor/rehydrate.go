package anchor

import (
	"log"
	"unicode/utf8"

	"chronicle/anchoring/internal/prosemirror"
)

// Comment is the host's record of a comment, as handed to the editor.
type Comment struct {
	ID           string `json:"id"`
	SelectedText string `json:"selectedText"`
	// From and To are the last known anchor positions, if any.
	From *int `json:"from,omitempty"`
	To   *int `json:"to,omitempty"`
}

// MetaRehydrate is set on rehydration transactions and holds the Report.
const MetaRehydrate = "commentRehydrate"

// Report summarizes one rehydration pass.
type Report struct {
	// Removed are anchors stripped because the host no longer wants them.
	Removed []string
	// Bound are comments anchored in this pass.
	Bound []string
	// Cached are the subset of Bound anchored at their cached positions.
	Cached []string
	// Unlocated are comments that could not be found; they stay unanchored
	// until the next pass.
	Unlocated []string
}

// Rehydrator converts host comment records into live anchors.
type Rehydrator struct {
	Locator Locator
	// MinLength is the shortest selection bound at its cached positions;
	// zero means MinMatchLength.
	MinLength int
	Cache     *TextCache
	Logger    *log.Logger
}

// Rehydrate builds one transaction reconciling the anchors in state with
// wanted: anchors for unwanted ids are removed and wanted comments that are
// not yet anchored are located and bound. It returns a nil transaction when
// nothing needs to change.
func (h *Rehydrator) Rehydrate(state *prosemirror.State, wanted []Comment) (*prosemirror.Transaction, Report) {
	logger := h.Logger
	if logger == nil {
		logger = log.Default()
	}
	locator := h.Locator
	if locator == nil {
		locator = SubstringLocator{}
	}
	minLength := h.MinLength
	if minLength <= 0 {
		minLength = MinMatchLength
	}

	var report Report
	doc := state.Doc
	existing := commentIDSet(doc)
	wantedIDs := make(map[string]struct{}, len(wanted))
	for _, c := range wanted {
		wantedIDs[c.ID] = struct{}{}
	}

	tr := state.Tr()
	for _, id := range CommentIDs(doc) {
		if _, ok := wantedIDs[id]; ok {
			continue
		}
		if err := UnbindTr(tr, id); err != nil {
			logger.Printf("anchor: unbind %s: %v", id, err)
			continue
		}
		report.Removed = append(report.Removed, id)
	}

	// Mark steps do not move positions, so every range below is computed
	// against doc even after earlier binds in tr.
	var ext *Extraction
	handled := make(map[string]struct{}, len(wanted))
	for _, c := range wanted {
		if c.ID == "" {
			continue
		}
		if _, ok := handled[c.ID]; ok {
			continue
		}
		handled[c.ID] = struct{}{}
		if _, ok := existing[c.ID]; ok {
			continue
		}

		if r, ok := cachedRange(doc, c, minLength); ok {
			if err := BindTr(tr, c.ID, r.From, r.To); err == nil {
				report.Bound = append(report.Bound, c.ID)
				report.Cached = append(report.Cached, c.ID)
				continue
			}
		}

		if ext == nil {
			ext = h.Cache.Extract(doc)
		}
		r, ok := locateRange(c, ext, locator)
		if !ok {
			logger.Printf("anchor: comment %s could not be relocated", c.ID)
			report.Unlocated = append(report.Unlocated, c.ID)
			continue
		}
		if err := BindTr(tr, c.ID, r.From, r.To); err != nil {
			logger.Printf("anchor: bind %s: %v", c.ID, err)
			report.Unlocated = append(report.Unlocated, c.ID)
			continue
		}
		report.Bound = append(report.Bound, c.ID)
	}

	if !tr.DocChanged() {
		return nil, report
	}
	tr.SetMeta(MetaRehydrate, report)
	return tr, report
}

// Rehydrate runs a pass with the default locator and no cache.
func Rehydrate(state *prosemirror.State, wanted []Comment) (*prosemirror.Transaction, Report) {
	return (&Rehydrator{}).Rehydrate(state, wanted)
}

// cachedRange trusts the comment's cached positions when the text there
// still normalizes to the selected text. Selections shorter than minLength
// are never trusted, as the locator would refuse them.
func cachedRange(doc *prosemirror.Node, c Comment, minLength int) (Range, bool) {
	if c.From == nil || c.To == nil {
		return Range{}, false
	}
	from, to := *c.From, *c.To
	if from < 0 || from >= to || to > doc.ContentSize() {
		return Range{}, false
	}
	want := NormalizeForSearch(c.SelectedText)
	if utf8.RuneCountInString(want) < minLength || NormalizeForSearch(doc.TextBetween(from, to, "\n")) != want {
		return Range{}, false
	}
	return Range{From: from, To: to}, true
}

// locateRange runs the locator and resolver for one comment.
func locateRange(c Comment, ext *Extraction, locator Locator) (Range, bool) {
	m, ok := locator.Locate(c.SelectedText, ext.Normalized)
	if !ok {
		return Range{}, false
	}
	return ResolveRange(m, ext)
}
