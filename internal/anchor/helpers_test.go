package anchor

import (
	"testing"

	"chronicle/anchoring/internal/prosemirror"
)

// scenarioDoc is "The quick brown fox" / "jumps over": the first paragraph's
// text spans 1..20 and the second's 22..32.
func scenarioDoc() *prosemirror.Node {
	return prosemirror.Doc(
		prosemirror.Paragraph(prosemirror.NewText("The quick brown fox")),
		prosemirror.Paragraph(prosemirror.NewText("jumps over")),
	)
}

type binding struct {
	id       string
	from, to int
}

// boundState returns a state over doc with the given anchors applied.
func boundState(t *testing.T, doc *prosemirror.Node, bindings []binding, plugins ...*prosemirror.Plugin) *prosemirror.State {
	t.Helper()
	state := prosemirror.NewState(doc, plugins...)
	if len(bindings) == 0 {
		return state
	}
	tr := state.Tr()
	for _, b := range bindings {
		if err := BindTr(tr, b.id, b.from, b.to); err != nil {
			t.Fatalf("BindTr(%s) failed: %v", b.id, err)
		}
	}
	next, _ := state.ApplyTransaction(tr)
	return next
}

func apply(t *testing.T, state *prosemirror.State, tr *prosemirror.Transaction) (*prosemirror.State, []*prosemirror.Transaction) {
	t.Helper()
	if tr == nil {
		t.Fatal("expected a transaction")
	}
	return state.ApplyTransaction(tr)
}

func intPtr(v int) *int {
	return &v
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
