package anchor

import (
	"log"
	"sort"

	"chronicle/anchoring/internal/prosemirror"
)

// MetaRetired is set on transactions that retire anchors and holds the ids.
const MetaRetired = "commentRetired"

// Integrity retires a whole anchor as soon as any character it covers is
// deleted, so a partially deleted comment never lingers with a shrunken
// highlight. Typing inside an anchor keeps it.
func Integrity(logger *log.Logger) *prosemirror.Plugin {
	if logger == nil {
		logger = log.Default()
	}
	return &prosemirror.Plugin{
		Key: "commentIntegrity",
		AppendTransaction: func(trs []*prosemirror.Transaction, _, newState *prosemirror.State) *prosemirror.Transaction {
			hit := make(map[string]struct{})
			for _, tr := range trs {
				for i, step := range tr.Steps() {
					replace, ok := step.(prosemirror.ReplaceStep)
					if !ok || replace.From == replace.To {
						continue
					}
					tr.DocBefore(i).NodesBetween(replace.From, replace.To, func(node *prosemirror.Node, _ int, _ *prosemirror.Node) bool {
						for _, id := range commentIDsOf(node.Marks) {
							hit[id] = struct{}{}
						}
						return true
					})
				}
			}
			if len(hit) == 0 {
				return nil
			}
			live := commentIDSet(newState.Doc)
			var retire []string
			for id := range hit {
				if _, ok := live[id]; ok {
					retire = append(retire, id)
				}
			}
			if len(retire) == 0 {
				return nil
			}
			sort.Strings(retire)
			tr := newState.Tr()
			for _, id := range retire {
				if err := UnbindTr(tr, id); err != nil {
					logger.Printf("anchor: retire %s: %v", id, err)
					return nil
				}
			}
			tr.SetMeta(MetaRetired, retire)
			return tr
		},
	}
}
