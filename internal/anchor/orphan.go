package anchor

import (
	"sort"

	"chronicle/anchoring/internal/prosemirror"
)

// Scheduler runs tasks on a later turn of the host's event loop.
type Scheduler interface {
	Defer(task func())
}

// Orphaned returns the comment ids anchored in before but not in after, sorted.
func Orphaned(before, after *prosemirror.Node) []string {
	remaining := commentIDSet(after)
	var orphaned []string
	for id := range commentIDSet(before) {
		if _, ok := remaining[id]; !ok {
			orphaned = append(orphaned, id)
		}
	}
	sort.Strings(orphaned)
	return orphaned
}

// OrphanDetector reports comments whose anchors disappeared in a batch of
// transactions. notify is deferred through sched and skipped once alive
// reports false, because the host must not be re-entered while it is still
// finishing the transaction.
func OrphanDetector(sched Scheduler, alive func() bool, notify func(ids []string)) *prosemirror.Plugin {
	return &prosemirror.Plugin{
		Key: "commentOrphans",
		AfterApply: func(trs []*prosemirror.Transaction, oldState, newState *prosemirror.State) {
			if notify == nil || !docChanged(trs) {
				return
			}
			orphaned := Orphaned(oldState.Doc, newState.Doc)
			if len(orphaned) == 0 {
				return
			}
			sched.Defer(func() {
				if alive != nil && !alive() {
					return
				}
				notify(orphaned)
			})
		},
	}
}

func docChanged(trs []*prosemirror.Transaction) bool {
	for _, tr := range trs {
		if tr.DocChanged() {
			return true
		}
	}
	return false
}
