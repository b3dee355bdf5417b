// Package editor hosts a document with comment anchoring: it owns the
// editor state, serializes dispatch, and runs deferred work on a task loop.
package editor

import (
	"log"
	"sync/atomic"

	"chronicle/anchoring/internal/anchor"
	"chronicle/anchoring/internal/prosemirror"
	"chronicle/anchoring/internal/util"
)

// Strategy selects how comments are shown in the document.
type Strategy string

const (
	// MarkStrategy anchors comments as marks inside the document.
	MarkStrategy Strategy = "mark"
	// DecorationStrategy re-searches comment text on every change and
	// overlays highlights without touching the document.
	DecorationStrategy Strategy = "decoration"
)

// Options configures an Editor.
type Options struct {
	// OnOrphanedComments receives ids whose anchored text was deleted.
	// The host should drop those comments; repeated ids must be harmless.
	OnOrphanedComments func(ids []string)
	// OnCommentClick receives clicks on anchored text or badges.
	OnCommentClick func(id string, at prosemirror.Point)

	Strategy Strategy
	Locator  anchor.Locator
	// MinMatchLength also bounds cached comment positions; zero means
	// anchor.MinMatchLength.
	MinMatchLength int
	Cache          *anchor.TextCache
	Logger         *log.Logger
	// Loop is the task queue deferred work runs on; a private one is
	// created when nil.
	Loop *Loop
	// Plugins run after the anchoring plugins.
	Plugins []*prosemirror.Plugin
}

// Editor is a single document being edited. It is not safe for concurrent
// use; drive it from one goroutine or through its Loop.
type Editor struct {
	id         string
	opts       Options
	logger     *log.Logger
	loop       *Loop
	state      *prosemirror.State
	rehydrator *anchor.Rehydrator
	destroyed  atomic.Bool
	applying   bool

	comments    []anchor.Comment
	decorations []anchor.Decoration
	lastReport  anchor.Report
}

// New creates an editor over doc.
func New(doc *prosemirror.Node, opts Options) *Editor {
	if opts.Strategy == "" {
		opts.Strategy = MarkStrategy
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	loop := opts.Loop
	if loop == nil {
		loop = NewLoop()
	}
	e := &Editor{
		id:     util.NewID("edt"),
		opts:   opts,
		logger: logger,
		loop:   loop,
		rehydrator: &anchor.Rehydrator{
			Locator:   opts.Locator,
			MinLength: opts.MinMatchLength,
			Cache:     opts.Cache,
			Logger:    logger,
		},
	}
	plugins := []*prosemirror.Plugin{
		anchor.Integrity(logger),
		anchor.OrphanDetector(loop, e.alive, opts.OnOrphanedComments),
		anchor.DeletionShortcut(),
		anchor.ClickHandler(opts.OnCommentClick),
	}
	plugins = append(plugins, opts.Plugins...)
	e.state = prosemirror.NewState(doc, plugins...)
	return e
}

func (e *Editor) ID() string {
	return e.id
}

func (e *Editor) State() *prosemirror.State {
	return e.state
}

func (e *Editor) Loop() *Loop {
	return e.loop
}

// Destroy tears the editor down. Deferred work still queued becomes a no-op.
func (e *Editor) Destroy() {
	e.destroyed.Store(true)
}

func (e *Editor) Destroyed() bool {
	return e.destroyed.Load()
}

func (e *Editor) alive() bool {
	return !e.destroyed.Load()
}

// Defer queues task on the editor's loop; it is skipped if the editor has
// been destroyed by the time it runs.
func (e *Editor) Defer(task func()) {
	e.loop.Defer(func() {
		if e.Destroyed() {
			e.logger.Printf("editor %s: destroyed, skipping deferred task", e.id)
			return
		}
		task()
	})
}

// Tick runs one turn of the editor's loop.
func (e *Editor) Tick() int {
	return e.loop.Tick()
}

// Settle runs the editor's loop until no deferred work remains.
func (e *Editor) Settle() int {
	return e.loop.Settle()
}

// Dispatch applies tr. A dispatch issued while another is being applied is
// queued for the next tick instead of running nested.
func (e *Editor) Dispatch(tr *prosemirror.Transaction) {
	if tr == nil || e.Destroyed() {
		return
	}
	if e.applying {
		e.Defer(func() { e.Dispatch(tr) })
		return
	}
	e.applying = true
	defer func() { e.applying = false }()

	old := e.state
	if tr.Before() != old.Doc {
		e.logger.Printf("editor %s: dropping transaction built against a stale state", e.id)
		return
	}
	next, trs := old.ApplyTransaction(tr)
	e.state = next
	if e.opts.Strategy == DecorationStrategy && next.Doc != old.Doc {
		e.refreshDecorations()
	}
	for _, p := range next.Plugins {
		if p.AfterApply != nil {
			p.AfterApply(trs, old, next)
		}
	}
}

// Exec runs cmd against the current state and dispatches the result.
func (e *Editor) Exec(cmd prosemirror.Command) bool {
	tr, err := cmd(e.state)
	if err != nil {
		e.logger.Printf("editor %s: command rejected: %v", e.id, err)
		return false
	}
	if tr == nil {
		return false
	}
	e.Dispatch(tr)
	return true
}

// SetSelection moves the selection; positions are clamped to the document.
func (e *Editor) SetSelection(anchorPos, head int) {
	size := e.state.Doc.ContentSize()
	clamp := func(pos int) int {
		return min(max(pos, 0), size)
	}
	tr := e.state.Tr()
	tr.SetSelection(prosemirror.Selection{Anchor: clamp(anchorPos), Head: clamp(head)})
	e.Dispatch(tr)
}

// Type inserts text at the selection, replacing any selected range.
func (e *Editor) Type(text string) bool {
	return e.Exec(prosemirror.InsertTextCommand(text))
}

// KeyDown offers key to the plugins, then to the default keymap.
func (e *Editor) KeyDown(key string) bool {
	if e.Destroyed() {
		return false
	}
	for _, p := range e.state.Plugins {
		if p.HandleKeyDown != nil && p.HandleKeyDown(e.state, e.Dispatch, key) {
			return true
		}
	}
	if cmd, ok := prosemirror.DefaultKeymap[key]; ok {
		return e.Exec(cmd)
	}
	return false
}

// Click offers a pointer event to the plugins.
func (e *Editor) Click(target prosemirror.ClickTarget, at prosemirror.Point) bool {
	if e.Destroyed() {
		return false
	}
	for _, p := range e.state.Plugins {
		if p.HandleClick != nil && p.HandleClick(e.state, target, at) {
			return true
		}
	}
	return false
}

// TargetAt describes the rendered element holding the character after pos,
// with the data attributes its marks or decorations render.
func (e *Editor) TargetAt(pos int) prosemirror.ClickTarget {
	target := prosemirror.ClickTarget{Pos: pos, Attrs: map[string]string{}}
	if e.opts.Strategy == DecorationStrategy {
		for _, d := range e.decorations {
			if d.Kind == anchor.Highlight && d.From <= pos && pos < d.To {
				target.Attrs[anchor.DataAttr] = d.CommentID
			}
		}
		return target
	}
	r, err := e.state.Doc.Resolve(pos)
	if err != nil {
		return target
	}
	node := r.NodeAfter()
	if node == nil {
		return target
	}
	for _, m := range node.Marks {
		if attrs := prosemirror.MarkSpecFor(m.Type).DOMAttrs; attrs != nil {
			for k, v := range attrs(m) {
				target.Attrs[k] = v
			}
		}
	}
	return target
}

// BadgeTarget describes a rendered badge.
func BadgeTarget(b anchor.Badge) prosemirror.ClickTarget {
	return prosemirror.ClickTarget{Pos: b.Pos, Attrs: map[string]string{anchor.DataAttr: b.CommentID}}
}

// Badges returns one badge per shown comment.
func (e *Editor) Badges() []anchor.Badge {
	if e.opts.Strategy != DecorationStrategy {
		return anchor.ComputeBadges(e.state.Doc)
	}
	var badges []anchor.Badge
	for _, d := range e.decorations {
		if d.Kind == anchor.Widget {
			badges = append(badges, anchor.Badge{CommentID: d.CommentID, Pos: d.From})
		}
	}
	return badges
}

// Decorations returns the overlays of the decoration strategy.
func (e *Editor) Decorations() []anchor.Decoration {
	return e.decorations
}

// LastReport returns the outcome of the most recent rehydration pass.
func (e *Editor) LastReport() anchor.Report {
	return e.lastReport
}

func (e *Editor) refreshDecorations() {
	e.decorations = anchor.Decorations(e.state.Doc, e.comments, e.opts.Locator, e.opts.Cache)
}

// RehydrateCommentMarks reconciles the editor's anchors with comments on
// the next tick. It is idempotent and meant to be called whenever the
// host's comment list changes.
func RehydrateCommentMarks(e *Editor, comments []anchor.Comment) {
	wanted := make([]anchor.Comment, len(comments))
	copy(wanted, comments)
	e.Defer(func() {
		if e.opts.Strategy == DecorationStrategy {
			e.comments = wanted
			e.refreshDecorations()
			return
		}
		tr, report := e.rehydrator.Rehydrate(e.state, wanted)
		e.lastReport = report
		e.Dispatch(tr)
	})
}
