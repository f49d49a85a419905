// Package view provides a read-only projection of a message.Document that
// can hide inline leaves, the way a part list in a mail editor usually shows
// only the parts a person would think of as attachments or bodies.
//
// A View never changes the Document. It is rebuilt lazily whenever the
// Document's generation or the view's own setting changes, so it is safe to
// keep one around while the Document is edited. A View must not outlive its
// Document.
package view

import (
	"github.com/zostay/mimedit/message"
	"github.com/zostay/mimedit/message/walker"
)

// Entry is one visible node.
type Entry struct {
	ID     message.NodeID
	Parent message.NodeID // 0 for the root
	Depth  int
}

// View is the visibility projection of a Document.
type View struct {
	d          *message.Document
	hideInline bool

	built    bool
	gen      uint64
	entries  []Entry
	children map[message.NodeID][]message.NodeID
	visible  map[message.NodeID]bool
}

// New returns a View of d that shows every node.
func New(d *message.Document) *View {
	return &View{d: d}
}

// HideInline reports whether inline leaves are hidden.
func (v *View) HideInline() bool {
	return v.hideInline
}

// SetHideInline sets whether leaves with an inline disposition are hidden.
func (v *View) SetHideInline(hide bool) {
	if v.hideInline != hide {
		v.hideInline = hide
		v.built = false
	}
}

// Toggle flips HideInline and returns the new setting.
func (v *View) Toggle() bool {
	v.SetHideInline(!v.hideInline)
	return v.hideInline
}

func (v *View) refresh() {
	if v.built && v.gen == v.d.Generation() {
		return
	}

	v.entries = v.entries[:0]
	v.children = make(map[message.NodeID][]message.NodeID)
	v.visible = make(map[message.NodeID]bool)

	_ = walker.Process(v.d, v.d.Root(), func(n *message.Node, parents []*message.Node) error {
		if v.hidden(n) {
			return walker.ErrSkip
		}

		e := Entry{ID: n.ID(), Depth: len(parents)}
		if len(parents) > 0 {
			e.Parent = parents[len(parents)-1].ID()
			v.children[e.Parent] = append(v.children[e.Parent], e.ID)
		}
		v.entries = append(v.entries, e)
		v.visible[e.ID] = true
		return nil
	})

	v.gen = v.d.Generation()
	v.built = true
}

// hidden reports whether the node is filtered out. The root is always shown.
func (v *View) hidden(n *message.Node) bool {
	return v.hideInline && n.Parent() != 0 && n.IsInline()
}

// Entries returns the visible nodes in document order.
func (v *View) Entries() []Entry {
	v.refresh()
	return append([]Entry(nil), v.entries...)
}

// Len returns the number of visible nodes.
func (v *View) Len() int {
	v.refresh()
	return len(v.entries)
}

// Visible reports whether the node is shown.
func (v *View) Visible(id message.NodeID) bool {
	v.refresh()
	return v.visible[id]
}

// Children returns the visible children of a node.
func (v *View) Children(id message.NodeID) []message.NodeID {
	v.refresh()
	return append([]message.NodeID(nil), v.children[id]...)
}
