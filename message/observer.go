package message

import "slices"

// Op names the kind of change made to a Document.
type Op int

const (
	Inserted       Op = iota + 1 // Node was added at Parent, Index
	Removed                      // Node, and its descendants, left Parent
	Replaced                     // Node took the place of Old after a header edit
	ContentChanged               // the body of the leaf Node was replaced
	Promoted                     // Node became the root with Old as its first child
	HeaderChanged                // a field of Node was set in place
)

// String returns the name of the operation.
func (op Op) String() string {
	switch op {
	case Inserted:
		return "inserted"
	case Removed:
		return "removed"
	case Replaced:
		return "replaced"
	case ContentChanged:
		return "content changed"
	case Promoted:
		return "promoted"
	case HeaderChanged:
		return "header changed"
	}
	return "unknown"
}

// Change describes one change to a Document. Parent and Index give the
// position of Node, or of the removed node before it was removed. For the root
// Parent is 0.
type Change struct {
	Op     Op
	Node   NodeID
	Old    NodeID
	Parent NodeID
	Index  int
}

// Observer is told about every change to a Document after it is made.
// Observers must not change the Document they are observing.
type Observer interface {
	Changed(d *Document, c Change)
}

// ObserverFunc lets a plain function be an Observer.
type ObserverFunc func(d *Document, c Change)

// Changed calls f.
func (f ObserverFunc) Changed(d *Document, c Change) {
	f(d, c)
}

type observerEntry struct {
	o Observer
}

// Observe registers o to be told about changes. Calling the returned function
// removes it again.
func (d *Document) Observe(o Observer) (cancel func()) {
	e := &observerEntry{o}
	d.observers = append(d.observers, e)
	return func() {
		d.observers = slices.DeleteFunc(d.observers, func(x *observerEntry) bool {
			return x == e
		})
	}
}

// notify records that the Document changed and tells the observers.
func (d *Document) notify(c Change) {
	d.gen++
	d.dirty = true
	for _, e := range slices.Clone(d.observers) {
		e.o.Changed(d, c)
	}
}
