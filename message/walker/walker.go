package walker

import (
	"errors"

	"github.com/zostay/mimedit/message"
)

// ErrSkip may be returned by a Nodes or Processor callback to skip the
// descendants of the node it was called for. The walk continues with the next
// sibling.
var ErrSkip = errors.New("skip children")

// Nodes is a function that can be called for each node of a Document.
type Nodes func(depth, i int, n *message.Node) error

// Walk performs a depth first search of the Document starting with the root.
// It calls the Nodes function for each node with its depth, the root being
// depth 0, and its index among its siblings. If the function returns an error
// other than ErrSkip, processing stops immediately and the error is returned.
func (w Nodes) Walk(d *message.Document) error {
	return w.WalkFrom(d, d.Root())
}

// WalkFrom is Walk starting at the node with the given handle. The starting
// node is given depth 0 and index 0.
func (w Nodes) WalkFrom(d *message.Document, id message.NodeID) error {
	type entry struct {
		depth int
		i     int
		id    message.NodeID
	}

	openStack := make([]entry, 0, 10)

	pushStack := func(depth int, n *message.Node) {
		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			openStack = append(openStack, entry{depth, i, children[i]})
		}
	}

	popStack := func() entry {
		end := len(openStack) - 1
		e := openStack[end]
		openStack = openStack[:end]
		return e
	}

	if d.Node(id) == nil {
		return message.ErrNoSuchNode
	}

	openStack = append(openStack, entry{0, 0, id})
	for len(openStack) > 0 {
		e := popStack()
		n := d.Node(e.id)
		if n == nil {
			continue
		}

		err := w(e.depth, e.i, n)
		switch {
		case errors.Is(err, ErrSkip):
			continue
		case err != nil:
			return err
		}

		pushStack(e.depth+1, n)
	}

	return nil
}

// WalkLeaves calls the Nodes function for each leaf using a depth first
// traversal.
func (w Nodes) WalkLeaves(d *message.Document) error {
	var lw Nodes = func(depth, i int, n *message.Node) error {
		if n.IsLeaf() {
			return w(depth, i, n)
		}
		return nil
	}
	return lw.Walk(d)
}

// WalkContainers calls the Nodes function for each container using a depth
// first traversal.
func (w Nodes) WalkContainers(d *message.Document) error {
	var cw Nodes = func(depth, i int, n *message.Node) error {
		if n.IsContainer() {
			return w(depth, i, n)
		}
		return nil
	}
	return cw.Walk(d)
}

// Processor is called by Process for a node and its ancestry. If len(parents)
// is zero, n is the node Process started from. The nearest parent is last.
type Processor func(n *message.Node, parents []*message.Node) error

// Process calls the Processor for the node with the given handle and each of
// its descendants, parents before children. Returning ErrSkip skips the
// descendants of a node; any other error stops processing and is returned.
func Process(d *message.Document, id message.NodeID, p Processor) error {
	n := d.Node(id)
	if n == nil {
		return message.ErrNoSuchNode
	}
	return process(d, n, make([]*message.Node, 0, 10), p)
}

func process(d *message.Document, n *message.Node, parents []*message.Node, p Processor) error {
	err := p(n, parents)
	switch {
	case errors.Is(err, ErrSkip):
		return nil
	case err != nil:
		return err
	}

	if n.IsContainer() {
		parents = append(parents, n)
		for _, c := range n.Children() {
			if err := process(d, d.Node(c), parents, p); err != nil {
				return err
			}
		}
	}

	return nil
}
