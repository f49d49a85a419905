package message

import (
	"context"
	"time"

	"crawshaw.io/iox"
	"github.com/hashicorp/go-multierror"

	"github.com/zostay/mimedit/message/header"
	"github.com/zostay/mimedit/message/header/param"
)

// Document is an editable MIME message held as a tree of nodes. The Document
// owns every node; callers refer to nodes by NodeID.
//
// A Document is not safe for concurrent use. Every method runs to completion
// and leaves the tree consistent, or fails and leaves it as it was.
type Document struct {
	nodes map[NodeID]*Node
	root  NodeID
	next  NodeID

	// content ID -> leaves declaring it
	cids map[string][]NodeID

	filer    *iox.Filer
	ownFiler bool
	opts     settings

	observers []*observerEntry

	gen   uint64
	dirty bool
}

func newDocument(opts []Option) *Document {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	d := &Document{
		nodes: make(map[NodeID]*Node),
		cids:  make(map[string][]NodeID),
		filer: s.filer,
		opts:  s,
	}

	if d.filer == nil {
		d.filer = iox.NewFiler(0)
		d.ownFiler = true
	}

	return d
}

// New returns a Document whose root is an empty text/plain leaf.
func New(opts ...Option) *Document {
	d := newDocument(opts)

	h := header.New(d.opts.lbr)
	h.Set(header.MIMEVersion, "1.0")
	d.root = d.newLeaf(h, param.New("text/plain")).id

	return d
}

// NewEmail returns a Document laid out as an email: a multipart/mixed root with
// the usual message headers and one empty text/plain leaf. The from and to
// arguments are address lists in RFC 5322 syntax.
func NewEmail(from, to, subject string, date time.Time, opts ...Option) (*Document, error) {
	d := newDocument(opts)

	h := header.New(d.opts.lbr)
	if err := h.SetFrom(from); err != nil {
		return nil, err
	}
	if err := h.SetTo(to); err != nil {
		return nil, err
	}
	h.SetSubject(subject)
	h.SetDate(date)
	h.Set(header.MIMEVersion, "1.0")

	root := d.newContainer(h, param.New("multipart/mixed"))
	d.root = root.id

	text := d.newLeaf(header.New(d.opts.lbr), param.New("text/plain"))
	d.attach(root, text, len(root.children))

	return d, nil
}

// Root returns the handle of the root node.
func (d *Document) Root() NodeID {
	return d.root
}

// Node returns the node with the given handle, or nil if the Document has no
// such node.
func (d *Document) Node(id NodeID) *Node {
	return d.nodes[id]
}

// Len returns the number of nodes in the Document.
func (d *Document) Len() int {
	return len(d.nodes)
}

// Modified reports whether the Document has changed since it was parsed,
// created, or last written with WriteTo.
func (d *Document) Modified() bool {
	return d.dirty
}

// Generation is incremented by every change to the Document. Views use it to
// tell whether they are stale.
func (d *Document) Generation() uint64 {
	return d.gen
}

// Close releases the storage held by leaf bodies. The Document may not be used
// afterward.
func (d *Document) Close() error {
	var result *multierror.Error
	for _, n := range d.nodes {
		if n.body != nil {
			if err := n.body.Close(); err != nil {
				result = multierror.Append(result, err)
			}
			n.body = nil
		}
	}
	d.nodes = nil
	d.cids = nil
	d.root = 0
	d.observers = nil

	if d.ownFiler && d.filer != nil {
		d.filer.Shutdown(context.Background())
		d.filer = nil
	}

	return result.ErrorOrNil()
}

func (d *Document) node(id NodeID) (*Node, error) {
	if d.nodes == nil {
		return nil, ErrClosed
	}
	n, ok := d.nodes[id]
	if !ok {
		return nil, ErrNoSuchNode
	}
	return n, nil
}

func (d *Document) leaf(id NodeID) (*Node, error) {
	n, err := d.node(id)
	if err != nil {
		return nil, err
	}
	if n.kind != KindLeaf {
		return nil, ErrNotLeaf
	}
	return n, nil
}

// add registers a new node with the Document and gives it a handle.
func (d *Document) add(n *Node) *Node {
	d.next++
	n.id = d.next
	d.nodes[n.id] = n
	if n.kind == KindLeaf {
		d.indexContentID(n)
	}
	return n
}

// newLeaf makes a leaf with an empty body. Text gets a charset and the text
// transfer encoding; everything else gets the binary transfer encoding.
func (d *Document) newLeaf(h *header.Header, ct *param.Value) *Node {
	ct, cte := d.leafDefaults(ct)
	h.SetContentType(ct)
	h.SetTransferEncoding(cte)

	return d.add(&Node{
		kind:   KindLeaf,
		header: h,
		body:   d.filer.BufferFile(d.opts.memSize),
	})
}

// leafDefaults returns the Content-Type and transfer encoding a new leaf gets.
func (d *Document) leafDefaults(ct *param.Value) (*param.Value, string) {
	if !ct.IsText() {
		return ct, d.opts.binaryEncoding
	}
	if ct.Charset() == "" {
		ct = param.Modify(ct, param.Set(param.Charset, "utf-8"))
	}
	return ct, d.opts.textEncoding
}

// newContainer makes a childless container with a fresh boundary.
func (d *Document) newContainer(h *header.Header, ct *param.Value) *Node {
	boundary := d.freshBoundary()
	h.SetContentType(param.Modify(ct, param.Set(param.Boundary, boundary)))

	return d.add(&Node{
		kind:     KindContainer,
		header:   h,
		boundary: boundary,
		prefix:   []byte{},
		suffix:   h.Break().Bytes(),
	})
}

// attach puts n into parent's children at index i.
func (d *Document) attach(parent, n *Node, i int) {
	parent.children = append(parent.children, 0)
	copy(parent.children[i+1:], parent.children[i:])
	parent.children[i] = n.id
	n.parent = parent.id
	d.renumber(parent, i)
}

// detach takes n out of its parent's children.
func (d *Document) detach(n *Node) {
	parent := d.nodes[n.parent]
	parent.children = append(parent.children[:n.index], parent.children[n.index+1:]...)
	d.renumber(parent, n.index)
	n.parent = 0
	n.index = 0
}

func (d *Document) renumber(parent *Node, from int) {
	for i := from; i < len(parent.children); i++ {
		d.nodes[parent.children[i]].index = i
	}
}

// destroy removes n and its descendants from the Document.
func (d *Document) destroy(n *Node) {
	for _, c := range n.children {
		d.destroy(d.nodes[c])
	}

	if n.kind == KindLeaf {
		d.unindexContentID(n)
	}
	if n.body != nil {
		_ = n.body.Close()
		n.body = nil
	}
	delete(d.nodes, n.id)
}
