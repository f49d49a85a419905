package message

import (
	"strings"

	"crawshaw.io/iox"

	"github.com/zostay/mimedit/message/header"
	"github.com/zostay/mimedit/message/header/param"
	"github.com/zostay/mimedit/message/transfer"
)

// NodeID is a handle to a node in a Document. Handles are never reused within
// a Document, so a handle to a removed or replaced node stays invalid. The
// zero NodeID refers to no node.
type NodeID uint64

// Kind says whether a node holds content or other nodes. A node's kind never
// changes.
type Kind int

const (
	KindLeaf      Kind = iota // the node has a body and no children
	KindContainer             // the node has children and no body
)

// String returns "leaf" or "container".
func (k Kind) String() string {
	if k == KindContainer {
		return "container"
	}
	return "leaf"
}

// Category is the broad sort of content held by a leaf. It picks the editor
// or viewer a front end offers.
type Category int

const (
	Other Category = iota
	PlainText
	HTML
	Image
)

// String returns a lowercase name for the category.
func (c Category) String() string {
	switch c {
	case PlainText:
		return "text"
	case HTML:
		return "html"
	case Image:
		return "image"
	}
	return "other"
}

// Node is one entity of a Document. Nodes are owned by their Document and must
// only be changed through it; the methods here only read.
type Node struct {
	id     NodeID
	kind   Kind
	header *header.Header

	parent   NodeID
	index    int
	children []NodeID

	// leaf only: the body exactly as it appears on the wire
	body *iox.BufferFile

	// container only: the boundary and the text around the delimiter lines
	boundary string
	prefix   []byte
	suffix   []byte

	// set when the entity had no blank line after its header, and when such a
	// header-only entity also lacked the final line break
	noSeparator  bool
	unterminated bool
}

// ID returns the node's handle.
func (n *Node) ID() NodeID { return n.id }

// Kind returns whether the node is a leaf or a container.
func (n *Node) Kind() Kind { return n.kind }

// IsLeaf is true for nodes that hold content.
func (n *Node) IsLeaf() bool { return n.kind == KindLeaf }

// IsContainer is true for nodes that hold other nodes.
func (n *Node) IsContainer() bool { return n.kind == KindContainer }

// Header returns a copy of the node's header. Changes to the copy do not
// affect the node; use Document.EditHeader for that.
func (n *Node) Header() *header.Header { return n.header.Clone() }

// Break returns the line break the node's header uses.
func (n *Node) Break() header.Break { return n.header.Break() }

// Parent returns the handle of the parent, or 0 for the root.
func (n *Node) Parent() NodeID { return n.parent }

// Index returns the position of the node among its siblings.
func (n *Node) Index() int { return n.index }

// Children returns the handles of a container's children in order.
func (n *Node) Children() []NodeID {
	return append([]NodeID(nil), n.children...)
}

// Boundary returns a container's boundary, or "" for a leaf.
func (n *Node) Boundary() string { return n.boundary }

// Size returns the length of a leaf's body as stored, that is, still transfer
// encoded. It is 0 for containers.
func (n *Node) Size() int64 {
	if n.body == nil {
		return 0
	}
	return n.body.Size()
}

// ContentType returns the parsed Content-Type. A node without a usable
// Content-Type is treated as text/plain; charset=us-ascii.
func (n *Node) ContentType() *param.Value {
	pv, err := n.header.GetContentType()
	if err != nil {
		return param.New("text/plain", map[string]string{param.Charset: "us-ascii"})
	}
	return pv
}

// MediaType returns the lowercased type/subtype of the node.
func (n *Node) MediaType() string {
	return n.ContentType().MediaType()
}

// Charset returns the declared charset, or "" when there is none.
func (n *Node) Charset() string {
	cs, _ := n.header.GetCharset()
	return cs
}

// ContentID returns the normalized Content-ID, or "".
func (n *Node) ContentID() string {
	id, _ := n.header.GetContentID()
	return id
}

// TransferEncoding returns the normalized Content-Transfer-Encoding. A
// missing field is reported as "".
func (n *Node) TransferEncoding() string {
	cte, _ := n.header.GetTransferEncoding()
	return transfer.Normalize(cte)
}

// Disposition returns "inline", "attachment", or "" when the node has no
// Content-Disposition.
func (n *Node) Disposition() string {
	d, _ := n.header.GetPresentation()
	return d
}

// IsInline reports whether the node is a leaf marked for inline display.
func (n *Node) IsInline() bool {
	return n.kind == KindLeaf && n.Disposition() == "inline"
}

// Filename returns the suggested filename, or "".
func (n *Node) Filename() string {
	fn, _ := n.header.GetFilename()
	return fn
}

// DisplayName is the label a front end shows for the node: the filename if
// there is one, otherwise the media type.
func (n *Node) DisplayName() string {
	if fn := n.Filename(); fn != "" {
		return fn
	}
	return n.MediaType()
}

// Category sorts the node by media type.
func (n *Node) Category() Category {
	return categoryOf(n.ContentType())
}

func categoryOf(pv *param.Value) Category {
	switch {
	case pv.MediaType() == "text/html":
		return HTML
	case pv.Type() == "text":
		return PlainText
	case pv.Type() == "image":
		return Image
	}
	return Other
}

// isText reports whether the node's content is text that has a charset.
func (n *Node) isText() bool {
	return n.kind == KindLeaf && n.ContentType().IsText()
}

// isMixed reports whether a container is one that imported material may be
// added to.
func (n *Node) isMixed() bool {
	if n.kind != KindContainer {
		return false
	}
	switch n.MediaType() {
	case "multipart/mixed", "multipart/related":
		return true
	}
	return false
}

// contentHeader reports whether the named field describes the node's content
// rather than the message as a whole.
func contentHeader(name string) bool {
	return strings.HasPrefix(strings.ToLower(name), "content-")
}
