package message

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"crawshaw.io/iox"
	"github.com/google/uuid"

	"github.com/zostay/mimedit/message/header"
	"github.com/zostay/mimedit/message/header/param"
	"github.com/zostay/mimedit/message/transfer"
)

// Insert adds a new node with the given Content-Type and returns its handle.
//
// When target is a container, the new node becomes its last child. When
// target is a leaf, the new node becomes the last child of the leaf's parent.
// When target is a leaf at the root, the root is first promoted: a new
// multipart/mixed container becomes the root, with the old root as its first
// child, and the new node becomes the second child.
//
// A new container gets a fresh boundary. A new leaf has an empty body; text
// gets charset=utf-8 and the WithTextEncoding transfer encoding, and anything
// else gets the WithBinaryEncoding transfer encoding.
func (d *Document) Insert(target NodeID, contentType string) (NodeID, error) {
	ct, err := param.Parse(contentType)
	if err != nil {
		return 0, fmt.Errorf("content type %q: %w", contentType, err)
	}

	n, err := d.insert(target, ct, nil)
	if err != nil {
		return 0, err
	}
	return n.id, nil
}

func (d *Document) insert(target NodeID, ct *param.Value, h *header.Header) (*Node, error) {
	t, err := d.node(target)
	if err != nil {
		return nil, err
	}

	if h == nil {
		h = header.New(t.header.Break())
	}

	var n *Node
	if ct.IsMultipart() {
		n = d.newContainer(h, ct)
	} else {
		n = d.newLeaf(h, ct)
	}

	switch {
	case t.kind == KindContainer:
		d.attach(t, n, len(t.children))
	case t.parent != 0:
		parent := d.nodes[t.parent]
		d.attach(parent, n, len(parent.children))
	default:
		root := d.promote(t)
		d.attach(root, n, len(root.children))
	}

	d.notify(Change{Op: Inserted, Node: n.id, Parent: n.parent, Index: n.index})
	return n, nil
}

// promote replaces the root leaf with a multipart/mixed container holding it.
// Fields that are not about the content, like From and Subject, move to the
// new root.
func (d *Document) promote(old *Node) *Node {
	h := header.New(old.header.Break())
	for i := 0; i < old.header.Len(); {
		f := old.header.GetField(i)
		if contentHeader(f.Name()) {
			i++
			continue
		}
		h.AppendField(f)
		_ = old.header.DeleteField(i)
	}

	if _, err := h.Get(header.MIMEVersion); errors.Is(err, header.ErrNoSuchField) {
		h.Set(header.MIMEVersion, "1.0")
	}

	root := d.newContainer(h, param.New("multipart/mixed"))
	d.root = root.id
	d.attach(root, old, 0)

	d.notify(Change{Op: Promoted, Node: root.id, Old: old.id})
	return root
}

// Remove deletes a node and its descendants from the Document. The root
// cannot be removed.
func (d *Document) Remove(id NodeID) error {
	n, err := d.node(id)
	if err != nil {
		return err
	}

	if id == d.root {
		return ErrRemoveRoot
	}

	parent, index := n.parent, n.index
	d.detach(n)
	d.destroy(n)

	d.notify(Change{Op: Removed, Node: id, Parent: parent, Index: index})
	return nil
}

// EditHeader replaces a node with a new one carrying the header given in raw,
// a header block in wire format. The new node takes the old node's place and
// its handle is returned; the old handle becomes invalid.
//
// The header must keep the node's kind: a leaf must not get a multipart/*
// Content-Type and a container must keep one. A container must also keep its
// boundary. Otherwise the error matches ErrStructuralRejection and nothing
// changes.
//
// A leaf keeps its content. When the Content-Transfer-Encoding changes, the
// body is decoded and encoded again; a failure there matches
// ErrEncodingConversion and nothing changes. A change of charset does not
// convert the content. A container keeps its children in order.
func (d *Document) EditHeader(id NodeID, raw []byte) (NodeID, error) {
	n, err := d.node(id)
	if err != nil {
		return 0, err
	}

	h, err := d.parseHeaderBlock(raw, n.header.Break())
	if err != nil {
		return 0, err
	}

	kind := KindLeaf
	ct, err := h.GetContentType()
	switch {
	case err == nil:
		if ct.IsMultipart() {
			kind = KindContainer
		}
	case !errors.Is(err, header.ErrNoSuchField):
		return 0, fmt.Errorf("%w: Content-Type: %w", ErrBadHeader, err)
	}

	if kind != n.kind {
		return 0, ErrKindChanged
	}

	c := &Node{kind: kind, header: h}
	if kind == KindContainer {
		if ct.Boundary() != n.boundary {
			return 0, ErrBoundaryChanged
		}
		c.boundary = n.boundary
		c.prefix = n.prefix
		c.suffix = n.suffix
		c.children = n.children
	} else {
		from, _ := n.header.GetTransferEncoding()
		to, _ := h.GetTransferEncoding()
		if transfer.Equivalent(from, to) {
			c.body = n.body
		} else {
			c.body, err = d.recode(n, from, to)
			if err != nil {
				return 0, err
			}
		}
	}

	// the candidate is good; swap it in
	if n.kind == KindLeaf {
		d.unindexContentID(n)
	}
	d.add(c)

	c.parent, c.index = n.parent, n.index
	if n.parent == 0 {
		d.root = c.id
	} else {
		d.nodes[n.parent].children[n.index] = c.id
	}
	for _, child := range c.children {
		d.nodes[child].parent = c.id
	}

	if n.body != nil && n.body != c.body {
		_ = n.body.Close()
	}
	delete(d.nodes, n.id)

	d.notify(Change{Op: Replaced, Node: c.id, Old: n.id, Parent: c.parent, Index: c.index})
	return c.id, nil
}

// recode returns a copy of a leaf's body moved from one transfer encoding to
// another.
func (d *Document) recode(n *Node, from, to string) (*iox.BufferFile, error) {
	if _, err := n.body.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	bf := d.filer.BufferFile(d.opts.memSize)
	if _, err := transfer.Recode(bf, n.body, from, to, n.header.Break().Bytes()); err != nil {
		_ = bf.Close()
		return nil, conversionError(err)
	}
	return bf, nil
}

// parseHeaderBlock parses a header typed by a person. Its line breaks are
// changed to lbr and it may be followed by blank lines, but nothing else.
func (d *Document) parseHeaderBlock(raw []byte, lbr header.Break) (*header.Header, error) {
	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	raw = bytes.ReplaceAll(raw, []byte("\r"), []byte("\n"))
	raw = bytes.TrimLeft(raw, " \t\n")
	if len(raw) > 0 && raw[len(raw)-1] != '\n' {
		raw = append(raw, '\n')
	}
	raw = bytes.ReplaceAll(raw, []byte("\n"), lbr.Bytes())

	hdr, _, body, found, err := d.opts.splitHeader(raw)
	if err != nil {
		return nil, err
	}
	if found && len(bytes.TrimSpace(body)) > 0 {
		return nil, fmt.Errorf("%w: text follows the blank line ending the header", ErrBadHeader)
	}

	h, err := header.Parse(hdr, lbr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadHeader, err)
	}
	return h, nil
}

// FindMixedAncestor returns the nearest container above id that is
// multipart/mixed or multipart/related, the kind of container that imported
// material belongs in. It returns false when there is none.
func (d *Document) FindMixedAncestor(id NodeID) (NodeID, bool) {
	n, ok := d.nodes[id]
	if !ok {
		return 0, false
	}

	for n.parent != 0 {
		n = d.nodes[n.parent]
		if n.isMixed() {
			return n.id, true
		}
	}
	return 0, false
}

// ImportFile adds the content of r as a new attachment leaf, placed as Insert
// places it. When contentType is empty it is guessed from the extension of
// name. The leaf gets name as its filename and a new Content-ID.
func (d *Document) ImportFile(target NodeID, name, contentType string, r io.Reader) (NodeID, error) {
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(name))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ct, err := param.Parse(contentType)
	if err != nil {
		return 0, fmt.Errorf("content type %q: %w", contentType, err)
	}
	if ct.IsMultipart() {
		return 0, fmt.Errorf("content type %q: %w", contentType, ErrNotLeaf)
	}

	t, err := d.node(target)
	if err != nil {
		return 0, err
	}

	lbr := t.header.Break()
	_, cte := d.leafDefaults(ct)
	bf := d.filer.BufferFile(d.opts.memSize)
	if err := encode(bf, cte, lbr.Bytes(), r, ""); err != nil {
		_ = bf.Close()
		return 0, err
	}

	h := header.New(lbr)
	h.SetFilename(filepath.Base(name))
	h.SetContentID(uuid.NewString() + "@mimedit")

	n, err := d.insert(target, ct, h)
	if err != nil {
		_ = bf.Close()
		return 0, err
	}

	_ = n.body.Close()
	n.body = bf
	return n.id, nil
}

// SetFilename sets the filename of a leaf, making it an attachment if it has
// no Content-Disposition.
func (d *Document) SetFilename(id NodeID, name string) error {
	n, err := d.leaf(id)
	if err != nil {
		return err
	}

	n.header.SetFilename(name)
	d.notify(Change{Op: HeaderChanged, Node: n.id, Parent: n.parent, Index: n.index})
	return nil
}

// SetContentID sets the Content-ID of a leaf and updates the index.
func (d *Document) SetContentID(id NodeID, cid string) error {
	n, err := d.leaf(id)
	if err != nil {
		return err
	}

	d.unindexContentID(n)
	n.header.SetContentID(cid)
	d.indexContentID(n)

	d.notify(Change{Op: HeaderChanged, Node: n.id, Parent: n.parent, Index: n.index})
	return nil
}
