package message

import (
	"bytes"
	"io"
)

// wireWriter counts the bytes written and remembers the first error so the
// serializer can write without checking every call.
type wireWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (ww *wireWriter) Write(p []byte) (int, error) {
	if ww.err != nil {
		return 0, ww.err
	}
	n, err := ww.w.Write(p)
	ww.n += int64(n)
	ww.err = err
	return n, err
}

func (ww *wireWriter) writeString(s string) {
	_, _ = io.WriteString(ww, s)
}

func (ww *wireWriter) copyFrom(r io.Reader) {
	if ww.err != nil {
		return
	}
	_, err := io.Copy(ww, r)
	if err != nil && ww.err == nil {
		ww.err = err
	}
}

// WriteTo writes the Document in wire format. Leaf bodies are written as
// stored, so nothing is re-encoded. After a successful write Modified reports
// false.
//
// A failed write leaves w holding an incomplete message. Callers saving to a
// file should write to a temporary file and rename it on success.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	root, err := d.node(d.root)
	if err != nil {
		return 0, err
	}

	ww := &wireWriter{w: w}
	d.writeNode(ww, root)
	if ww.err == nil {
		d.dirty = false
	}
	return ww.n, ww.err
}

// WriteNode writes one node, and its descendants, in wire format.
func (d *Document) WriteNode(w io.Writer, id NodeID) (int64, error) {
	n, err := d.node(id)
	if err != nil {
		return 0, err
	}

	ww := &wireWriter{w: w}
	d.writeNode(ww, n)
	return ww.n, ww.err
}

// Bytes returns the Document in wire format.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	root, err := d.node(d.root)
	if err != nil {
		return nil, err
	}

	ww := &wireWriter{w: &buf}
	d.writeNode(ww, root)
	return buf.Bytes(), ww.err
}

func (d *Document) writeNode(ww *wireWriter, n *Node) {
	d.writeHeader(ww, n)

	if n.kind == KindLeaf {
		if _, err := n.body.Seek(0, io.SeekStart); err != nil {
			ww.err = err
			return
		}
		ww.copyFrom(n.body)
		return
	}

	lb := n.header.Break().Bytes()
	dash := "--" + n.boundary

	_, _ = ww.Write(n.prefix)
	for i, c := range n.children {
		if i > 0 {
			_, _ = ww.Write(lb)
		}
		ww.writeString(dash)
		_, _ = ww.Write(lb)
		d.writeNode(ww, d.nodes[c])
	}

	if len(n.children) > 0 {
		_, _ = ww.Write(lb)
	}
	ww.writeString(dash)
	ww.writeString("--")
	_, _ = ww.Write(n.suffix)
}

func (d *Document) writeHeader(ww *wireWriter, n *Node) {
	if !n.noSeparator {
		_, _ = n.header.WriteTo(ww)
		return
	}

	if !n.unterminated {
		_, _ = n.header.WriteFieldsTo(ww)
		return
	}

	var buf bytes.Buffer
	_, _ = n.header.WriteFieldsTo(&buf)
	_, _ = ww.Write(bytes.TrimSuffix(buf.Bytes(), n.header.Break().Bytes()))
}
