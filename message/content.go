package message

import (
	"bytes"
	"errors"
	"io"

	"github.com/zostay/mimedit/message/transfer"
)

// bodyReader returns a reader over a leaf's decoded body, still in the
// declared charset.
func (d *Document) bodyReader(n *Node) (*convReader, error) {
	if _, err := n.body.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	dec, err := transfer.NewDecoder(n.TransferEncoding(), n.body)
	if err != nil {
		return nil, conversionError(err)
	}
	return &convReader{r: dec}, nil
}

// charset returns the charset text is converted from and to, or "" when the
// leaf is not text.
func (d *Document) charset(n *Node) string {
	if !n.isText() {
		return ""
	}
	if cs := n.Charset(); cs != "" {
		return cs
	}
	return d.opts.defaultCharset
}

// Content returns the decoded body of a leaf, in its declared charset.
func (d *Document) Content(id NodeID) ([]byte, error) {
	n, err := d.leaf(id)
	if err != nil {
		return nil, err
	}

	r, err := d.bodyReader(n)
	if err != nil {
		return nil, err
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, conversionError(err)
	}
	return content, nil
}

// ExportContent writes the decoded body of a leaf to w, in its declared
// charset. This is the copy handed to an external program.
func (d *Document) ExportContent(id NodeID, w io.Writer) (int64, error) {
	n, err := d.leaf(id)
	if err != nil {
		return 0, err
	}

	r, err := d.bodyReader(n)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(w, r)
	if err != nil && r.err != nil {
		return written, conversionError(err)
	}
	return written, err
}

// Text returns the decoded body of a text leaf converted to UTF-8. A text leaf
// without a charset is read as WithDefaultCharset. The body of any other leaf
// is returned as is.
func (d *Document) Text(id NodeID) (string, error) {
	n, err := d.leaf(id)
	if err != nil {
		return "", err
	}

	body, err := d.bodyReader(n)
	if err != nil {
		return "", err
	}

	var r io.Reader = body
	if cs := d.charset(n); cs != "" {
		r, err = transfer.NewCharsetReader(cs, body)
		if err != nil {
			return "", err
		}
	}

	text, err := io.ReadAll(r)
	if err != nil {
		return "", conversionError(err)
	}
	return string(text), nil
}

// ReplaceContent replaces the content of a leaf. For a text leaf p is UTF-8
// and is converted to the declared charset. The content is then encoded with
// the declared transfer encoding and stored. If either step fails, the error
// matches ErrEncodingConversion and the leaf keeps its old content.
func (d *Document) ReplaceContent(id NodeID, p []byte) error {
	return d.ReplaceContentFrom(id, bytes.NewReader(p))
}

// ReplaceContentFrom is ReplaceContent reading the new content from r.
func (d *Document) ReplaceContentFrom(id NodeID, r io.Reader) error {
	n, err := d.leaf(id)
	if err != nil {
		return err
	}
	return d.store(n, r, d.charset(n))
}

// ImportContent replaces the content of a leaf with bytes that are already in
// the declared charset, such as the file an external program edited. Only the
// transfer encoding is applied.
func (d *Document) ImportContent(id NodeID, r io.Reader) error {
	n, err := d.leaf(id)
	if err != nil {
		return err
	}
	return d.store(n, r, "")
}

// store encodes r into a new body for n and swaps it in. When charset is set,
// r is UTF-8 to be converted to it first.
func (d *Document) store(n *Node, r io.Reader, charset string) error {
	bf := d.filer.BufferFile(d.opts.memSize)
	if err := encode(bf, n.TransferEncoding(), n.header.Break().Bytes(), r, charset); err != nil {
		_ = bf.Close()
		return err
	}

	old := n.body
	n.body = bf
	_ = old.Close()

	d.notify(Change{Op: ContentChanged, Node: n.id, Parent: n.parent, Index: n.index})
	return nil
}

// encode writes r to w in the given transfer encoding. When charset is set, r
// is UTF-8 and is converted to charset first.
func encode(w io.Writer, cte string, lb []byte, r io.Reader, charset string) error {
	enc, err := transfer.NewEncoder(cte, w, lb)
	if err != nil {
		return conversionError(err)
	}

	out := enc
	if charset != "" {
		out, err = transfer.NewCharsetWriter(charset, enc)
		if err != nil {
			return conversionError(err)
		}
	}

	src := &convReader{r: r}
	if _, err := io.Copy(out, src); err != nil {
		if src.err != nil {
			return err
		}
		return conversionError(err)
	}

	if charset != "" {
		if err := out.Close(); err != nil {
			return conversionError(err)
		}
	}

	return conversionError(enc.Close())
}

// convReader remembers the error of the reader it wraps, telling failures of
// the source apart from failures of the conversion.
type convReader struct {
	r   io.Reader
	err error
}

func (cr *convReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		cr.err = err
	}
	return n, err
}
