// Package cidref finds cid: references in the HTML leaves of a Document and
// reports the ones the Document cannot resolve.
package cidref

import (
	"errors"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/zostay/mimedit/message"
	"github.com/zostay/mimedit/message/header"
	"github.com/zostay/mimedit/message/walker"
)

// Ref is one cid: URI found in an attribute of an HTML element.
type Ref struct {
	Leaf     message.NodeID // the HTML leaf holding the reference
	Tag      string         // lowercase element name, like "img"
	Attr     string         // lowercase attribute name, like "src"
	URI      string         // the attribute value as written
	CID      string         // the normalized Content-ID it names
	Resolved message.NodeID // the leaf declaring CID, or 0
}

// Dangling reports whether no leaf declares the referenced Content-ID.
func (r Ref) Dangling() bool {
	return r.Resolved == 0
}

// Scan tokenizes HTML and calls fn for every attribute whose value is a cid:
// URI. The cid passed to fn is percent-decoded and normalized. Scanning stops
// with the first error returned by fn.
func Scan(r io.Reader, fn func(tag, attr, uri, cid string) error) error {
	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		t := z.Token()
		for _, a := range t.Attr {
			if a.Namespace != "" {
				continue
			}

			cid, ok := parseCID(a.Val)
			if !ok {
				continue
			}

			if err := fn(t.Data, strings.ToLower(a.Key), a.Val, cid); err != nil {
				return err
			}
		}
	}

	if err := z.Err(); !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// parseCID returns the Content-ID named by a cid: URI.
func parseCID(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if len(v) < 5 || !strings.EqualFold(v[:4], "cid:") {
		return "", false
	}

	id, err := url.PathUnescape(v[4:])
	if err != nil {
		id = v[4:]
	}

	id = header.NormalizeContentID(id)
	return id, id != ""
}

// Refs returns every cid: reference in the text/html leaves of d, in document
// order, each resolved against the Content-ID index.
func Refs(d *message.Document) ([]Ref, error) {
	var refs []Ref

	var w walker.Nodes = func(_, _ int, n *message.Node) error {
		if n.Category() != message.HTML {
			return nil
		}

		text, err := d.Text(n.ID())
		if err != nil {
			return err
		}

		return Scan(strings.NewReader(text), func(tag, attr, uri, cid string) error {
			ref := Ref{Leaf: n.ID(), Tag: tag, Attr: attr, URI: uri, CID: cid}
			if id, ok := d.LookupContentID(cid); ok {
				ref.Resolved = id
			}
			refs = append(refs, ref)
			return nil
		})
	}

	if err := w.WalkLeaves(d); err != nil {
		return nil, err
	}
	return refs, nil
}

// Dangling returns the references of Refs that no leaf of d resolves.
func Dangling(d *message.Document) ([]Ref, error) {
	refs, err := Refs(d)
	if err != nil {
		return nil, err
	}

	dangling := refs[:0]
	for _, r := range refs {
		if r.Dangling() {
			dangling = append(dangling, r)
		}
	}
	return dangling, nil
}
