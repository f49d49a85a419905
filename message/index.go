package message

import (
	"encoding/base64"
	"fmt"
	"slices"
	"strings"

	"github.com/zostay/mimedit/message/header"
)

// indexContentID records n under its Content-ID, if it has one.
func (d *Document) indexContentID(n *Node) {
	cid := n.ContentID()
	if cid == "" {
		return
	}
	d.cids[cid] = append(d.cids[cid], n.id)
}

// unindexContentID forgets n under its Content-ID.
func (d *Document) unindexContentID(n *Node) {
	cid := n.ContentID()
	if cid == "" {
		return
	}

	ids := slices.DeleteFunc(d.cids[cid], func(id NodeID) bool { return id == n.id })
	if len(ids) == 0 {
		delete(d.cids, cid)
		return
	}
	d.cids[cid] = ids
}

// positions returns the child indexes leading from the root to n.
func (d *Document) positions(n *Node) []int {
	var ps []int
	for n.parent != 0 {
		ps = append(ps, n.index)
		n = d.nodes[n.parent]
	}
	slices.Reverse(ps)
	return ps
}

// LookupContentID returns the leaf declaring the given Content-ID. The ID may
// be given with or without angle brackets or a "cid:" prefix. When several
// leaves declare the same ID, the first in document order wins.
func (d *Document) LookupContentID(cid string) (NodeID, bool) {
	ids := d.cids[header.NormalizeContentID(cid)]
	switch len(ids) {
	case 0:
		return 0, false
	case 1:
		return ids[0], true
	}

	best, bestPos := ids[0], d.positions(d.nodes[ids[0]])
	for _, id := range ids[1:] {
		if pos := d.positions(d.nodes[id]); slices.Compare(pos, bestPos) < 0 {
			best, bestPos = id, pos
		}
	}
	return best, true
}

// ContentIDs returns every Content-ID in the index, sorted.
func (d *Document) ContentIDs() []string {
	cids := make([]string, 0, len(d.cids))
	for cid := range d.cids {
		cids = append(cids, cid)
	}
	slices.Sort(cids)
	return cids
}

// Resolve returns the decoded content and media type of the leaf declaring the
// given Content-ID. It fails with ErrNoContentID when no leaf declares it.
func (d *Document) Resolve(cid string) ([]byte, string, error) {
	id, ok := d.LookupContentID(cid)
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrNoContentID, cid)
	}

	content, err := d.Content(id)
	if err != nil {
		return nil, "", err
	}

	return content, d.nodes[id].MediaType(), nil
}

// DataURI resolves a Content-ID and renders the content as a base64 data: URI.
func (d *Document) DataURI(cid string) (string, error) {
	content, mt, err := d.Resolve(cid)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("data:")
	sb.WriteString(mt)
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(content))
	return sb.String(), nil
}
