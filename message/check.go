package message

import (
	"fmt"
	"slices"

	"github.com/hashicorp/go-multierror"
)

func violation(format string, v ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, v...))
}

// Check verifies the structure of the Document: every node but the root has
// one parent and sits once in its children, every node is reachable from the
// root, every container's boundary matches its Content-Type, and the
// Content-ID index names exactly the leaves that declare an ID. Every problem
// found is returned together; each matches ErrInvariantViolation.
func (d *Document) Check() error {
	root, err := d.node(d.root)
	if err != nil {
		return err
	}

	var result *multierror.Error
	if root.parent != 0 {
		result = multierror.Append(result, violation("root %d has parent %d", root.id, root.parent))
	}

	seen := make(map[NodeID]bool, len(d.nodes))
	var visit func(n *Node)
	visit = func(n *Node) {
		if seen[n.id] {
			result = multierror.Append(result, violation("node %d appears more than once", n.id))
			return
		}
		seen[n.id] = true

		switch n.kind {
		case KindLeaf:
			if len(n.children) > 0 {
				result = multierror.Append(result, violation("leaf %d has children", n.id))
			}
			if n.body == nil {
				result = multierror.Append(result, violation("leaf %d has no body", n.id))
			}
			if cid := n.ContentID(); cid != "" && !slices.Contains(d.cids[cid], n.id) {
				result = multierror.Append(result, violation("leaf %d is missing from the index under %q", n.id, cid))
			}
		case KindContainer:
			if n.boundary == "" {
				result = multierror.Append(result, violation("container %d has no boundary", n.id))
			} else if b, _ := n.header.GetBoundary(); b != n.boundary {
				result = multierror.Append(result, violation("container %d has boundary %q but its header says %q", n.id, n.boundary, b))
			}
		}

		for i, childID := range n.children {
			c, ok := d.nodes[childID]
			if !ok {
				result = multierror.Append(result, violation("container %d has missing child %d", n.id, childID))
				continue
			}
			if c.parent != n.id || c.index != i {
				result = multierror.Append(result, violation("node %d records parent %d index %d, but is child %d of %d", c.id, c.parent, c.index, i, n.id))
			}
			visit(c)
		}
	}
	visit(root)

	for id := range d.nodes {
		if !seen[id] {
			result = multierror.Append(result, violation("node %d is not reachable from the root", id))
		}
	}

	for cid, ids := range d.cids {
		for _, id := range ids {
			n, ok := d.nodes[id]
			switch {
			case !ok:
				result = multierror.Append(result, violation("index entry %q refers to missing node %d", cid, id))
			case n.kind != KindLeaf:
				result = multierror.Append(result, violation("index entry %q refers to container %d", cid, id))
			case n.ContentID() != cid:
				result = multierror.Append(result, violation("index entry %q refers to node %d with Content-ID %q", cid, id, n.ContentID()))
			}
		}
	}

	return result.ErrorOrNil()
}
