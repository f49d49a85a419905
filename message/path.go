package message

import (
	"fmt"
	"strconv"
	"strings"
)

func joinPath(parent string, i int) string {
	if parent == "" {
		return strconv.Itoa(i + 1)
	}
	return parent + "." + strconv.Itoa(i+1)
}

// Path returns the part path of a node in the style of IMAP: the 1-based
// positions of the node and its ancestors joined with dots. The root is "".
func (d *Document) Path(id NodeID) (string, error) {
	n, err := d.node(id)
	if err != nil {
		return "", err
	}

	path := ""
	for _, p := range d.positions(n) {
		path = joinPath(path, p)
	}
	return path, nil
}

// Lookup returns the node at the given part path.
func (d *Document) Lookup(path string) (NodeID, error) {
	n, err := d.node(d.root)
	if err != nil {
		return 0, err
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return n.id, nil
	}

	for _, s := range strings.Split(path, ".") {
		i, err := strconv.Atoi(s)
		if err != nil || i < 1 || i > len(n.children) {
			return 0, fmt.Errorf("%w: %q", ErrNoSuchPath, path)
		}
		n = d.nodes[n.children[i-1]]
	}

	return n.id, nil
}
