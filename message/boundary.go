package message

import (
	"math/rand"
	"strings"
)

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// GenerateBoundary returns a random 30 character alphanumeric MIME boundary.
func GenerateBoundary() string {
	s := make([]rune, 30)
	for i := range s {
		s[i] = letters[rand.Intn(len(letters))]
	}
	return string(s)
}

// GenerateSafeBoundary returns a random boundary that does not occur in any of
// the given strings.
func GenerateSafeBoundary(contents ...string) string {
	for {
		boundary := GenerateBoundary()
		safe := true
		for _, c := range contents {
			if strings.Contains(c, boundary) {
				safe = false
				break
			}
		}
		if safe {
			return boundary
		}
	}
}

// freshBoundary returns a boundary that no container of the Document uses.
func (d *Document) freshBoundary() string {
	var used []string
	for _, n := range d.nodes {
		if n.kind == KindContainer {
			used = append(used, n.boundary)
		}
	}
	return GenerateSafeBoundary(used...)
}
