package walker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/mimedit/message"
	"github.com/zostay/mimedit/message/walker"
)

const msg = `X-Where: A
Content-type: multipart/mixed; boundary=aaaaaaa

--aaaaaaa
X-Where: B
Content-type: multipart/mixed; boundary=bbbbbbb

--bbbbbbb
X-Where: E
Content-type: text/plain

--bbbbbbb
X-Where: F
Content-type: text/plain

--bbbbbbb--
--aaaaaaa
X-Where: C
Content-type: multipart/mixed; boundary=ccccccc

--ccccccc
X-Where: G
Content-type: text/plain

--ccccccc
X-Where: H
Content-type: text/plain

--ccccccc--
--aaaaaaa
X-Where: D
Content-type: multipart/mixed; boundary=ddddddd

--ddddddd
X-Where: I
Content-type: text/plain

--ddddddd
X-Where: J
Content-type: text/plain

--ddddddd--
--aaaaaaa--
`


type visit struct {
	where string
	depth int
	index int
}

func collect(t *testing.T, visits *[]visit) walker.Nodes {
	return func(depth, i int, n *message.Node) error {
		where, err := n.Header().Get("X-Where")
		assert.NoError(t, err)
		*visits = append(*visits, visit{where, depth, i})
		return nil
	}
}

func parse(t *testing.T) *message.Document {
	t.Helper()

	d, err := message.Parse(strings.NewReader(msg))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestNodes_Walk(t *testing.T) {
	t.Parallel()

	d := parse(t)

	var visits []visit
	require.NoError(t, collect(t, &visits).Walk(d))
	assert.Equal(t, []visit{
		{"A", 0, 0},
		{"B", 1, 0}, {"E", 2, 0}, {"F", 2, 1},
		{"C", 1, 1}, {"G", 2, 0}, {"H", 2, 1},
		{"D", 1, 2}, {"I", 2, 0}, {"J", 2, 1},
	}, visits)
}

func TestNodes_WalkLeaves(t *testing.T) {
	t.Parallel()

	d := parse(t)

	var visits []visit
	require.NoError(t, collect(t, &visits).WalkLeaves(d))
	assert.Equal(t, []visit{
		{"E", 2, 0}, {"F", 2, 1},
		{"G", 2, 0}, {"H", 2, 1},
		{"I", 2, 0}, {"J", 2, 1},
	}, visits)
}

func TestNodes_WalkContainers(t *testing.T) {
	t.Parallel()

	d := parse(t)

	var visits []visit
	require.NoError(t, collect(t, &visits).WalkContainers(d))
	assert.Equal(t, []visit{
		{"A", 0, 0}, {"B", 1, 0}, {"C", 1, 1}, {"D", 1, 2},
	}, visits)
}

func TestNodes_WalkFrom(t *testing.T) {
	t.Parallel()

	d := parse(t)
	c, err := d.Lookup("2")
	require.NoError(t, err)

	var visits []visit
	require.NoError(t, collect(t, &visits).WalkFrom(d, c))
	assert.Equal(t, []visit{{"C", 0, 0}, {"G", 1, 0}, {"H", 1, 1}}, visits)

	assert.ErrorIs(t, collect(t, &visits).WalkFrom(d, 999), message.ErrNoSuchNode)
}

func TestNodes_SkipAndStop(t *testing.T) {
	t.Parallel()

	d := parse(t)

	var seen []string
	var w walker.Nodes = func(depth, i int, n *message.Node) error {
		where, _ := n.Header().Get("X-Where")
		seen = append(seen, where)
		switch where {
		case "B":
			return walker.ErrSkip
		case "H":
			return assert.AnError
		}
		return nil
	}

	err := w.Walk(d)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []string{"A", "B", "C", "G", "H"}, seen)
}

func TestProcess(t *testing.T) {
	t.Parallel()

	d := parse(t)

	ancestry := map[string]string{}
	err := walker.Process(d, d.Root(), func(n *message.Node, parents []*message.Node) error {
		where, _ := n.Header().Get("X-Where")
		path := ""
		for _, p := range parents {
			pw, _ := p.Header().Get("X-Where")
			path += pw
		}
		ancestry[where] = path
		if where == "D" {
			return walker.ErrSkip
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"A": "",
		"B": "A", "E": "AB", "F": "AB",
		"C": "A", "G": "AC", "H": "AC",
		"D": "A",
	}, ancestry)
}
