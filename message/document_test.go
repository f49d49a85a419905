package message_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/mimedit/message"
	"github.com/zostay/mimedit/message/header"
)

func TestNew(t *testing.T) {
	t.Parallel()

	d := message.New(message.WithBreak(header.LF))
	defer func() { _ = d.Close() }()

	assert.Equal(t, 1, d.Len())
	root := d.Node(d.Root())
	assert.True(t, root.IsLeaf())
	assert.Equal(t, "utf-8", root.Charset())
	assert.Equal(t, header.LF, root.Break())
	assert.False(t, d.Modified())

	assert.Equal(t, "MIME-Version: 1.0\n"+
		"Content-Type: text/plain; charset=utf-8\n"+
		"Content-Transfer-Encoding: quoted-printable\n"+
		"\n", render(t, d))
}

func TestNewEmail(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	d, err := message.NewEmail("alice@example.com", "Bob <bob@example.com>", "Greetings", date)
	require.NoError(t, err)
	defer func() { _ = d.Close() }()

	root := d.Node(d.Root())
	assert.Equal(t, "multipart/mixed", root.MediaType())
	require.Len(t, root.Children(), 1)

	h := root.Header()
	subject, err := h.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "Greetings", subject)

	got, err := h.GetDate()
	require.NoError(t, err)
	assert.True(t, date.Equal(got))

	to, err := h.GetTo()
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "bob@example.com", to[0].Address())

	text := d.Node(root.Children()[0])
	assert.Equal(t, "text/plain", text.MediaType())
	assert.NoError(t, d.Check())

	reparsed := parse(t, render(t, d))
	assert.Equal(t, 2, reparsed.Len())

	_, err = message.NewEmail("<broken", "bob@example.com", "x", date)
	assert.Error(t, err)
}

func TestPathLookup(t *testing.T) {
	t.Parallel()

	d := parse(t, nested)

	for _, p := range []string{"1", "1.1", "1.2", "2"} {
		id := lookup(t, d, p)
		got, err := d.Path(id)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	root, err := d.Lookup("")
	require.NoError(t, err)
	assert.Equal(t, d.Root(), root)

	p, err := d.Path(d.Root())
	require.NoError(t, err)
	assert.Equal(t, "", p)

	for _, bad := range []string{"0", "3", "1.3", "2.1", "x", "1..1"} {
		_, err := d.Lookup(bad)
		assert.ErrorIs(t, err, message.ErrNoSuchPath, bad)
	}

	_, err = d.Path(999)
	assert.ErrorIs(t, err, message.ErrNoSuchNode)
}

func TestClose(t *testing.T) {
	t.Parallel()

	d, err := message.Parse(strings.NewReader(nested))
	require.NoError(t, err)
	require.NoError(t, d.Close())

	assert.Equal(t, 0, d.Len())
	assert.Nil(t, d.Node(1))

	_, err = d.Bytes()
	assert.ErrorIs(t, err, message.ErrClosed)
	_, err = d.Insert(1, "text/plain")
	assert.ErrorIs(t, err, message.ErrClosed)
	_, err = d.Lookup("1")
	assert.ErrorIs(t, err, message.ErrClosed)
	assert.ErrorIs(t, d.Remove(2), message.ErrClosed)
}

func TestWithFiler(t *testing.T) {
	t.Parallel()

	// bodies above the threshold spill to files owned by the shared filer
	filer := newFiler(t)
	d := parse(t, nested, message.WithFiler(filer), message.WithMemoryThreshold(4))

	content, err := d.Content(lookup(t, d, "2"))
	require.NoError(t, err)
	assert.Equal(t, "bye", string(content))
	assert.Equal(t, nested, render(t, d))
}

func TestGenerateBoundary(t *testing.T) {
	t.Parallel()

	b := message.GenerateBoundary()
	assert.Len(t, b, 30)
	for _, r := range b {
		assert.True(t, (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	}

	assert.NotEqual(t, b, message.GenerateBoundary())

	safe := message.GenerateSafeBoundary(b)
	assert.NotContains(t, b, safe)
}

func TestCheck_Fresh(t *testing.T) {
	t.Parallel()

	for _, msg := range []string{alternative, nested, oddParts, base64Leaf, asciiLeaf} {
		d := parse(t, msg)
		assert.NoError(t, d.Check())
	}
}

func TestKindAndCategoryNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "leaf", message.KindLeaf.String())
	assert.Equal(t, "container", message.KindContainer.String())
	assert.Equal(t, "html", message.HTML.String())
	assert.Equal(t, "image", message.Image.String())
	assert.Equal(t, "text", message.PlainText.String())
	assert.Equal(t, "other", message.Other.String())
}
