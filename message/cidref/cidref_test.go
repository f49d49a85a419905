package cidref_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/mimedit/message"
	"github.com/zostay/mimedit/message/cidref"
)

const newsletter = "Content-Type: multipart/related; boundary=r\r\n" +
	"\r\n" +
	"--r\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"Content-Transfer-Encoding: quoted-printable\r\n" +
	"\r\n" +
	"<html><body style=3D\"x\">\r\n" +
	"<img src=3D\"cid:logo@example.com\">\r\n" +
	"<table background=3D\"CID:%3Cbg%3E\"></table>\r\n" +
	"<a href=3D\"https://example.com/\">site</a>\r\n" +
	"<img src=3D\"cid:missing\"/>\r\n" +
	"</body></html>\r\n" +
	"--r\r\n" +
	"Content-Type: image/png\r\n" +
	"Content-ID: <logo@example.com>\r\n" +
	"\r\n" +
	"png\r\n" +
	"--r\r\n" +
	"Content-Type: image/gif\r\n" +
	"Content-ID: <bg>\r\n" +
	"\r\n" +
	"gif\r\n" +
	"--r\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"cid:not-html\r\n" +
	"--r--\r\n"

func parse(t *testing.T, s string) *message.Document {
	t.Helper()

	d, err := message.Parse(strings.NewReader(s))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestScan(t *testing.T) {
	t.Parallel()

	var got []string
	err := cidref.Scan(strings.NewReader(`<p><IMG SRC=" cid:a%40b "><video poster="cid:&lt;c&gt;"></video><a href="mailto:x">`),
		func(tag, attr, uri, cid string) error {
			got = append(got, tag+" "+attr+" "+cid)
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"img src a@b", "video poster c"}, got)
}

func TestScan_Stop(t *testing.T) {
	t.Parallel()

	calls := 0
	err := cidref.Scan(strings.NewReader(`<img src="cid:a"><img src="cid:b">`),
		func(string, string, string, string) error {
			calls++
			return assert.AnError
		})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}

func TestRefs(t *testing.T) {
	t.Parallel()

	d := parse(t, newsletter)
	refs, err := cidref.Refs(d)
	require.NoError(t, err)
	require.Len(t, refs, 3)

	html, err := d.Lookup("1")
	require.NoError(t, err)
	logo, err := d.Lookup("2")
	require.NoError(t, err)
	bg, err := d.Lookup("3")
	require.NoError(t, err)

	assert.Equal(t, html, refs[0].Leaf)
	assert.Equal(t, "img", refs[0].Tag)
	assert.Equal(t, "src", refs[0].Attr)
	assert.Equal(t, "logo@example.com", refs[0].CID)
	assert.Equal(t, logo, refs[0].Resolved)

	assert.Equal(t, "table", refs[1].Tag)
	assert.Equal(t, "background", refs[1].Attr)
	assert.Equal(t, "bg", refs[1].CID)
	assert.Equal(t, bg, refs[1].Resolved)

	assert.Equal(t, "missing", refs[2].CID)
	assert.True(t, refs[2].Dangling())
}

func TestDangling(t *testing.T) {
	t.Parallel()

	d := parse(t, newsletter)

	dangling, err := cidref.Dangling(d)
	require.NoError(t, err)
	require.Len(t, dangling, 1)
	assert.Equal(t, "cid:missing", dangling[0].URI)

	logo, err := d.Lookup("2")
	require.NoError(t, err)
	require.NoError(t, d.Remove(logo))

	dangling, err = cidref.Dangling(d)
	require.NoError(t, err)
	require.Len(t, dangling, 2)
	assert.Equal(t, "logo@example.com", dangling[0].CID)
}
