package message_test

import (
	"context"
	"strings"
	"testing"

	"crawshaw.io/iox"
	"github.com/stretchr/testify/require"

	"github.com/zostay/mimedit/message"
)

const alternative = "From: alice@example.com\r\n" +
	"To: bob@example.com\r\n" +
	"Subject: Hello\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/alternative; boundary=\"XYZ\"\r\n" +
	"\r\n" +
	"This is a multi-part message in MIME format.\r\n" +
	"--XYZ\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"Content-Transfer-Encoding: quoted-printable\r\n" +
	"\r\n" +
	"Hello, caf=C3=A9!\r\n" +
	"--XYZ\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"Content-ID: <html@example.com>\r\n" +
	"\r\n" +
	"<p>Hello!</p>\r\n" +
	"--XYZ--\r\n"

const nested = "Content-Type: multipart/mixed; boundary=outer\n" +
	"\n" +
	"--outer\n" +
	"Content-Type: multipart/related; boundary=inner\n" +
	"\n" +
	"--inner\n" +
	"Content-Type: text/html\n" +
	"\n" +
	"<img src=\"cid:logo\">\n" +
	"--inner\n" +
	"Content-Type: image/png\n" +
	"Content-ID: <logo>\n" +
	"Content-Disposition: inline\n" +
	"Content-Transfer-Encoding: base64\n" +
	"\n" +
	"iVBORw0KGgo=\n" +
	"--inner--\n" +
	"\n" +
	"--outer\n" +
	"Content-Type: text/plain\n" +
	"Content-Disposition: attachment; filename=bye.txt\n" +
	"\n" +
	"bye\n" +
	"--outer--\n" +
	"epilogue\n"

const oddParts = "Content-Type: multipart/mixed; boundary=b\r\n" +
	"\r\n" +
	"--b\r\n" +
	"Content-Type: text/plain\r\n" +
	"--b\r\n" +
	"\r\n" +
	"no header here\r\n" +
	"--b\r\n" +
	"plain body line\r\n" +
	"--b--"

const base64Leaf = "Content-Type: application/octet-stream\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"SGVsbG8sIHdvcmxkIQ==\r\n"

const asciiLeaf = "Content-Type: text/plain; charset=us-ascii\r\n" +
	"Content-Transfer-Encoding: 7bit\r\n" +
	"\r\n" +
	"plain old text\r\n"

func parse(t *testing.T, s string, opts ...message.Option) *message.Document {
	t.Helper()

	d, err := message.Parse(strings.NewReader(s), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	return d
}

func render(t *testing.T, d *message.Document) string {
	t.Helper()

	b, err := d.Bytes()
	require.NoError(t, err)
	return string(b)
}

func lookup(t *testing.T, d *message.Document, path string) message.NodeID {
	t.Helper()

	id, err := d.Lookup(path)
	require.NoError(t, err)
	return id
}

func newFiler(t *testing.T) *iox.Filer {
	t.Helper()

	filer := iox.NewFiler(0)
	t.Cleanup(func() { filer.Shutdown(context.Background()) })

	return filer
}
