package message_test

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	gomessage "github.com/emersion/go-message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/mimedit/message"
)

// The output must be readable by an independent MIME parser.
func TestInterop_GoMessage(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	d, err := message.NewEmail("alice@example.com", "bob@example.com", "Report", date)
	require.NoError(t, err)
	defer func() { _ = d.Close() }()

	root := d.Node(d.Root())
	text := root.Children()[0]
	require.NoError(t, d.ReplaceContent(text, []byte("Voilà the report.\r\n")))

	blob := bytes.Repeat([]byte{0x00, 0x10, 0xfe, 0xff}, 64)
	_, err = d.ImportFile(text, "report.bin", "", bytes.NewReader(blob))
	require.NoError(t, err)
	require.NoError(t, d.Check())

	e, err := gomessage.Read(bytes.NewReader([]byte(render(t, d))))
	require.NoError(t, err)

	subject := e.Header.Get("Subject")
	assert.Equal(t, "Report", subject)

	mr := e.MultipartReader()
	require.NotNil(t, mr)

	p, err := mr.NextPart()
	require.NoError(t, err)
	mt, params, err := p.Header.ContentType()
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mt)
	assert.Equal(t, "utf-8", params["charset"])
	body, err := io.ReadAll(p.Body)
	require.NoError(t, err)
	assert.Equal(t, "Voilà the report.\r\n", string(body))

	p, err = mr.NextPart()
	require.NoError(t, err)
	mt, _, err = p.Header.ContentType()
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", mt)
	_, dparams, err := p.Header.ContentDisposition()
	require.NoError(t, err)
	assert.Equal(t, "report.bin", dparams["filename"])
	body, err = io.ReadAll(p.Body)
	require.NoError(t, err)
	assert.Equal(t, blob, body)

	_, err = mr.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

// A message written by an independent MIME writer parses and writes back
// unchanged.
func TestInterop_GoMessageRoundTrip(t *testing.T) {
	t.Parallel()

	var h gomessage.Header
	h.SetContentType("multipart/mixed", map[string]string{"boundary": "interop"})
	h.Set("Subject", "From elsewhere")

	var buf bytes.Buffer
	w, err := gomessage.CreateWriter(&buf, h)
	require.NoError(t, err)

	var ph gomessage.Header
	ph.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	ph.Set("Content-Transfer-Encoding", "quoted-printable")
	pw, err := w.CreatePart(ph)
	require.NoError(t, err)
	_, err = io.WriteString(pw, "written by another library\r\n")
	require.NoError(t, err)
	require.NoError(t, pw.Close())
	require.NoError(t, w.Close())

	raw := buf.String()
	d := parse(t, raw)
	assert.Equal(t, raw, render(t, d))

	got, err := d.Text(lookup(t, d, "1"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "written by another library"))
}
