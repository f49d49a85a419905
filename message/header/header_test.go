package header_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/mimedit/message/header"
	"github.com/zostay/mimedit/message/header/param"
)

const sampleHeader = "From: Sterling <sterling@example.com>\r\n" +
	"To: alice@example.com, Bob <bob@example.com>\r\n" +
	"Subject: Test\r\n" +
	"Date: Sat, 31 Jan 2015 03:23:09 +0000\r\n" +
	"Content-Type: text/plain;\r\n" +
	"  charset=\"ISO-8859-1\"; name=notes.txt\r\n" +
	"Content-Transfer-Encoding: Base64 \r\n" +
	"Content-ID: <part1@example.com>\r\n" +
	"X-Repeat: one\r\n" +
	"X-Repeat: two\r\n" +
	"\r\n"

func parseSample(t *testing.T) *header.Header {
	t.Helper()
	h, err := header.Parse([]byte(sampleHeader), header.CRLF)
	require.NoError(t, err)
	return h
}

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	h := parseSample(t)
	assert.Equal(t, 9, h.Len())
	assert.Equal(t, sampleHeader, h.String())
}

func TestParse_BadStart(t *testing.T) {
	t.Parallel()

	h, err := header.Parse([]byte("garbage\nSubject: hi\n\n"), header.LF)
	require.Error(t, err)
	require.NotNil(t, h)

	s, err := h.GetSubject()
	assert.NoError(t, err)
	assert.Equal(t, "hi", s)
}

func TestHeader_TypedAccessors(t *testing.T) {
	t.Parallel()

	h := parseSample(t)

	mt, err := h.GetMediaType()
	assert.NoError(t, err)
	assert.Equal(t, "text/plain", mt)

	cs, err := h.GetCharset()
	assert.NoError(t, err)
	assert.Equal(t, "ISO-8859-1", cs)

	_, err = h.GetBoundary()
	assert.ErrorIs(t, err, header.ErrNoSuchFieldParameter)

	cte, err := h.GetTransferEncoding()
	assert.NoError(t, err)
	assert.Equal(t, "base64", cte)

	cid, err := h.GetContentID()
	assert.NoError(t, err)
	assert.Equal(t, "part1@example.com", cid)

	fn, err := h.GetFilename()
	assert.NoError(t, err)
	assert.Equal(t, "notes.txt", fn)

	_, err = h.GetPresentation()
	assert.ErrorIs(t, err, header.ErrNoSuchField)

	d, err := h.GetDate()
	assert.NoError(t, err)
	assert.True(t, d.Equal(time.Date(2015, 1, 31, 3, 23, 9, 0, time.UTC)))

	from, err := h.GetFrom()
	assert.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "sterling@example.com", from[0].Address())

	to, err := h.GetTo()
	assert.NoError(t, err)
	assert.Len(t, to, 2)

	r, err := h.Get("x-repeat")
	assert.ErrorIs(t, err, header.ErrManyFields)
	assert.Equal(t, "one", r)

	all, err := h.GetAll("X-Repeat")
	assert.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, all)
}

func TestHeader_Set(t *testing.T) {
	t.Parallel()

	h := parseSample(t)

	h.Set("X-Repeat", "only")
	all, err := h.GetAll("X-Repeat")
	assert.NoError(t, err)
	assert.Equal(t, []string{"only"}, all)

	assert.NoError(t, h.SetCharset("utf-8"))
	cs, err := h.GetCharset()
	assert.NoError(t, err)
	assert.Equal(t, "utf-8", cs)

	h.SetFilename("report.pdf")
	p, err := h.GetPresentation()
	assert.NoError(t, err)
	assert.Equal(t, "attachment", p)
	fn, err := h.GetFilename()
	assert.NoError(t, err)
	assert.Equal(t, "report.pdf", fn)

	assert.Equal(t, 1, h.Delete(header.ContentID))
	_, err = h.GetContentID()
	assert.ErrorIs(t, err, header.ErrNoSuchField)

	h.SetContentID("cid:<new@example.com>")
	cid, err := h.GetContentID()
	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", cid)
	assert.Contains(t, h.String(), "Content-ID: <new@example.com>\r\n")

	// untouched fields keep their original bytes
	assert.Contains(t, h.String(), "Content-Transfer-Encoding: Base64 \r\n")
}

func TestHeader_Clone(t *testing.T) {
	t.Parallel()

	h := parseSample(t)
	c := h.Clone()
	c.SetSubject("Changed")

	s, _ := h.GetSubject()
	assert.Equal(t, "Test", s)
	s, _ = c.GetSubject()
	assert.Equal(t, "Changed", s)
}

func TestNew(t *testing.T) {
	t.Parallel()

	h := header.New(header.LF)
	h.SetContentType(param.New("text/plain", map[string]string{"charset": "utf-8"}))
	h.SetTransferEncoding("quoted-printable")
	require.NoError(t, h.SetFrom("sterling@example.com"))

	assert.Equal(t,
		"Content-Type: text/plain; charset=utf-8\n"+
			"Content-Transfer-Encoding: quoted-printable\n"+
			"From: sterling@example.com\n"+
			"\n",
		h.String())
}

func TestNormalizeContentID(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"a@b", "<a@b>", "cid:a@b", "CID:<a@b>", " <a@b> "} {
		assert.Equal(t, "a@b", header.NormalizeContentID(in), in)
	}
}
