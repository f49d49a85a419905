package transfer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/mimedit/message/transfer"
)

const dec = `1 Timothy 6:10 - For the love of money is a root of all kinds of evils. It is through this craving that some have wandered away from the faith and pierced themselves with many pangs.`
const enc = `MSBUaW1vdGh5IDY6MTAgLSBGb3IgdGhlIGxvdmUgb2YgbW9uZXkgaXMgYSByb290IG9mIGFsbCBr
aW5kcyBvZiBldmlscy4gSXQgaXMgdGhyb3VnaCB0aGlzIGNyYXZpbmcgdGhhdCBzb21lIGhhdmUg
d2FuZGVyZWQgYXdheSBmcm9tIHRoZSBmYWl0aCBhbmQgcGllcmNlZCB0aGVtc2VsdmVzIHdpdGgg
bWFueSBwYW5ncy4=
`

func TestNewBase64Encoder(t *testing.T) {
	t.Parallel()

	w := &bytes.Buffer{}
	e := transfer.NewBase64Encoder(w, []byte("\n"))

	// many small writes must wrap at the same places as one large one
	for _, b := range []byte(dec) {
		_, err := e.Write([]byte{b})
		require.NoError(t, err)
	}
	require.NoError(t, e.Close())

	assert.Equal(t, enc, w.String())
}

func TestNewBase64Encoder_ExactLine(t *testing.T) {
	t.Parallel()

	// 57 bytes encode to exactly one 76 character line
	out, err := transfer.Encode(transfer.Base64, bytes.Repeat([]byte{0xff}, 57), []byte("\r\n"))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("/", 76)+"\r\n", string(out))

	out, err = transfer.Encode(transfer.Base64, nil, []byte("\r\n"))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestNewBase64Decoder(t *testing.T) {
	t.Parallel()

	out, err := transfer.Decode(transfer.Base64, []byte(strings.ReplaceAll(enc, "\n", "\r\n")))
	require.NoError(t, err)
	assert.Equal(t, dec, string(out))
}
