package transfer_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/mimedit/message/transfer"
)

// every byte value, with bare CR and LF scattered through
var allBytes = func() []byte {
	b := make([]byte, 0, 260)
	for i := 0; i < 256; i++ {
		b = append(b, byte(i))
		if i%64 == 0 {
			b = append(b, '\r', '\n')
		}
	}
	return b
}()

func TestAsIs_Decoder(t *testing.T) {
	t.Parallel()

	db, err := io.ReadAll(transfer.NewAsIsDecoder(bytes.NewReader(allBytes)))
	require.NoError(t, err)
	assert.Equal(t, allBytes, db)
}

func TestAsIs_Encoder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	enc := transfer.NewAsIsEncoder(&buf, []byte("\r\n"))

	n, err := enc.Write(allBytes[:100])
	require.NoError(t, err)
	assert.Equal(t, 100, n)

	_, err = enc.Write(allBytes[100:])
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	// no line breaks are added and none are changed
	assert.Equal(t, allBytes, buf.Bytes())
}

func TestAsIs_Identities(t *testing.T) {
	t.Parallel()

	for _, cte := range []string{transfer.None, transfer.Bit7, "8BIT", " binary "} {
		assert.True(t, transfer.IsIdentity(cte), cte)

		enc, err := transfer.Encode(cte, allBytes, []byte("\n"))
		require.NoError(t, err, cte)
		assert.Equal(t, allBytes, enc, cte)
	}

	assert.False(t, transfer.IsIdentity(transfer.Base64))
}
