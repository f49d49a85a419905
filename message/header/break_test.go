package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/mimedit/message/header"
)

func TestBreak_Bytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []byte{0x0d, 0x0a}, header.CRLF.Bytes())
	assert.Equal(t, []byte{0x0a}, header.LF.Bytes())
	assert.Equal(t, []byte{0x0d}, header.CR.Bytes())
	assert.Equal(t, "\r\n", header.CRLF.String())
}

func TestDetectBreak(t *testing.T) {
	t.Parallel()

	assert.Equal(t, header.CRLF, header.DetectBreak([]byte("a: b\r\nc: d\r\n")))
	assert.Equal(t, header.LF, header.DetectBreak([]byte("a: b\nc: d\n")))
	assert.Equal(t, header.CR, header.DetectBreak([]byte("a: b\rc: d\r")))
	assert.Equal(t, header.CR, header.DetectBreak([]byte("a: b\r")))
	assert.Equal(t, header.CRLF, header.DetectBreak([]byte("a: b")))
}
