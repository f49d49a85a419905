package transfer

import (
	"encoding/base64"
	"io"
)

// Base64LineLength is the length of each line of base64 output, not counting
// the line break.
const Base64LineLength = 76

type base64Encoder struct {
	enc io.WriteCloser
	lw  *lineWriter
}

func (e *base64Encoder) Write(p []byte) (int, error) {
	return e.enc.Write(p)
}

func (e *base64Encoder) Close() error {
	if err := e.enc.Close(); err != nil {
		return err
	}
	return e.lw.Close()
}

// NewBase64Encoder returns an encoder writing base64 lines of
// Base64LineLength characters, each terminated by lb.
func NewBase64Encoder(w io.Writer, lb []byte) io.WriteCloser {
	if len(lb) == 0 {
		lb = []byte("\r\n")
	}

	lw := &lineWriter{every: Base64LineLength, lbr: lb, w: w}
	return &base64Encoder{base64.NewEncoder(base64.StdEncoding, lw), lw}
}

// NewBase64Decoder returns a reader decoding base64 from r. Line breaks in the
// input are ignored.
func NewBase64Decoder(r io.Reader) io.Reader {
	return base64.NewDecoder(base64.StdEncoding, r)
}
