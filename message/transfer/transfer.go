package transfer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	None            = ""                 // bytes will be left as-is
	Bit7            = "7bit"             // bytes will be left as-is
	Bit8            = "8bit"             // bytes will be left as-is
	Binary          = "binary"           // bytes will be left as-is
	QuotedPrintable = "quoted-printable" // bytes will be transformed between quoted-printable and binary data
	Base64          = "base64"           // bytes will be transformed between base64 and binary data
)

// ErrUnsupportedEncoding is returned for a transfer encoding with no entry in
// Transcodings.
var ErrUnsupportedEncoding = errors.New("unsupported transfer encoding")

// Transcoding is the pair of functions that move bytes into and out of one
// transfer encoding.
type Transcoding struct {
	// Encoder returns a writer that encodes whatever is written to it onto w,
	// breaking lines with lb where the encoding has lines. Close must be
	// called to flush the final line. Closing does not close w.
	Encoder func(w io.Writer, lb []byte) io.WriteCloser

	// Decoder returns a reader that decodes what it reads from r.
	Decoder func(r io.Reader) io.Reader
}

// AsIsTranscoder passes bytes through unchanged.
var AsIsTranscoder = Transcoding{NewAsIsEncoder, NewAsIsDecoder}

// Transcodings maps each supported Content-Transfer-Encoding to its
// Transcoding. Keys are lowercase.
var Transcodings = map[string]Transcoding{
	None:            AsIsTranscoder,
	Bit7:            AsIsTranscoder,
	Bit8:            AsIsTranscoder,
	Binary:          AsIsTranscoder,
	QuotedPrintable: {NewQuotedPrintableEncoder, NewQuotedPrintableDecoder},
	Base64:          {NewBase64Encoder, NewBase64Decoder},
}

// Normalize lowercases and trims a Content-Transfer-Encoding value.
func Normalize(cte string) string {
	return strings.ToLower(strings.TrimSpace(cte))
}

// IsIdentity reports whether the encoding leaves bytes unchanged.
func IsIdentity(cte string) bool {
	switch Normalize(cte) {
	case None, Bit7, Bit8, Binary:
		return true
	}
	return false
}

// Equivalent reports whether two Content-Transfer-Encoding values name the
// same encoding. A missing value is the same as 7bit.
func Equivalent(a, b string) bool {
	a, b = Normalize(a), Normalize(b)
	if a == None {
		a = Bit7
	}
	if b == None {
		b = Bit7
	}
	return a == b
}

func lookup(cte string) (Transcoding, error) {
	tc, ok := Transcodings[Normalize(cte)]
	if !ok {
		return Transcoding{}, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, cte)
	}
	return tc, nil
}

// NewEncoder returns an encoder for the named encoding writing onto w.
func NewEncoder(cte string, w io.Writer, lb []byte) (io.WriteCloser, error) {
	tc, err := lookup(cte)
	if err != nil {
		return nil, err
	}
	return tc.Encoder(w, lb), nil
}

// NewDecoder returns a decoder for the named encoding reading from r.
func NewDecoder(cte string, r io.Reader) (io.Reader, error) {
	tc, err := lookup(cte)
	if err != nil {
		return nil, err
	}
	return tc.Decoder(r), nil
}

// Encode encodes p in memory.
func Encode(cte string, p, lb []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := NewEncoder(cte, &buf, lb)
	if err != nil {
		return nil, err
	}

	if _, err := enc.Write(p); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode decodes p in memory.
func Decode(cte string, p []byte) ([]byte, error) {
	dec, err := NewDecoder(cte, bytes.NewReader(p))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(dec)
}

// Recode streams r, encoded as from, onto w encoded as to. When the two
// encodings are equivalent the bytes are copied unchanged.
func Recode(w io.Writer, r io.Reader, from, to string, lb []byte) (int64, error) {
	if Equivalent(from, to) {
		if _, err := lookup(from); err != nil {
			return 0, err
		}
		return io.Copy(w, r)
	}

	dec, err := NewDecoder(from, r)
	if err != nil {
		return 0, err
	}

	cw := &countWriter{w: w}
	enc, err := NewEncoder(to, cw, lb)
	if err != nil {
		return 0, err
	}

	if _, err := io.Copy(enc, dec); err != nil {
		return cw.n, err
	}

	err = enc.Close()
	return cw.n, err
}
