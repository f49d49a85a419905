package transfer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

var (
	// ErrConversion is matched by every character set failure, whether the
	// charset is unknown or the bytes cannot be represented.
	ErrConversion = errors.New("character set conversion failed")

	// ErrUnsupportedCharset is returned for a charset label with no known
	// encoding.
	ErrUnsupportedCharset = errors.New("unsupported character set")

	errNotASCII = errors.New("byte outside of US-ASCII")
)

// CharsetError describes a failure converting to or from a charset.
type CharsetError struct {
	Charset string
	Err     error
}

// Error returns the error message.
func (e *CharsetError) Error() string {
	return fmt.Sprintf("charset %q: %v", e.Charset, e.Err)
}

// Unwrap returns the underlying error.
func (e *CharsetError) Unwrap() error {
	return e.Err
}

// Is matches ErrConversion.
func (e *CharsetError) Is(target error) bool {
	return target == ErrConversion
}

// IsUTF8 reports whether the label names UTF-8.
func IsUTF8(label string) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "utf-8", "utf8":
		return true
	}
	return false
}

func isASCII(label string) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "us-ascii", "ascii", "ansi_x3.4-1968", "iso646-us":
		return true
	}
	return false
}

// LookupCharset returns the encoding for a MIME charset label. The IANA
// registry is consulted first and the WHATWG label list second. UTF-8 is
// returned as encoding.Nop and US-ASCII as a strict encoding that rejects
// anything outside of seven bits.
func LookupCharset(label string) (encoding.Encoding, error) {
	switch {
	case IsUTF8(label):
		return encoding.Nop, nil
	case isASCII(label):
		return asciiEncoding{}, nil
	}

	name := strings.TrimSpace(label)
	if enc, err := ianaindex.MIME.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}

	if enc, err := htmlindex.Get(name); err == nil && enc != nil {
		return enc, nil
	}

	return nil, &CharsetError{label, ErrUnsupportedCharset}
}

// NewCharsetReader returns a reader converting r from the named charset to
// UTF-8.
func NewCharsetReader(label string, r io.Reader) (io.Reader, error) {
	enc, err := LookupCharset(label)
	if err != nil {
		return nil, err
	}
	if enc == encoding.Nop {
		return r, nil
	}
	return &charsetReader{label, transform.NewReader(r, enc.NewDecoder())}, nil
}

// NewCharsetWriter returns a writer converting UTF-8 written to it into the
// named charset on w. Close must be called to flush.
func NewCharsetWriter(label string, w io.Writer) (io.WriteCloser, error) {
	enc, err := LookupCharset(label)
	if err != nil {
		return nil, err
	}
	if enc == encoding.Nop {
		return &writer{w, nil}, nil
	}
	return &charsetWriter{label, transform.NewWriter(w, enc.NewEncoder())}, nil
}

// ToUTF8 converts p from the named charset to UTF-8.
func ToUTF8(label string, p []byte) ([]byte, error) {
	enc, err := LookupCharset(label)
	if err != nil {
		return nil, err
	}

	out, _, err := transform.Bytes(enc.NewDecoder(), p)
	if err != nil {
		return nil, &CharsetError{label, err}
	}
	return out, nil
}

// FromUTF8 converts UTF-8 p to the named charset. Characters the charset
// cannot represent are an error.
func FromUTF8(label string, p []byte) ([]byte, error) {
	enc, err := LookupCharset(label)
	if err != nil {
		return nil, err
	}

	out, _, err := transform.Bytes(enc.NewEncoder(), p)
	if err != nil {
		return nil, &CharsetError{label, err}
	}
	return out, nil
}

type charsetReader struct {
	label string
	r     io.Reader
}

func (cr *charsetReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		err = &CharsetError{cr.label, err}
	}
	return n, err
}

type charsetWriter struct {
	label string
	w     io.WriteCloser
}

func (cw *charsetWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	if err != nil {
		err = &CharsetError{cw.label, err}
	}
	return n, err
}

func (cw *charsetWriter) Close() error {
	if err := cw.w.Close(); err != nil {
		return &CharsetError{cw.label, err}
	}
	return nil
}

// asciiEncoding copies seven bit bytes and fails on anything else, in both
// directions.
type asciiEncoding struct{}

func (asciiEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: asciiTransformer{}}
}

func (asciiEncoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: asciiTransformer{}}
}

type asciiTransformer struct{ transform.NopResetter }

func (asciiTransformer) Transform(dst, src []byte, _ bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		if src[nSrc] > 0x7f {
			return nDst, nSrc, errNotASCII
		}
		dst[nDst] = src[nSrc]
		nDst++
		nSrc++
	}
	return nDst, nSrc, nil
}
