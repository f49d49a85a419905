package transfer

import (
	"bytes"
	"io"
	"mime/quotedprintable"
)

var crlf = []byte("\r\n")

// softBreakWriter rewrites the CRLF that quotedprintable.Writer places after
// each soft line break into the document's line break. A soft break is always
// flushed in the same Write as its CRLF.
type softBreakWriter struct {
	w  io.Writer
	lb []byte
}

func (sw *softBreakWriter) Write(p []byte) (int, error) {
	if bytes.Equal(sw.lb, crlf) {
		return sw.w.Write(p)
	}

	if _, err := sw.w.Write(bytes.ReplaceAll(p, crlf, sw.lb)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// qpEncoder encodes each line of its input separately. Hard line breaks
// matching lb are written as they are and everything else, including stray CR
// and LF bytes, is escaped, so decoding always returns the original bytes.
type qpEncoder struct {
	dst     *softBreakWriter
	lb      []byte
	line    *quotedprintable.Writer
	pending []byte
}

func (e *qpEncoder) newLine() {
	e.line = quotedprintable.NewWriter(e.dst)
	e.line.Binary = true
}

func (e *qpEncoder) Write(p []byte) (int, error) {
	data := append(e.pending, p...)
	e.pending = nil

	for {
		ix := bytes.Index(data, e.lb)
		if ix < 0 {
			break
		}

		if _, err := e.line.Write(data[:ix]); err != nil {
			return 0, err
		}
		if err := e.line.Close(); err != nil {
			return 0, err
		}
		if _, err := e.dst.w.Write(e.lb); err != nil {
			return 0, err
		}

		e.newLine()
		data = data[ix+len(e.lb):]
	}

	// hold back a tail that might be the start of a line break
	keep := 0
	for k := len(e.lb) - 1; k > 0; k-- {
		if len(data) >= k && bytes.HasPrefix(e.lb, data[len(data)-k:]) {
			keep = k
			break
		}
	}

	if _, err := e.line.Write(data[:len(data)-keep]); err != nil {
		return 0, err
	}
	e.pending = append([]byte(nil), data[len(data)-keep:]...)

	return len(p), nil
}

func (e *qpEncoder) Close() error {
	if len(e.pending) > 0 {
		if _, err := e.line.Write(e.pending); err != nil {
			return err
		}
		e.pending = nil
	}
	return e.line.Close()
}

// NewQuotedPrintableEncoder returns an encoder writing quoted-printable with
// hard and soft line breaks written as lb. A bare CR is not usable as a
// quoted-printable line break, so CRLF is used in its place.
func NewQuotedPrintableEncoder(w io.Writer, lb []byte) io.WriteCloser {
	if len(lb) == 0 || bytes.Equal(lb, []byte("\r")) {
		lb = crlf
	}

	e := &qpEncoder{dst: &softBreakWriter{w, lb}, lb: lb}
	e.newLine()
	return e
}

// NewQuotedPrintableDecoder returns a reader decoding quoted-printable from r.
func NewQuotedPrintableDecoder(r io.Reader) io.Reader {
	return quotedprintable.NewReader(r)
}
