package transfer

import "io"

// NewAsIsEncoder returns an io.WriteCloser that writes bytes as-is. The line
// break is ignored.
func NewAsIsEncoder(w io.Writer, _ []byte) io.WriteCloser {
	return &writer{w, nil}
}

// NewAsIsDecoder returns r.
func NewAsIsDecoder(r io.Reader) io.Reader {
	return r
}
