package header

import "bytes"

// Break is the line break used to terminate each header field and the header
// block itself.
type Break string

const (
	CRLF Break = "\x0d\x0a" // network line break, the default for new documents
	LF   Break = "\x0a"     // Unix line break
	CR   Break = "\x0d"     // classic Mac line break
)

// String returns the break as a string.
func (b Break) String() string {
	return string(b)
}

// Bytes returns the break as a slice of bytes.
func (b Break) Bytes() []byte {
	return []byte(b)
}

// DetectBreak returns the first line break found in p. It returns CRLF when p
// contains no line break at all.
func DetectBreak(p []byte) Break {
	ix := bytes.IndexAny(p, "\r\n")
	switch {
	case ix < 0:
		return CRLF
	case p[ix] == '\n':
		return LF
	case ix+1 < len(p) && p[ix+1] == '\n':
		return CRLF
	default:
		return CR
	}
}
