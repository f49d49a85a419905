package scanner

import "bytes"

// LineLength returns the length of the first line of data including its line
// break, which may be CRLF, LF, or a lone CR. It returns 0 when more data is
// needed to find the end of the line. At EOF a final line without a break is
// returned whole.
func LineLength(data []byte, atEOF bool) int {
	ix := bytes.IndexAny(data, "\r\n")
	switch {
	case ix < 0:
		if atEOF {
			return len(data)
		}
		return 0
	case data[ix] == '\n':
		return ix + 1
	case ix+1 < len(data):
		if data[ix+1] == '\n' {
			return ix + 2
		}
		return ix + 1
	case atEOF:
		return ix + 1
	default:
		// a CR at the end of the buffer might be the first half of a CRLF
		return 0
	}
}

// ScanLines is a bufio.SplitFunc like bufio.ScanLines, except that it
// recognizes a lone CR as a line break and leaves the line break on the
// returned token.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	n := LineLength(data, atEOF)
	if n == 0 {
		return 0, nil, nil
	}
	return n, data[:n], nil
}

// TrimBreak splits a line into its content and its line break.
func TrimBreak(line []byte) (content, lb []byte) {
	switch {
	case bytes.HasSuffix(line, []byte("\r\n")):
		return line[:len(line)-2], line[len(line)-2:]
	case bytes.HasSuffix(line, []byte("\n")), bytes.HasSuffix(line, []byte("\r")):
		return line[:len(line)-1], line[len(line)-1:]
	}
	return line, nil
}
