package field

import "bytes"

// BadStartError is returned when the header begins with text that does not
// appear to be a header field. The skipped text is preserved in the error.
type BadStartError struct {
	BadStart []byte
}

// Error returns the error message.
func (err *BadStartError) Error() string {
	return "header starts with text that does not appear to be a header"
}

// Line is the unparsed content of one complete header field, including any
// continuation lines.
type Line []byte

// Lines is zero or more unparsed header field lines.
type Lines []Line

// ParseLines splits a header block into field lines using the given line
// break. A line starting with a space or tab, or one with no colon, continues
// the previous field. Leading lines that cannot start a field are skipped and
// reported with a BadStartError, but the rest of the fields are still
// returned.
func ParseLines(m, lb []byte) (Lines, error) {
	h := make(Lines, 0, len(m)/80+1)
	var err *BadStartError
	for _, line := range bytes.SplitAfter(m, lb) {
		if len(line) == 0 {
			break
		}

		// the blank line ending the header is not part of any field
		if bytes.Equal(line, lb) {
			continue
		}

		if line[0] == '\t' || line[0] == ' ' || !bytes.Contains(line, []byte(":")) {
			if len(h) == 0 {
				if err != nil {
					err.BadStart = append(err.BadStart, line...)
				} else {
					err = &BadStartError{append([]byte{}, line...)}
				}
				continue
			}

			h[len(h)-1] = append(h[len(h)-1], line...)
		} else {
			h = append(h, append(Line{}, line...))
		}
	}

	if err != nil {
		return h, err
	}
	return h, nil
}

// Parse turns one field line into a Field. The line break given is stripped
// from the end and retained nowhere; the remaining bytes become the raw form of
// the field. The body is unfolded, trimmed and any encoded words are decoded.
func Parse(f Line, lb []byte) *Field {
	rawField := bytes.TrimSuffix(f, lb)

	off := 1
	ix := bytes.IndexByte(rawField, ':')
	if ix < 0 {
		ix = len(rawField)
		off = 0
	}

	name := string(bytes.TrimSpace(Unfold(rawField[:ix])))
	body := string(bytes.TrimSpace(Unfold(rawField[ix+off:])))
	if dec, err := Decode(body); err == nil {
		body = dec
	}

	return &Field{
		Base: Base{name, body},
		raw:  &Raw{rawField, ix},
	}
}
