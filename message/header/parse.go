package header

import (
	"errors"

	"github.com/zostay/mimedit/message/header/field"
)

// Parse parses a header block using the given line break. The block may or may
// not include the blank line that ends it.
//
// The returned header keeps every field's original bytes and uses
// field.DoNotFoldEncoding, so writing it back reproduces the input. A
// field.BadStartError is returned along with the header when the block begins
// with text that is not a field; the text is dropped.
func Parse(m []byte, lb Break) (*Header, error) {
	lines, err := field.ParseLines(m, lb.Bytes())

	var badStart *field.BadStartError
	if err != nil && !errors.As(err, &badStart) {
		return nil, err
	}

	h := &Header{Base: Base{
		lbr:    lb,
		vf:     field.DoNotFoldEncoding,
		fields: make([]*field.Field, len(lines)),
	}}
	for i, line := range lines {
		h.fields[i] = field.Parse(line, lb.Bytes())
	}

	if badStart != nil {
		return h, badStart
	}
	return h, nil
}
