package header

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/zostay/mimedit/message/header/field"
)

// ErrIndexOutOfRange is returned when a field index is outside the header.
var ErrIndexOutOfRange = errors.New("header field index is out of range")

// Base is the low-level header: the ordered fields, the line break, and the
// folding rules used for fields that have no original bytes.
type Base struct {
	lbr    Break
	vf     *field.FoldEncoding
	fields []*field.Field
}

// NewBase returns an empty header using the given line break.
func NewBase(lbr Break) *Base {
	return &Base{lbr: lbr, vf: field.DefaultFoldEncoding}
}

// FoldEncoding returns the folding rules used when writing modified fields.
func (h *Base) FoldEncoding() *field.FoldEncoding {
	if h.vf == nil {
		return field.DefaultFoldEncoding
	}
	return h.vf
}

// SetFoldEncoding changes the folding rules used when writing modified fields.
func (h *Base) SetFoldEncoding(vf *field.FoldEncoding) {
	h.vf = vf
}

// Break returns the line break. A zero header uses CRLF.
func (h *Base) Break() Break {
	if h.lbr == "" {
		return CRLF
	}
	return h.lbr
}

// SetBreak changes the line break.
func (h *Base) SetBreak(lbr Break) {
	h.lbr = lbr
}

// Len returns the number of fields.
func (h *Base) Len() int {
	return len(h.fields)
}

// GetField returns the nth field or nil.
func (h *Base) GetField(n int) *field.Field {
	if n < 0 || n >= len(h.fields) {
		return nil
	}
	return h.fields[n]
}

// GetFieldNamed returns the nth (0-indexed) field with the given name, compared
// case-insensitively, or nil.
func (h *Base) GetFieldNamed(name string, n int) *field.Field {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			if n == 0 {
				return f
			}
			n--
		}
	}
	return nil
}

// GetAllFieldsNamed returns every field with the given name.
func (h *Base) GetAllFieldsNamed(name string) []*field.Field {
	var fs []*field.Field
	for _, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			fs = append(fs, f)
		}
	}
	return fs
}

// GetIndexesNamed returns the indexes of every field with the given name.
func (h *Base) GetIndexesNamed(name string) []int {
	var is []int
	for i, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			is = append(is, i)
		}
	}
	return is
}

// ListFields returns a copy of the field list.
func (h *Base) ListFields() []*field.Field {
	return append([]*field.Field(nil), h.fields...)
}

// InsertBeforeField inserts a new field at index n, clamped to the valid range.
func (h *Base) InsertBeforeField(n int, name, body string) {
	if n < 0 {
		n = 0
	}
	if n > len(h.fields) {
		n = len(h.fields)
	}

	h.fields = append(h.fields, nil)
	copy(h.fields[n+1:], h.fields[n:])
	h.fields[n] = field.New(name, body)
}

// AppendField adds an existing field to the end of the header.
func (h *Base) AppendField(f *field.Field) {
	h.fields = append(h.fields, f)
}

// DeleteField removes the nth field.
func (h *Base) DeleteField(n int) error {
	if n < 0 || n >= len(h.fields) {
		return ErrIndexOutOfRange
	}

	h.fields = append(h.fields[:n], h.fields[n+1:]...)
	return nil
}

// ClearFields removes every field.
func (h *Base) ClearFields() {
	h.fields = h.fields[:0]
}

// WriteTo writes every field followed by the blank line that ends the header.
func (h *Base) WriteTo(w io.Writer) (int64, error) {
	total, err := h.WriteFieldsTo(w)
	if err != nil {
		return total, err
	}

	n, err := w.Write(h.Break().Bytes())
	return total + int64(n), err
}

// WriteFieldsTo writes every field, each ending in a line break, without the
// blank line that ends the header.
func (h *Base) WriteFieldsTo(w io.Writer) (int64, error) {
	lbr := h.Break().Bytes()

	var total int64
	for _, f := range h.fields {
		if raw := f.Raw(); raw != nil {
			n, err := w.Write(raw.Bytes())
			total += int64(n)
			if err != nil {
				return total, err
			}

			n, err = w.Write(lbr)
			total += int64(n)
			if err != nil {
				return total, err
			}
			continue
		}

		n, err := h.FoldEncoding().Fold(w, f.Bytes(), lbr)
		total += n
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// Bytes returns the header as it would be written.
func (h *Base) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = h.WriteTo(&buf)
	return buf.Bytes()
}

// String returns the header as it would be written.
func (h *Base) String() string {
	return string(h.Bytes())
}

// Clone returns a copy of the header whose fields may be changed without
// affecting the original.
func (h *Base) Clone() *Base {
	c := &Base{lbr: h.lbr, vf: h.vf, fields: make([]*field.Field, len(h.fields))}
	for i, f := range h.fields {
		c.fields[i] = f.Clone()
	}
	return c
}
