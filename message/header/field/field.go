package field

import "bytes"

// Field is a single header field. It pairs the decoded name and body with the
// original bytes the field was parsed from, when there are any.
type Field struct {
	Base
	raw *Raw
}

// New constructs a new field with no original bytes.
func New(name, body string) *Field {
	return &Field{Base: Base{name, body}}
}

// SetName changes the field name and forgets the original bytes.
func (f *Field) SetName(name string) {
	f.Base.SetName(name)
	f.raw = nil
}

// SetBody changes the field body and forgets the original bytes.
func (f *Field) SetBody(body string) {
	f.Base.SetBody(body)
	f.raw = nil
}

// SetRaw replaces the bytes that will be output for this field without
// changing the name or body reported by the field.
func (f *Field) SetRaw(raw []byte) {
	colon := bytes.IndexByte(raw, ':')
	if colon < 0 {
		colon = len(raw)
	}
	f.raw = &Raw{raw, colon}
}

// Raw returns the original bytes of the field or nil if the field has been
// created or modified since it was parsed.
func (f *Field) Raw() *Raw {
	return f.raw
}

// String returns the field as it will be written, either the original bytes or
// the field rendered from name and body.
func (f *Field) String() string {
	if f.raw != nil {
		return f.raw.String()
	}
	return f.Base.String()
}

// Bytes returns the field as it will be written.
func (f *Field) Bytes() []byte {
	if f.raw != nil {
		return f.raw.Bytes()
	}
	return f.Base.Bytes()
}

// Clone returns a copy of the field. The raw bytes are shared since they are
// never modified in place.
func (f *Field) Clone() *Field {
	c := *f
	return &c
}
