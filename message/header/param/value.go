package param

import (
	"errors"
	"fmt"
	"mime"
	"sort"
	"strings"
)

const (
	Charset  = "charset"  // Content-type parameter naming the text charset
	Boundary = "boundary" // Content-type parameter naming the multipart boundary
	Filename = "filename" // Content-disposition parameter naming the file
	Name     = "name"     // Content-type parameter some mailers use in place of filename
)

// Value is a parsed parameterized header body. A Value is never changed in
// place. Use Modify to derive a new Value from an old one.
type Value struct {
	v  string
	ps map[string]string
}

// ErrUnterminatedQuote is returned when a quoted parameter value has no
// closing quote.
var ErrUnterminatedQuote = errors.New("unterminated quoted parameter value")

// Parse parses a header body as a Value. Parameter names are lowercased and
// RFC 2231 continuations are joined.
//
// Mailers often leave values unquoted that must be quoted, as in
// "multipart/related; boundary=b1; type=text/html". When a parameter is
// rejected for that reason the parameters are read again leniently: any
// unquoted value up to the next semicolon is accepted. A quoted value that is
// never closed, or a parameter without a name, is still an error.
func Parse(v string) (*Value, error) {
	mt, ps, err := mime.ParseMediaType(v)
	if errors.Is(err, mime.ErrInvalidMediaParameter) {
		ps, err = parseLenient(v)
	}
	if err != nil {
		return nil, err
	}

	return &Value{mt, ps}, nil
}

// parseLenient reads the parameters of v split on the semicolons that are not
// inside quotes. The first value given for a name wins.
func parseLenient(v string) (map[string]string, error) {
	ps := map[string]string{}

	_, rest, _ := strings.Cut(v, ";")
	for rest != "" {
		p, next, err := nextParam(rest)
		if err != nil {
			return nil, err
		}
		rest = next

		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		name, value, ok := strings.Cut(p, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", mime.ErrInvalidMediaParameter, p)
		}

		if _, dup := ps[name]; !dup {
			ps[name] = unquote(strings.TrimSpace(value))
		}
	}

	return ps, nil
}

// nextParam returns the text up to the next semicolon outside quotes and the
// text after it.
func nextParam(s string) (string, string, error) {
	quoted, escaped := false, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case escaped:
			escaped = false
		case quoted && c == '\\':
			escaped = true
		case c == '"':
			quoted = !quoted
		case !quoted && c == ';':
			return s[:i], s[i+1:], nil
		}
	}

	if quoted {
		return "", "", fmt.Errorf("%w: %w", mime.ErrInvalidMediaParameter, ErrUnterminatedQuote)
	}
	return s, "", nil
}

// unquote removes the quotes and backslash escapes of a quoted string. Other
// values are returned as they are.
func unquote(v string) string {
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
		return v
	}

	var sb strings.Builder
	inner := v[1 : len(v)-1]
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
		}
		sb.WriteByte(inner[i])
	}
	return sb.String()
}

// New returns a Value with the given primary value. Any parameter maps given
// are merged in order.
func New(v string, ps ...map[string]string) *Value {
	pv := &Value{v, map[string]string{}}
	for _, m := range ps {
		for k, val := range m {
			pv.ps[strings.ToLower(k)] = val
		}
	}
	return pv
}

// Modifier is one change applied by Modify.
type Modifier func(*Value)

// Change replaces the primary value.
func Change(value string) Modifier {
	return func(pv *Value) {
		pv.v = value
	}
}

// Set sets the named parameter.
func Set(name, value string) Modifier {
	return func(pv *Value) {
		pv.ps[strings.ToLower(name)] = value
	}
}

// Delete removes the named parameter.
func Delete(name string) Modifier {
	return func(pv *Value) {
		delete(pv.ps, strings.ToLower(name))
	}
}

// Modify returns a copy of pv with the changes applied in order:
//
//	v, _ := param.Parse("multipart/mixed; boundary=abc123")
//	nv := param.Modify(v, param.Change("multipart/related"), param.Set("type", "text/html"))
func Modify(pv *Value, changes ...Modifier) *Value {
	c := pv.Clone()
	for _, change := range changes {
		change(c)
	}
	return c
}

// Value returns the part before the first semicolon.
func (pv *Value) Value() string {
	return pv.v
}

// Presentation is Value under the name used for Content-disposition, which
// is usually "inline" or "attachment".
func (pv *Value) Presentation() string {
	return pv.v
}

// MediaType is Value under the name used for Content-type.
func (pv *Value) MediaType() string {
	return pv.v
}

// Type returns the part of the media type before the slash, or an empty string
// if there is no slash.
func (pv *Value) Type() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[:ix]
	}
	return ""
}

// Subtype returns the part of the media type after the slash, or an empty
// string if there is no slash.
func (pv *Value) Subtype() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[ix+1:]
	}
	return ""
}

// IsMultipart reports whether the media type is any multipart/* type.
func (pv *Value) IsMultipart() bool {
	return strings.EqualFold(pv.Type(), "multipart")
}

// IsText reports whether the media type is any text/* type.
func (pv *Value) IsText() bool {
	return strings.EqualFold(pv.Type(), "text")
}

// Parameters returns the parameter map. It must not be modified.
func (pv *Value) Parameters() map[string]string {
	return pv.ps
}

// Parameter returns the named parameter or an empty string.
func (pv *Value) Parameter(k string) string {
	return pv.ps[strings.ToLower(k)]
}

// Filename returns the filename parameter.
func (pv *Value) Filename() string {
	return pv.ps[Filename]
}

// Charset returns the charset parameter.
func (pv *Value) Charset() string {
	return pv.ps[Charset]
}

// Boundary returns the boundary parameter.
func (pv *Value) Boundary() string {
	return pv.ps[Boundary]
}

// String renders the Value with parameters sorted by name. Parameter values
// are quoted when they need to be.
func (pv *Value) String() string {
	if s := mime.FormatMediaType(pv.v, pv.ps); s != "" {
		return s
	}

	// FormatMediaType refuses values it does not consider tokens, such as a
	// media type without a slash, so fall back to naive formatting
	pks := make([]string, 0, len(pv.ps))
	for k := range pv.ps {
		pks = append(pks, k)
	}
	sort.Strings(pks)

	var sb strings.Builder
	sb.WriteString(pv.v)
	for _, k := range pks {
		sb.WriteString("; ")
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(quote(pv.ps[k]))
	}
	return sb.String()
}

func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\"()<>@,;:\\/[]?=") {
		return s
	}
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

// Bytes returns String as bytes.
func (pv *Value) Bytes() []byte {
	return []byte(pv.String())
}

// Clone returns a deep copy.
func (pv *Value) Clone() *Value {
	c := &Value{v: pv.v, ps: make(map[string]string, len(pv.ps))}
	for k, v := range pv.ps {
		c.ps[k] = v
	}
	return c
}
