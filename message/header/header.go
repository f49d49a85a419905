package header

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/mimedit/message/header/param"
)

var (
	// ErrNoSuchField is returned when the named field is not in the header.
	ErrNoSuchField = errors.New("no such header field")

	// ErrNoSuchFieldParameter is returned when the named field is present but
	// the requested parameter is not set on it.
	ErrNoSuchFieldParameter = errors.New("no such header field parameter")

	// ErrManyFields is returned alongside the first value when a field that
	// should appear once appears more than once.
	ErrManyFields = errors.New("many header fields found")

	// ErrWrongAddressType is returned by address setters given something other
	// than a string or an addr.Address.
	ErrWrongAddressType = errors.New("incorrect address type during write")
)

// Field names used by this package. Lookups are case-insensitive, so these
// only decide how newly created fields are spelled.
const (
	Cc                      = "Cc"
	ContentDescription      = "Content-Description"
	ContentDisposition      = "Content-Disposition"
	ContentID               = "Content-ID"
	ContentTransferEncoding = "Content-Transfer-Encoding"
	ContentType             = "Content-Type"
	Date                    = "Date"
	From                    = "From"
	MessageID               = "Message-ID"
	MIMEVersion             = "MIME-Version"
	Subject                 = "Subject"
	To                      = "To"
)

// UnixDateWithEarlyYear is a date layout seen in the wild that the other
// parsers reject.
const UnixDateWithEarlyYear = "Mon Jan 02 15:04:05 2006 MST"

// Header is a Base with typed accessors. Getters return ErrNoSuchField when
// the field is absent.
type Header struct {
	Base
}

// New returns an empty header using the given line break.
func New(lbr Break) *Header {
	return &Header{Base: *NewBase(lbr)}
}

// Clone returns a deep copy of the header.
func (h *Header) Clone() *Header {
	return &Header{Base: *h.Base.Clone()}
}

// Get returns the body of the named field. When the field is repeated, the
// first body is returned along with ErrManyFields.
func (h *Header) Get(name string) (string, error) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		return "", ErrNoSuchField
	}

	b := h.GetField(ixs[0]).Body()
	if len(ixs) > 1 {
		return b, ErrManyFields
	}

	return b, nil
}

// GetAll returns the bodies of every field with the given name.
func (h *Header) GetAll(name string) ([]string, error) {
	fs := h.GetAllFieldsNamed(name)
	if len(fs) == 0 {
		return nil, ErrNoSuchField
	}

	bs := make([]string, len(fs))
	for i, f := range fs {
		bs[i] = f.Body()
	}
	return bs, nil
}

// Set replaces every field with the given name with a single field. The first
// existing field keeps its position. A new field is appended.
func (h *Header) Set(name, body string) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		h.InsertBeforeField(h.Len(), name, body)
		return
	}

	for i := len(ixs) - 1; i > 0; i-- {
		_ = h.DeleteField(ixs[i])
	}

	f := h.GetField(ixs[0])
	f.SetName(name)
	f.SetBody(body)
}

// SetAll makes the named field appear exactly len(bodies) times, reusing
// existing positions first.
func (h *Header) SetAll(name string, bodies ...string) {
	ixs := h.GetIndexesNamed(name)

	for i, b := range bodies {
		if i < len(ixs) {
			h.GetField(ixs[i]).SetBody(b)
			continue
		}
		h.InsertBeforeField(h.Len(), name, b)
	}

	for i := len(ixs) - 1; i >= len(bodies); i-- {
		_ = h.DeleteField(ixs[i])
	}
}

// Delete removes every field with the given name. It returns the number of
// fields removed.
func (h *Header) Delete(name string) int {
	ixs := h.GetIndexesNamed(name)
	for i := len(ixs) - 1; i >= 0; i-- {
		_ = h.DeleteField(ixs[i])
	}
	return len(ixs)
}

// ParseTime parses a date the way RFC 5322 says to and then, failing that,
// tries every other layout it knows.
func ParseTime(body string) (time.Time, error) {
	if t, err := mail.ParseDate(body); err == nil {
		return t, nil
	}

	if t, err := dateparse.ParseAny(body); err == nil {
		return t, nil
	}

	if t, err := time.Parse(UnixDateWithEarlyYear, body); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("time string %q cannot be parsed", body)
}

// GetTime parses the named field as a date.
func (h *Header) GetTime(name string) (time.Time, error) {
	body, err := h.Get(name)
	if err != nil && !errors.Is(err, ErrManyFields) {
		return time.Time{}, err
	}

	return ParseTime(body)
}

// SetTime sets the named field to the given time formatted per RFC 5322.
func (h *Header) SetTime(name string, t time.Time) {
	h.Set(name, t.Format(time.RFC1123Z))
}

// GetParamValue parses the named field as a parameterized value.
func (h *Header) GetParamValue(name string) (*param.Value, error) {
	body, err := h.Get(name)
	if err != nil && !errors.Is(err, ErrManyFields) {
		return nil, err
	}

	return param.Parse(body)
}

// SetParamValue sets the named field to the given parameterized value.
func (h *Header) SetParamValue(name string, pv *param.Value) {
	h.Set(name, pv.String())
}

func (h *Header) getParam(name, p string) (string, error) {
	pv, err := h.GetParamValue(name)
	if err != nil {
		return "", err
	}

	if v := pv.Parameter(p); v != "" {
		return v, nil
	}

	return "", ErrNoSuchFieldParameter
}

func (h *Header) setParam(name, p, v string) error {
	pv, err := h.GetParamValue(name)
	if err != nil {
		return err
	}

	h.SetParamValue(name, param.Modify(pv, param.Set(p, v)))
	return nil
}

// GetContentType returns the Content-Type.
func (h *Header) GetContentType() (*param.Value, error) {
	return h.GetParamValue(ContentType)
}

// SetContentType replaces the Content-Type.
func (h *Header) SetContentType(v *param.Value) {
	h.SetParamValue(ContentType, v)
}

// GetMediaType returns the media type of the Content-Type, lowercased.
func (h *Header) GetMediaType() (string, error) {
	pv, err := h.GetContentType()
	if err != nil {
		return "", err
	}
	return pv.MediaType(), nil
}

// GetCharset returns the charset parameter of the Content-Type.
func (h *Header) GetCharset() (string, error) {
	return h.getParam(ContentType, param.Charset)
}

// SetCharset sets the charset parameter of an existing Content-Type.
func (h *Header) SetCharset(c string) error {
	return h.setParam(ContentType, param.Charset, c)
}

// GetBoundary returns the boundary parameter of the Content-Type.
func (h *Header) GetBoundary() (string, error) {
	return h.getParam(ContentType, param.Boundary)
}

// GetContentDisposition returns the Content-Disposition.
func (h *Header) GetContentDisposition() (*param.Value, error) {
	return h.GetParamValue(ContentDisposition)
}

// GetPresentation returns the disposition, such as "inline" or "attachment",
// lowercased.
func (h *Header) GetPresentation() (string, error) {
	pv, err := h.GetContentDisposition()
	if err != nil {
		return "", err
	}
	return strings.ToLower(pv.Presentation()), nil
}

// GetFilename returns the filename parameter of the Content-Disposition or,
// when that is missing, the name parameter of the Content-Type.
func (h *Header) GetFilename() (string, error) {
	fn, err := h.getParam(ContentDisposition, param.Filename)
	if err == nil {
		return fn, nil
	}

	if n, nerr := h.getParam(ContentType, param.Name); nerr == nil {
		return n, nil
	}

	return "", err
}

// SetFilename sets the filename parameter of the Content-Disposition, creating
// an attachment disposition when there is none.
func (h *Header) SetFilename(fn string) {
	pv, err := h.GetContentDisposition()
	if err != nil {
		pv = param.New("attachment")
	}
	h.SetParamValue(ContentDisposition, param.Modify(pv, param.Set(param.Filename, fn)))
}

// NormalizeContentID strips whitespace, angle brackets, and a leading "cid:"
// so that a Content-ID header and a cid: URI for the same part compare equal.
func NormalizeContentID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) >= 4 && strings.EqualFold(id[:4], "cid:") {
		id = id[4:]
	}
	id = strings.TrimPrefix(id, "<")
	id = strings.TrimSuffix(id, ">")
	return strings.TrimSpace(id)
}

// GetContentID returns the normalized Content-ID.
func (h *Header) GetContentID() (string, error) {
	id, err := h.Get(ContentID)
	if err != nil && !errors.Is(err, ErrManyFields) {
		return "", err
	}
	return NormalizeContentID(id), nil
}

// SetContentID sets the Content-ID, adding angle brackets.
func (h *Header) SetContentID(id string) {
	h.Set(ContentID, "<"+NormalizeContentID(id)+">")
}

// GetTransferEncoding returns the Content-Transfer-Encoding, lowercased and
// trimmed.
func (h *Header) GetTransferEncoding() (string, error) {
	cte, err := h.Get(ContentTransferEncoding)
	if err != nil && !errors.Is(err, ErrManyFields) {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(cte)), nil
}

// SetTransferEncoding replaces the Content-Transfer-Encoding.
func (h *Header) SetTransferEncoding(cte string) {
	h.Set(ContentTransferEncoding, cte)
}

// GetSubject returns the Subject.
func (h *Header) GetSubject() (string, error) {
	return h.Get(Subject)
}

// SetSubject replaces the Subject.
func (h *Header) SetSubject(s string) {
	h.Set(Subject, s)
}

// GetDate returns the Date.
func (h *Header) GetDate() (time.Time, error) {
	return h.GetTime(Date)
}

// SetDate replaces the Date.
func (h *Header) SetDate(d time.Time) {
	h.SetTime(Date, d)
}

// ParseAddressList parses an address field strictly and falls back to a very
// forgiving parse when that fails, so some value is always returned.
func ParseAddressList(body string) addr.AddressList {
	al, err := addr.ParseEmailAddressList(body)
	if err != nil {
		al = parseLenientAddressList(body)
	}
	return al
}

// GetAddressList parses the named field as an address list.
func (h *Header) GetAddressList(name string) (addr.AddressList, error) {
	body, err := h.Get(name)
	if err != nil && !errors.Is(err, ErrManyFields) {
		return nil, err
	}
	return ParseAddressList(body), nil
}

// SetAddressList sets the named field from strings or addr.Address values.
// Strings are parsed strictly.
func (h *Header) SetAddressList(name string, as ...any) error {
	var al addr.AddressList
	for _, a := range as {
		switch v := a.(type) {
		case string:
			parsed, err := addr.ParseEmailAddressList(v)
			if err != nil {
				return err
			}
			al = append(al, parsed...)
		case addr.Address:
			al = append(al, v)
		default:
			return ErrWrongAddressType
		}
	}

	h.Set(name, al.String())
	return nil
}

// GetFrom returns the From addresses.
func (h *Header) GetFrom() (addr.AddressList, error) {
	return h.GetAddressList(From)
}

// SetFrom replaces the From addresses.
func (h *Header) SetFrom(a ...any) error {
	return h.SetAddressList(From, a...)
}

// GetTo returns the To addresses.
func (h *Header) GetTo() (addr.AddressList, error) {
	return h.GetAddressList(To)
}

// SetTo replaces the To addresses.
func (h *Header) SetTo(a ...any) error {
	return h.SetAddressList(To, a...)
}

// parseLenientAddressList splits on commas, pulls out parenthesized comments,
// and treats the last word of each piece as the address and everything before
// it as the display name. Groups are not recognized.
func parseLenientAddressList(v string) addr.AddressList {
	pieces := strings.Split(v, ",")
	as := make(addr.AddressList, 0, len(pieces))
	for _, orig := range pieces {
		clean, comment := splitComments(orig)

		words := strings.Fields(clean)
		if len(words) == 0 {
			continue
		}

		email := strings.Trim(words[len(words)-1], "<>")
		dn := strings.Join(words[:len(words)-1], " ")

		local, domain := email, ""
		if i := strings.LastIndex(email, "@"); i > -1 {
			local, domain = email[:i], email[i+1:]
		}
		spec := addr.NewAddrSpecParsed(local, domain, email)

		mb, err := addr.NewMailboxParsed(dn, spec, strings.TrimSpace(comment), orig)
		if err != nil {
			mb, _ = addr.NewMailboxParsed(dn, spec, "", orig)
		}
		as = append(as, mb)
	}
	return as
}

// splitComments separates parenthesized comments, which may nest, from the
// rest of s.
func splitComments(s string) (clean, comment string) {
	var cb, mb strings.Builder
	depth := 0
	for _, c := range s {
		switch {
		case c == '(':
			if depth > 0 {
				mb.WriteRune(c)
			}
			depth++
		case c == ')' && depth > 0:
			depth--
			if depth > 0 {
				mb.WriteRune(c)
			}
		case depth > 0:
			mb.WriteRune(c)
		default:
			cb.WriteRune(c)
		}
	}
	return cb.String(), mb.String()
}
