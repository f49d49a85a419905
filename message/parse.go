package message

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zostay/mimedit/internal/scanner"
	"github.com/zostay/mimedit/message/header"
	"github.com/zostay/mimedit/message/header/field"
	"github.com/zostay/mimedit/message/header/param"
)

var splits = [][]byte{
	[]byte("\x0d\x0a\x0d\x0a"), // \r\n\r\n
	[]byte("\x0a\x0a"),         // \n\n
	[]byte("\x0d\x0d"),         // \r\r
}

// Parse reads a message from r and returns it as a Document.
//
// The input is read in chunks of WithChunkSize bytes until EOF. The whole
// input is held in memory while the tree is built, so the input may be no
// larger than WithMaxPartLength allows. Each entity's header ends at the first
// blank line; the line break found there is the line break of that header.
//
// An entity whose Content-Type is multipart/* becomes a container. Its body is
// split on the delimiter lines of its boundary parameter and each part is
// parsed the same way. Everything else becomes a leaf whose body is stored
// exactly as found, still transfer encoded. The text before the first
// delimiter and after the closing delimiter is kept, so writing the Document
// back out reproduces the input.
//
// A multipart entity without a boundary, or whose body lacks an opening or a
// closing delimiter, fails the parse. So does a header longer than
// WithMaxHeaderLength or nesting deeper than WithMaxDepth. Parse never returns
// a partial Document: on failure the Document built so far is closed and
// every error matches ErrParseFailure, except errors returned by r.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	d := newDocument(opts)

	data, err := d.opts.readAll(r)
	if err != nil {
		_ = d.Close()
		return nil, err
	}

	if len(data) == 0 {
		_ = d.Close()
		return nil, &ParseError{Err: ErrEmpty}
	}

	root, err := d.parseEntity(data, 0, "")
	if err != nil {
		_ = d.Close()
		return nil, err
	}

	d.root = root.id
	return d, nil
}

// readAll reads all of r a chunk at a time.
func (s *settings) readAll(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	p := make([]byte, s.chunkSize)
	for {
		n, err := r.Read(p)
		buf.Write(p[:n])

		if s.maxPartLen > 0 && buf.Len() > s.maxPartLen {
			return nil, &ParseError{Err: ErrLargePart}
		}

		if errors.Is(err, io.EOF) {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// splitHeader finds the blank line ending the header of an entity. It returns
// the header including the break of its last field, the line break in use, and
// the body after the blank line. When there is no blank line, found is false
// and the whole of data is returned as the header.
func (s *settings) splitHeader(data []byte) (hdr, lb, body []byte, found bool, err error) {
	// an entity beginning with a blank line has an empty header
	for _, sp := range splits {
		half := sp[:len(sp)/2]
		if bytes.HasPrefix(data, half) {
			return data[:0], half, data[len(half):], true, nil
		}
	}

	window := data
	if s.maxHeaderLen > 0 && len(window) > s.maxHeaderLen+len(splits[0]) {
		window = window[:s.maxHeaderLen+len(splits[0])]
	}

	pos, sep := -1, []byte(nil)
	for _, sp := range splits {
		if ix := bytes.Index(window, sp); ix >= 0 && (pos < 0 || ix < pos) {
			pos, sep = ix, sp
		}
	}

	if pos < 0 {
		if len(window) < len(data) {
			return nil, nil, nil, false, ErrLargeHeader
		}
		return data, nil, nil, false, nil
	}

	half := len(sep) / 2
	if s.maxHeaderLen > 0 && pos+half > s.maxHeaderLen {
		return nil, nil, nil, false, ErrLargeHeader
	}

	return data[:pos+half], sep[:half], data[pos+len(sep):], true, nil
}

// parseEntity builds the node for one entity and, for a container, all of its
// descendants.
func (d *Document) parseEntity(data []byte, depth int, path string) (*Node, error) {
	hdr, lb, body, found, err := d.opts.splitHeader(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var (
		h            *header.Header
		unterminated bool
		badStart     *field.BadStartError
	)
	if found {
		h, err = header.Parse(hdr, header.Break(lb))
		switch {
		case errors.As(err, &badStart):
			LogWarning("dropped text before the first header field of part %q: %q", path, badStart.BadStart)
		case err != nil:
			return nil, &ParseError{Path: path, Err: fmt.Errorf("%w: %w", ErrBadHeader, err)}
		}
	} else {
		// With no blank line the entity is either all header or all body.
		lbr := header.DetectBreak(data)
		h, err = header.Parse(data, lbr)
		if err != nil {
			h, body = header.New(lbr), data
		} else {
			body = nil
			unterminated = len(data) > 0 && !bytes.HasSuffix(data, lbr.Bytes())
		}
	}

	ct, err := h.GetContentType()
	switch {
	case err == nil && ct.IsMultipart():
		return d.parseContainer(h, ct, body, !found, depth, path)
	case err != nil && !errors.Is(err, header.ErrNoSuchField):
		if raw, _ := h.Get(header.ContentType); isMultipartType(raw) {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("%w: %w", ErrBadBoundary, err)}
		}
		LogWarning("part %q has an unreadable Content-Type, keeping it as a leaf: %v", path, err)
	}

	bf := d.filer.BufferFile(d.opts.memSize)
	if _, err := bf.Write(body); err != nil {
		_ = bf.Close()
		return nil, err
	}

	return d.add(&Node{
		kind:         KindLeaf,
		header:       h,
		body:         bf,
		noSeparator:  !found,
		unterminated: unterminated,
	}), nil
}

func (d *Document) parseContainer(
	h *header.Header,
	ct *param.Value,
	body []byte,
	noSeparator bool,
	depth int,
	path string,
) (*Node, error) {
	if d.opts.maxDepth >= 0 && depth >= d.opts.maxDepth {
		return nil, &ParseError{Path: path, Err: ErrTooDeep}
	}

	boundary := ct.Boundary()
	if boundary == "" {
		return nil, &ParseError{Path: path, Err: ErrNoBoundary}
	}

	prefix, parts, suffix, err := splitParts(body, boundary)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	n := d.add(&Node{
		kind:        KindContainer,
		header:      h,
		boundary:    boundary,
		prefix:      bytes.Clone(prefix),
		suffix:      bytes.Clone(suffix),
		noSeparator: noSeparator,
	})

	for i, part := range parts {
		c, err := d.parseEntity(part, depth+1, joinPath(path, i))
		if err != nil {
			return nil, err
		}
		d.attach(n, c, i)
	}

	return n, nil
}

type delimiter struct {
	start       int  // offset of the first dash
	end         int  // offset just past the line break
	breakBefore int  // length of the line break ending the previous line
	closing     bool // the line is --boundary--
}

// splitParts cuts a multipart body on the delimiter lines of boundary.
//
// The prefix is everything before the first delimiter line, including the line
// break ending the line before it. Each part runs from the line after a
// delimiter up to, but not including, the line break before the next. The
// suffix is everything after the closing "--boundary--", its line break
// included.
func splitParts(body []byte, boundary string) (prefix []byte, parts [][]byte, suffix []byte, err error) {
	dash := []byte("--" + boundary)

	var (
		delims    []delimiter
		pos       int
		prevBreak int
	)

	sc := bufio.NewScanner(bytes.NewReader(body))
	sc.Buffer(make([]byte, 0, 4096), len(body)+1)
	sc.Split(scanner.MakeSplitFuncExitByAdvance(
		func(data []byte, atEOF bool) (int, []byte, error) {
			if atEOF && len(data) == 0 {
				return 0, nil, nil
			}

			n := scanner.LineLength(data, atEOF)
			if n == 0 {
				return 0, nil, nil
			}

			line := data[:n]
			content, lb := scanner.TrimBreak(line)
			start := pos
			pos += n

			closing, ok := isDelimiter(content, dash)
			if !ok {
				prevBreak = len(lb)
				return n, nil, nil
			}

			delims = append(delims, delimiter{start, pos, prevBreak, closing})
			prevBreak = 0
			if closing {
				return n, line, bufio.ErrFinalToken
			}
			return n, line, nil
		},
	))

	for sc.Scan() {
	}
	if err := sc.Err(); err != nil {
		return nil, nil, nil, err
	}

	if len(delims) == 0 || !delims[len(delims)-1].closing {
		return nil, nil, nil, ErrTruncated
	}

	prefix = body[:delims[0].start]
	for i := 0; i < len(delims)-1; i++ {
		start := delims[i].end
		end := max(start, delims[i+1].start-delims[i+1].breakBefore)
		parts = append(parts, body[start:end])
	}

	last := delims[len(delims)-1]
	suffix = body[last.start+len(dash)+2:]

	return prefix, parts, suffix, nil
}

// isMultipartType reports whether a raw Content-Type body names a multipart/*
// media type, whether or not the rest of it can be parsed.
func isMultipartType(raw string) bool {
	base, _, _ := strings.Cut(raw, ";")
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(base)), "multipart/")
}

// isDelimiter reports whether a line, without its line break, is a delimiter
// line for dash ("--" plus the boundary) and whether it is the closing one.
// Trailing spaces and tabs are permitted.
func isDelimiter(content, dash []byte) (closing, ok bool) {
	if !bytes.HasPrefix(content, dash) {
		return false, false
	}

	rest := content[len(dash):]
	if bytes.HasPrefix(rest, []byte("--")) {
		closing = true
		rest = rest[2:]
	}

	if len(bytes.TrimRight(rest, " \t")) > 0 {
		return false, false
	}
	return closing, true
}
