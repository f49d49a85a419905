package field

import (
	"bytes"
	"errors"
	"io"
	"strings"
)

const (
	DefaultFoldIndent          = " "  // placed at the start of each continuation line
	DefaultPreferredFoldLength = 80   // fold before this width when a space allows it
	DefaultForcedFoldLength    = 1000 // always fold before this width

	DoNotFold = -1 // disables folding
)

var (
	// DefaultFoldEncoding folds at spaces before 80 columns and forces a break
	// before 1000 columns.
	DefaultFoldEncoding = &FoldEncoding{
		DefaultFoldIndent,
		DefaultPreferredFoldLength,
		DefaultForcedFoldLength,
	}

	// DoNotFoldEncoding writes every field on a single line.
	DoNotFoldEncoding = &FoldEncoding{
		DefaultFoldIndent,
		DoNotFold,
		DoNotFold,
	}
)

var (
	ErrFoldIndentSpace    = errors.New("fold indent may only contains spaces and tabs")
	ErrFoldIndentTooShort = errors.New("fold indent must contain at least one space or tab")
	ErrFoldIndentTooLong  = errors.New("fold indent must be shorter than the preferred fold length")
	ErrFoldLengthTooLong  = errors.New("preferred fold length must be no longer than the forced fold length")
	ErrFoldLengthTooShort = errors.New("preferred fold length and forced fold length cannot be too short")
	ErrDoNotFold          = errors.New("preferred fold length and forced fold length must both be -1 if either are -1")
)

// Break is the line break written after each folded line.
type Break []byte

// FoldEncoding describes how a header field that has no original bytes is
// broken into lines when written.
type FoldEncoding struct {
	foldIndent          string
	preferredFoldLength int
	forcedFoldLength    int
}

// NewFoldEncoding validates the given settings and returns a FoldEncoding.
// The indent must be one or more spaces or tabs shorter than the preferred
// length, and the preferred length may not exceed the forced length. Pass
// DoNotFold for both lengths to disable folding.
func NewFoldEncoding(
	foldIndent string,
	preferredFoldLength,
	forcedFoldLength int,
) (*FoldEncoding, error) {
	if strings.IndexFunc(foldIndent, func(c rune) bool { return !isSpace(c) }) >= 0 {
		return nil, ErrFoldIndentSpace
	}

	if len(foldIndent) < 1 {
		return nil, ErrFoldIndentTooShort
	}

	if (preferredFoldLength == DoNotFold) != (forcedFoldLength == DoNotFold) {
		return nil, ErrDoNotFold
	}

	if preferredFoldLength == DoNotFold {
		return &FoldEncoding{foldIndent, DoNotFold, DoNotFold}, nil
	}

	if len(foldIndent) >= preferredFoldLength {
		return nil, ErrFoldIndentTooLong
	}

	if preferredFoldLength > forcedFoldLength {
		return nil, ErrFoldLengthTooLong
	}

	if preferredFoldLength < 3 || forcedFoldLength < 3 {
		return nil, ErrFoldLengthTooShort
	}

	return &FoldEncoding{foldIndent, preferredFoldLength, forcedFoldLength}, nil
}

// Unfold removes the line breaks from a folded field.
func (vf *FoldEncoding) Unfold(f []byte) []byte {
	return Unfold(f)
}

// Unfold removes every CR and LF from the given bytes, leaving the whitespace
// that began each continuation line in place.
func Unfold(f []byte) []byte {
	uf := make([]byte, 0, len(f))
	for _, b := range f {
		if b != '\r' && b != '\n' {
			uf = append(uf, b)
		}
	}
	return uf
}

func isSpace(c rune) bool    { return c == ' ' || c == '\t' }
func isNonSpace(c rune) bool { return c != ' ' && c != '\t' }

// Fold writes f to out broken into lines, each terminated by lb. Breaks are
// placed at whitespace before the preferred length when possible, at the next
// whitespace when not, and at the preferred length when the line would
// otherwise run past the forced length.
func (vf *FoldEncoding) Fold(out io.Writer, f []byte, lb Break) (int64, error) {
	var total int64
	continuing := false
	emit := func(line []byte, end int) ([]byte, error) {
		if continuing && !isSpace(rune(line[0])) {
			n, err := io.WriteString(out, vf.foldIndent)
			total += int64(n)
			if err != nil {
				return nil, err
			}
		}

		for _, chunk := range [][]byte{line[:end], lb} {
			n, err := out.Write(chunk)
			total += int64(n)
			if err != nil {
				return nil, err
			}
		}

		continuing = true
		return bytes.TrimLeft(line[end:], " \t"), nil
	}

	if vf.preferredFoldLength == DoNotFold || len(f) < vf.preferredFoldLength {
		_, err := emit(f, len(f))
		return total, err
	}

	margin := len(lb)
	preferred := vf.preferredFoldLength - margin
	forced := vf.forcedFoldLength - margin

	for _, line := range bytes.Split(f, lb) {
		for len(line) > 0 {
			var err error
			switch end := vf.foldPoint(line, continuing, preferred, forced); end {
			case 0, len(line):
				line, err = emit(line, len(line))
			default:
				line, err = emit(line, end)
			}
			if err != nil {
				return total, err
			}
		}
	}

	return total, nil
}

// foldPoint picks the offset at which to break line. It returns len(line)
// when the line should be written whole.
func (vf *FoldEncoding) foldPoint(line []byte, continuing bool, preferred, forced int) int {
	if len(line) <= preferred {
		return len(line)
	}

	first := 0
	if !continuing {
		// never break between the field name and the first word of the body
		colon := bytes.IndexByte(line, ':')
		if ix := bytes.IndexFunc(line[colon+1:], isNonSpace); ix >= 0 {
			first = ix + colon + 1
		}
	} else if ix := bytes.IndexFunc(line, isNonSpace); ix >= 0 {
		first = ix
	}

	if first < preferred {
		if ix := bytes.LastIndexFunc(line[first:preferred], isSpace); ix >= 0 {
			return ix + first
		}
	}

	if ix := bytes.IndexFunc(line[first:], isSpace); ix >= 0 && ix < forced {
		return ix + first
	}

	if len(line) > forced {
		return preferred
	}

	return len(line)
}
