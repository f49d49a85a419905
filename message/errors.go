package message

import (
	"errors"
	"fmt"

	"github.com/zostay/mimedit/message/transfer"
)

// The four kinds of failure. Every error returned by this package matches
// exactly one of these with errors.Is, except for plain I/O errors from the
// caller's readers and writers.
var (
	// ErrParseFailure covers malformed boundaries, truncated input, and header
	// blocks that cannot be parsed.
	ErrParseFailure = errors.New("parse failure")

	// ErrStructuralRejection covers header edits that would change the kind
	// of a node or the boundary of a container.
	ErrStructuralRejection = errors.New("structural change rejected")

	// ErrEncodingConversion covers failed transfer encoding and character set
	// conversions.
	ErrEncodingConversion = transfer.ErrConversion

	// ErrInvariantViolation covers calls that would break the tree, such as
	// removing the root or addressing a node that does not exist.
	ErrInvariantViolation = errors.New("invariant violation")
)

// kindError is a sentinel error belonging to one of the failure kinds.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Is(target error) bool {
	return target == e.kind
}

var (
	ErrEmpty       = &kindError{"the input is empty", ErrParseFailure}
	ErrNoBoundary  = &kindError{"the boundary parameter is missing from Content-Type", ErrParseFailure}
	ErrTruncated   = &kindError{"the multipart body is missing its opening or closing delimiter", ErrParseFailure}
	ErrTooDeep     = &kindError{"multipart nesting exceeds the maximum depth", ErrParseFailure}
	ErrLargeHeader = &kindError{"the header exceeds the maximum parse length", ErrParseFailure}
	ErrLargePart   = &kindError{"a message part exceeds the maximum parse length", ErrParseFailure}
	ErrBadHeader   = &kindError{"the header block cannot be parsed", ErrParseFailure}
	ErrBadBoundary = &kindError{"the boundary declaration of a multipart Content-Type is malformed", ErrParseFailure}

	ErrKindChanged     = &kindError{"the edit would change a leaf into a container or a container into a leaf", ErrStructuralRejection}
	ErrBoundaryChanged = &kindError{"the edit would change the boundary of a container", ErrStructuralRejection}

	ErrRemoveRoot = &kindError{"the root node cannot be removed", ErrInvariantViolation}
	ErrNoSuchNode = &kindError{"no such node in the document", ErrInvariantViolation}
	ErrNotLeaf    = &kindError{"the node is not a leaf", ErrInvariantViolation}
	ErrClosed     = &kindError{"the document is closed", ErrInvariantViolation}
	ErrNoSuchPath = &kindError{"no node at that part path", ErrInvariantViolation}
)

// ErrNoContentID is returned by Resolve when no leaf declares the Content-ID.
var ErrNoContentID = errors.New("no leaf declares that content ID")

// ParseError reports where in the document a parse failed. Path is the part
// path of the entity being parsed, empty for the top level.
type ParseError struct {
	Path string
	Err  error
}

// Error returns the error message.
func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse: %v", e.Err)
	}
	return fmt.Sprintf("parse part %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// conversionError makes sure err matches ErrEncodingConversion.
func conversionError(err error) error {
	if err == nil || errors.Is(err, ErrEncodingConversion) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrEncodingConversion, err)
}
