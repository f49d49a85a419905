package message

import (
	"bufio"

	"crawshaw.io/iox"

	"github.com/zostay/mimedit/message/header"
	"github.com/zostay/mimedit/message/transfer"
)

const (
	// DefaultMaxMultipartDepth is how deeply containers may nest.
	DefaultMaxMultipartDepth = 10

	// DefaultChunkSize is how much input is read at a time.
	DefaultChunkSize = 16_384

	// DefaultMaxHeaderLength limits the size of any one header block.
	DefaultMaxHeaderLength = bufio.MaxScanTokenSize

	// DefaultMaxPartLength limits the size of the whole input.
	DefaultMaxPartLength = 64 << 20

	// DefaultMemoryThreshold is how much of a body is kept in memory before
	// it spills to a temporary file.
	DefaultMemoryThreshold = 1 << 20

	// DefaultCharset is assumed for text without a charset parameter.
	DefaultCharset = "utf-8"
)

type settings struct {
	maxHeaderLen   int
	maxPartLen     int
	maxDepth       int
	chunkSize      int
	memSize        int
	defaultCharset string
	textEncoding   string
	binaryEncoding string
	lbr            header.Break
	filer          *iox.Filer
}

func defaultSettings() settings {
	return settings{
		maxHeaderLen:   DefaultMaxHeaderLength,
		maxPartLen:     DefaultMaxPartLength,
		maxDepth:       DefaultMaxMultipartDepth,
		chunkSize:      DefaultChunkSize,
		memSize:        DefaultMemoryThreshold,
		defaultCharset: DefaultCharset,
		textEncoding:   transfer.QuotedPrintable,
		binaryEncoding: transfer.Base64,
		lbr:            header.CRLF,
	}
}

// Option configures a Document when it is parsed or created.
type Option func(*settings)

// WithMaxHeaderLength limits the length of each header block. Values less than
// or equal to 0 remove the limit. Parse fails with ErrLargeHeader when it is
// exceeded.
func WithMaxHeaderLength(n int) Option {
	return func(s *settings) { s.maxHeaderLen = n }
}

// WithMaxPartLength limits the size of the input. Values less than or equal to
// 0 remove the limit. Parse fails with ErrLargePart when it is exceeded.
func WithMaxPartLength(n int) Option {
	return func(s *settings) { s.maxPartLen = n }
}

// WithMaxDepth limits how deeply containers may nest. A negative value removes
// the limit. Parse fails with ErrTooDeep when it is exceeded.
func WithMaxDepth(n int) Option {
	return func(s *settings) { s.maxDepth = n }
}

// WithChunkSize sets how many bytes are read from the input at a time.
func WithChunkSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// WithMemoryThreshold sets how many bytes of each leaf body are kept in memory
// before the rest spills to a temporary file.
func WithMemoryThreshold(n int) Option {
	return func(s *settings) { s.memSize = n }
}

// WithDefaultCharset sets the charset assumed for text leaves that do not
// declare one.
func WithDefaultCharset(cs string) Option {
	return func(s *settings) { s.defaultCharset = cs }
}

// WithTextEncoding sets the transfer encoding given to new text leaves.
func WithTextEncoding(cte string) Option {
	return func(s *settings) { s.textEncoding = transfer.Normalize(cte) }
}

// WithBinaryEncoding sets the transfer encoding given to new non-text leaves.
func WithBinaryEncoding(cte string) Option {
	return func(s *settings) { s.binaryEncoding = transfer.Normalize(cte) }
}

// WithBreak sets the line break used by documents created with New and
// NewEmail. Parsed documents use the line break found in the input.
func WithBreak(lbr header.Break) Option {
	return func(s *settings) { s.lbr = lbr }
}

// WithFiler has the document allocate leaf bodies from the given filer, which
// the caller then owns. By default every document has a filer of its own that
// is shut down by Close.
func WithFiler(f *iox.Filer) Option {
	return func(s *settings) { s.filer = f }
}
