package field

import (
	"io"
	"mime"
	"strings"

	"github.com/zostay/mimedit/message/transfer"
)

// Encode word encodes a field body when it contains characters that cannot be
// written in a header as they are. The B encoding with UTF-8 is always used.
func Encode(body string) string {
	return mime.BEncoding.Encode("utf-8", body)
}

var wordDecoder = &mime.WordDecoder{
	CharsetReader: func(charset string, input io.Reader) (io.Reader, error) {
		return transfer.NewCharsetReader(charset, input)
	},
}

// Decode converts any MIME encoded words found in the body into UTF-8.
func Decode(body string) (string, error) {
	if !strings.Contains(body, "=?") {
		return body, nil
	}
	return wordDecoder.DecodeHeader(body)
}
