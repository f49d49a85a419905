// Package scanner holds bufio helpers used by the message parser.
package scanner

import (
	"bufio"
	"errors"
)

// ErrContinue may be returned by a split function wrapped with
// MakeSplitFuncExitByAdvance to ask for another call on the remaining data
// instead of returning to the scanner.
var ErrContinue = errors.New("split func continue")

// MakeSplitFuncExitByAdvance wraps split so that calls which consume input
// without producing a token are repeated on the remaining data inside a single
// call from the scanner.
//
// A bufio.Scanner stops at EOF the first time the split function returns no
// token, even if data remains. With this wrapper the split function may
// consume input a line at a time and only report a token when it has one. The
// wrapped function returns when split produces a token, an error, asks for more
// data by advancing 0, or consumes all of the data.
func MakeSplitFuncExitByAdvance(split bufio.SplitFunc) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		total := 0
		for {
			advance, token, err := split(data, atEOF)
			if errors.Is(err, ErrContinue) {
				data = data[advance:]
				total += advance
				continue
			}

			if token != nil || err != nil || advance == 0 || advance >= len(data) {
				return total + advance, token, err
			}

			data = data[advance:]
			total += advance
		}
	}
}
