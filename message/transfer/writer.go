package transfer

import "io"

// writer adds a Close to a plain io.Writer.
type writer struct {
	io.Writer
	io.Closer
}

// Close closes the nested Closer, if any.
func (w *writer) Close() error {
	if w.Closer != nil {
		return w.Closer.Close()
	}
	return nil
}

// lineWriter inserts lbr after every `every` bytes written.
type lineWriter struct {
	every int
	acc   int
	lbr   []byte
	w     io.Writer
}

func (lw *lineWriter) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		chunk := p
		if room := lw.every - lw.acc; len(chunk) > room {
			chunk = chunk[:room]
		}

		n, err := lw.w.Write(chunk)
		written += n
		lw.acc += n
		if err != nil {
			return written, err
		}
		p = p[n:]

		if lw.acc == lw.every {
			if _, err := lw.w.Write(lw.lbr); err != nil {
				return written, err
			}
			lw.acc = 0
		}
	}
	return written, nil
}

// Close terminates a partial final line.
func (lw *lineWriter) Close() error {
	if lw.acc == 0 {
		return nil
	}
	lw.acc = 0
	_, err := lw.w.Write(lw.lbr)
	return err
}

type countWriter struct {
	w io.Writer
	n int64
}

func (cw *countWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
