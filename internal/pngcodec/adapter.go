package pngcodec

import (
	"io"

	"github.com/kyuu/azura/stream"
)

// streamReader adapts a Stream to io.Reader so the zlib package (and
// anything else expecting the stdlib I/O interfaces) can read through
// it. A zero-byte, nil-error Read is translated to io.EOF, since
// Stream's Read contract reports end-of-input that way rather than
// with a sentinel error.
type streamReader struct{ s stream.Stream }

func (r streamReader) Read(p []byte) (int, error) {
	n, err := r.s.Read(p)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// streamWriter adapts a Stream to io.Writer.
type streamWriter struct{ s stream.Stream }

func (w streamWriter) Write(p []byte) (int, error) {
	return w.s.Write(p)
}
