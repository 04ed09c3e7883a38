package response

import (
	"errors"
	"fmt"
	"io"

	"github.com/Brownie44l1/numguess/internal/headers"
)

var (
	ErrStatusWritten     = errors.New("status line already written")
	ErrStatusNotWritten  = errors.New("must write status line before headers")
	ErrHeadersNotWritten = errors.New("must write status line and headers before body")
)

// writerState tracks what's been written so far
type writerState int

const (
	stateStart writerState = iota
	stateStatusWritten
	stateHeadersWritten
	stateBodyWritten
)

// Writer writes a response to an io.Writer in wire order: status line,
// headers, blank line, body. Calls out of order fail without writing.
type Writer struct {
	w       io.Writer
	state   writerState
	written int64
}

// NewWriter creates a new response writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:     w,
		state: stateStart,
	}
}

// WriteStatusLine writes "HTTP/1.1 {code} {reason}\r\n".
func (w *Writer) WriteStatusLine(code StatusCode) error {
	if w.state != stateStart {
		return ErrStatusWritten
	}

	if err := w.write(fmt.Sprintf("HTTP/1.1 %d %s\r\n", code, code.Reason())); err != nil {
		return err
	}

	w.state = stateStatusWritten
	return nil
}

// WriteHeaders writes one "{name}: {value}\r\n" line per header and the
// blank line that ends the header section. Nothing is added: a response
// without a Content-Length header goes out without one.
func (w *Writer) WriteHeaders(h *headers.Headers) error {
	if w.state != stateStatusWritten {
		return ErrStatusNotWritten
	}

	var err error
	h.Each(func(name, value string) {
		if err != nil {
			return
		}
		err = w.write(fmt.Sprintf("%s: %s\r\n", name, value))
	})
	if err != nil {
		return err
	}

	if err := w.write("\r\n"); err != nil {
		return err
	}

	w.state = stateHeadersWritten
	return nil
}

// WriteBody appends raw bytes after the header section. It may be called
// more than once.
func (w *Writer) WriteBody(p []byte) (int, error) {
	if w.state != stateHeadersWritten && w.state != stateBodyWritten {
		return 0, ErrHeadersNotWritten
	}

	n, err := w.w.Write(p)
	w.written += int64(n)
	if err != nil {
		return n, err
	}

	w.state = stateBodyWritten
	return n, nil
}

// Written returns the number of bytes sent, head and body together.
func (w *Writer) Written() int64 {
	return w.written
}

func (w *Writer) write(s string) error {
	n, err := io.WriteString(w.w, s)
	w.written += int64(n)
	return err
}
