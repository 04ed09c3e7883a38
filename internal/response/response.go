package response

import (
	"bytes"
	"io"

	"github.com/Brownie44l1/numguess/internal/headers"
)

// Response is a complete reply, built by a handler and written once.
type Response struct {
	StatusCode StatusCode
	Headers    *headers.Headers
	Body       []byte
}

// New returns a response with no headers.
func New(code StatusCode, body []byte) *Response {
	return &Response{
		StatusCode: code,
		Headers:    headers.NewHeaders(),
		Body:       body,
	}
}

// WriteTo streams the response to dst. The head is built as text and the
// body follows as raw bytes, so binary bodies pass through untouched.
func (r *Response) WriteTo(dst io.Writer) (int64, error) {
	w := NewWriter(dst)

	if err := w.WriteStatusLine(r.StatusCode); err != nil {
		return w.Written(), err
	}
	if err := w.WriteHeaders(r.Headers); err != nil {
		return w.Written(), err
	}
	if len(r.Body) > 0 {
		if _, err := w.WriteBody(r.Body); err != nil {
			return w.Written(), err
		}
	}

	return w.Written(), nil
}

// Format returns the exact wire bytes of the response.
func (r *Response) Format() []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes do not fail
	_, _ = r.WriteTo(&buf)
	return buf.Bytes()
}
