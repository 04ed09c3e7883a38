package request

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxSize is how many bytes a connection gets to deliver its request in a
// single read. Anything past it is cut off.
const MaxSize = 1024

// Method is one of the two verbs the server understands.
type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

var (
	ErrInvalidEncoding      = errors.New("request is not valid UTF-8")
	ErrMalformedRequestLine = errors.New("malformed request line")
	ErrUnsupportedMethod    = errors.New("unsupported method")
)

// Separator ends the header section; the POST body starts right after it.
const Separator = "\r\n\r\n"

// Request is what the router sees of a raw request buffer.
type Request struct {
	Method  Method
	Path    string
	Version string

	// Body is nil for GET. For POST it is the text after the first blank
	// line, or empty if the buffer has none.
	Body *string
}

// HasBody reports whether a body was captured.
func (r *Request) HasBody() bool {
	return r.Body != nil
}

// Parse turns a single read's worth of bytes into a Request.
//
// Only the request line is inspected; headers are skipped and the body
// boundary is the first blank line, with no Content-Length handling.
func Parse(buf []byte) (*Request, error) {
	if !utf8.Valid(buf) {
		return nil, ErrInvalidEncoding
	}
	text := string(buf)

	method, path, version, err := parseRequestLine(firstLine(text))
	if err != nil {
		return nil, err
	}

	req := &Request{
		Method:  method,
		Path:    path,
		Version: version,
	}

	if method == MethodPost {
		body := ""
		if _, after, found := strings.Cut(text, Separator); found {
			body = after
		}
		req.Body = &body
	}

	return req, nil
}

// firstLine returns text up to the first newline, without a trailing CR.
func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return strings.TrimSuffix(line, "\r")
}

func (r *Request) String() string {
	return fmt.Sprintf("%s %s %s", r.Method, r.Path, r.Version)
}
