// Package client talks to the guess server over a raw TCP connection.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/Brownie44l1/numguess/internal/guess"
	"github.com/Brownie44l1/numguess/internal/headers"
	"github.com/Brownie44l1/numguess/internal/response"
)

var (
	ErrGuessOutOfRange   = errors.New("guess must be between 0 and 100")
	ErrMalformedResponse = errors.New("malformed response")
	ErrUnexpectedStatus  = errors.New("unexpected status")
)

// Reply is a response as read off the wire.
type Reply struct {
	StatusCode response.StatusCode
	Reason     string
	Headers    *headers.Headers
	Body       []byte
}

// Client sends one request per connection.
type Client struct {
	Addr   string
	dialer net.Dialer
}

func New(addr string) *Client {
	return &Client{Addr: addr}
}

// Do writes raw to a fresh connection and reads until the server closes it.
// The server never sends Content-Length, so close marks the end of the body.
func (c *Client) Do(ctx context.Context, raw []byte) (*Reply, error) {
	conn, err := c.dialer.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, err
		}
	}

	if _, err := conn.Write(raw); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	wire, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return ParseReply(wire)
}

// Get fetches path.
func (c *Client) Get(ctx context.Context, path string) (*Reply, error) {
	raw := fmt.Sprintf("GET %s HTTP/1.1\r\nHost: %s\r\nConnection: close\r\n\r\n", path, c.Addr)
	return c.Do(ctx, []byte(raw))
}

// Guess posts n to the game and returns the verdict. Like the browser
// client it only sends guesses in 0..100.
func (c *Client) Guess(ctx context.Context, n int) (*guess.Result, error) {
	if n < 0 || n > 100 {
		return nil, fmt.Errorf("%w: %d", ErrGuessOutOfRange, n)
	}

	body := fmt.Sprintf(`{"data":%d}`, n)
	raw := fmt.Sprintf("POST / HTTP/1.1\r\nHost: %s\r\nContent-Type: application/json\r\nContent-Length: %d\r\n\r\n%s",
		c.Addr, len(body), body)

	reply, err := c.Do(ctx, []byte(raw))
	if err != nil {
		return nil, err
	}
	if !reply.StatusCode.IsSuccess() {
		return nil, fmt.Errorf("%w: %d %s: %s", ErrUnexpectedStatus, reply.StatusCode, reply.Reason, reply.Body)
	}

	var result guess.Result
	if err := json.Unmarshal(reply.Body, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return &result, nil
}

// ParseReply splits a complete response into status, headers and body.
func ParseReply(wire []byte) (*Reply, error) {
	head, body, found := bytes.Cut(wire, []byte("\r\n\r\n"))
	if !found {
		return nil, fmt.Errorf("%w: no end of headers", ErrMalformedResponse)
	}

	lines := strings.Split(string(head), "\r\n")

	proto, rest, ok := strings.Cut(lines[0], " ")
	if !ok || !strings.HasPrefix(proto, "HTTP/") {
		return nil, fmt.Errorf("%w: bad status line %q", ErrMalformedResponse, lines[0])
	}
	codeText, reason, _ := strings.Cut(rest, " ")
	code, err := strconv.Atoi(codeText)
	if err != nil {
		return nil, fmt.Errorf("%w: bad status code %q", ErrMalformedResponse, codeText)
	}

	h := headers.NewHeaders()
	for _, line := range lines[1:] {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: bad header %q", ErrMalformedResponse, line)
		}
		h.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	return &Reply{
		StatusCode: response.StatusCode(code),
		Reason:     reason,
		Headers:    h,
		Body:       body,
	}, nil
}
