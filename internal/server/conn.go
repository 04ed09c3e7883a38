package server

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/google/uuid"

	"github.com/Brownie44l1/numguess/internal/logging"
	"github.com/Brownie44l1/numguess/internal/response"
)

// serveConn reads once, answers once and closes. There is no keep-alive;
// the client reads the body until the connection closes.
func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()

	ctx := logging.WithFields(context.Background(),
		logging.F("conn_id", uuid.NewString()),
		logging.F("remote_addr", conn.RemoteAddr().String()),
	)

	buf := make([]byte, s.ReadBufferSize)
	n, err := conn.Read(buf)
	if n == 0 {
		// Nothing arrived, so there is no request to answer
		if err != nil && !errors.Is(err, io.EOF) {
			s.logger.Warn("read failed", logging.With(ctx, logging.F("error", err))...)
		}
		return
	}

	res := s.serve(ctx, buf[:n])

	// One write for the whole response
	if _, err := conn.Write(res.Format()); err != nil {
		s.logger.Warn("write failed", logging.With(ctx, logging.F("error", err))...)
	}
}

// serve is the last line of defence when no RecoveryMiddleware is installed.
func (s *Server) serve(ctx context.Context, raw []byte) (res *response.Response) {
	defer func() {
		if err := recover(); err != nil {
			s.logger.Error("handler panic", logging.With(ctx, logging.F("error", err))...)
			res = response.InternalServerError()
		}
	}()

	res = s.serving.Serve(ctx, raw)
	if res == nil {
		res = response.InternalServerError()
	}
	return res
}
