package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"

	"github.com/Brownie44l1/numguess/internal/logging"
	"github.com/Brownie44l1/numguess/internal/request"
	"github.com/Brownie44l1/numguess/internal/response"
)

var (
	ErrServerClosed  = errors.New("server closed")
	ErrServerStarted = errors.New("server already started")
)

// Handler turns the bytes of one request into its response. It must
// always return a response.
type Handler interface {
	Serve(ctx context.Context, raw []byte) *response.Response
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, raw []byte) *response.Response

func (f HandlerFunc) Serve(ctx context.Context, raw []byte) *response.Response {
	return f(ctx, raw)
}

// Middleware wraps a Handler.
type Middleware func(Handler) Handler

// Server accepts connections and serves exactly one request on each.
type Server struct {
	handler     Handler
	middlewares []Middleware
	logger      logging.Logger

	// ReadBufferSize caps the single read a connection gets.
	ReadBufferSize int

	mu       sync.Mutex
	serving  Handler // handler wrapped in middlewares
	listener net.Listener
	closed   atomic.Bool
	conns    sync.WaitGroup
	done     chan struct{}
}

// New creates a server that is not yet listening.
func New(handler Handler, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NullLogger{}
	}
	return &Server{
		handler:        handler,
		logger:         logger,
		ReadBufferSize: request.MaxSize,
		done:           make(chan struct{}),
	}
}

// Serve listens on addr and starts accepting in the background.
func Serve(addr string, handler Handler, logger logging.Logger) (*Server, error) {
	s := New(handler, logger)
	if err := s.Start(addr); err != nil {
		return nil, err
	}
	return s, nil
}

// Use adds middleware. The first one added runs outermost. It must be
// called before Start.
func (s *Server) Use(mw ...Middleware) {
	s.middlewares = append(s.middlewares, mw...)
}

// Start binds addr and runs the accept loop in its own goroutine. A server
// starts at most once and never after Close.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if err := s.StartListener(listener); err != nil {
		listener.Close()
		return err
	}
	return nil
}

// StartListener runs the accept loop on an existing listener.
func (s *Server) StartListener(listener net.Listener) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrServerClosed
	}
	if s.listener != nil {
		return ErrServerStarted
	}

	h := s.handler
	for i := len(s.middlewares) - 1; i >= 0; i-- {
		h = s.middlewares[i](h)
	}
	s.serving = h
	s.listener = listener

	s.logger.Info("server listening", logging.F("addr", listener.Addr().String()))
	go s.listen()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) listen() {
	defer close(s.done)

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Error("error accepting connection", logging.F("error", err))
			continue
		}

		// One goroutine per connection, nothing shared between them
		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.serveConn(conn)
		}()
	}
}

// Close stops accepting and waits for connections already accepted to
// finish their response.
func (s *Server) Close() error {
	s.mu.Lock()
	if !s.closed.CompareAndSwap(false, true) {
		s.mu.Unlock()
		return nil
	}
	listener := s.listener
	s.mu.Unlock()

	if listener == nil {
		return nil
	}

	err := listener.Close()
	<-s.done
	s.conns.Wait()

	s.logger.Info("server stopped")
	return err
}
