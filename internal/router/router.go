package router

import (
	"context"
	"errors"
	"strings"

	"github.com/Brownie44l1/numguess/internal/assets"
	"github.com/Brownie44l1/numguess/internal/logging"
	"github.com/Brownie44l1/numguess/internal/request"
	"github.com/Brownie44l1/numguess/internal/response"
)

// ErrNoRoute is returned when neither a route nor a fallback matches.
var ErrNoRoute = errors.New("no route")

// HandlerFunc builds the response for one request. Returning an error
// hands the choice of response to ErrorResponse.
type HandlerFunc func(ctx context.Context, req *request.Request) (*response.Response, error)

// Router matches (method, path) exactly against registered routes
type Router struct {
	routes    map[request.Method]map[string]HandlerFunc
	fallbacks map[request.Method]HandlerFunc
	logger    logging.Logger
}

// New creates a new router
func New(logger logging.Logger) *Router {
	if logger == nil {
		logger = logging.NullLogger{}
	}
	return &Router{
		routes:    make(map[request.Method]map[string]HandlerFunc),
		fallbacks: make(map[request.Method]HandlerFunc),
		logger:    logger,
	}
}

// Handle registers a new route
func (r *Router) Handle(method request.Method, path string, handler HandlerFunc) {
	if r.routes[method] == nil {
		r.routes[method] = make(map[string]HandlerFunc)
	}
	r.routes[method][path] = handler
}

// GET is a shortcut for Handle(MethodGet, ...)
func (r *Router) GET(path string, handler HandlerFunc) {
	r.Handle(request.MethodGet, path, handler)
}

// POST is a shortcut for Handle(MethodPost, ...)
func (r *Router) POST(path string, handler HandlerFunc) {
	r.Handle(request.MethodPost, path, handler)
}

// Fallback handles every path of method that has no route of its own.
func (r *Router) Fallback(method request.Method, handler HandlerFunc) {
	r.fallbacks[method] = handler
}

// Match finds the handler for method and path. The path is compared after
// trimming surrounding whitespace and nothing else.
func (r *Router) Match(method request.Method, path string) (HandlerFunc, bool) {
	path = strings.TrimSpace(path)

	if handler, ok := r.routes[method][path]; ok {
		return handler, true
	}
	if handler, ok := r.fallbacks[method]; ok {
		return handler, true
	}
	return nil, false
}

// Serve parses raw request bytes and dispatches them. It always returns a
// response; a request that fails to parse gets the canonical 500.
func (r *Router) Serve(ctx context.Context, raw []byte) *response.Response {
	req, err := request.Parse(raw)
	if err != nil {
		r.logger.Warn("failed to parse request", logging.With(ctx,
			logging.F("error", err),
			logging.F("bytes", len(raw)),
		)...)
		return ErrorResponse(err)
	}

	return r.Dispatch(ctx, req)
}

// Dispatch runs the handler for req and turns any failure into one of the
// two canonical error responses.
func (r *Router) Dispatch(ctx context.Context, req *request.Request) *response.Response {
	r.logger.Debug("dispatching request", logging.With(ctx, logging.F("request", req.String()))...)

	handler, ok := r.Match(req.Method, req.Path)
	if !ok {
		return ErrorResponse(ErrNoRoute)
	}

	res, err := handler(ctx, req)
	if err != nil {
		r.logError(ctx, req, err)
		return ErrorResponse(err)
	}
	if res == nil {
		r.logger.Error("handler returned no response", logging.With(ctx,
			logging.F("method", req.Method),
			logging.F("path", req.Path),
		)...)
		return response.InternalServerError()
	}

	return res
}

func (r *Router) logError(ctx context.Context, req *request.Request, err error) {
	fields := logging.With(ctx,
		logging.F("method", req.Method),
		logging.F("path", req.Path),
		logging.F("error", err),
	)

	if IsNotFound(err) {
		r.logger.Info("not found", fields...)
		return
	}
	r.logger.Error("request failed", fields...)
}

// IsNotFound reports whether err should be answered with 404.
func IsNotFound(err error) bool {
	return errors.Is(err, assets.ErrNotFound) || errors.Is(err, ErrNoRoute)
}

// ErrorResponse maps any error to the response the client sees: 404 for
// lookups that found nothing, 500 for everything else, including parse
// failures. Clients never see 400.
func ErrorResponse(err error) *response.Response {
	if IsNotFound(err) {
		return response.NotFound()
	}
	return response.InternalServerError()
}
