package server

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/Brownie44l1/numguess/internal/logging"
	"github.com/Brownie44l1/numguess/internal/response"
)

// LoggingMiddleware logs one line per request, at warn level for 5xx.
func LoggingMiddleware(logger logging.Logger) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, raw []byte) *response.Response {
			start := time.Now()

			res := next.Serve(ctx, raw)
			if res == nil {
				res = response.InternalServerError()
			}

			log := logger.Info
			if res.StatusCode.IsServerError() {
				log = logger.Warn
			}
			log("request handled", logging.With(ctx,
				logging.F("status", int(res.StatusCode)),
				logging.F("request_bytes", len(raw)),
				logging.F("body_bytes", len(res.Body)),
				logging.F("duration_ms", time.Since(start).Milliseconds()),
			)...)

			return res
		})
	}
}

// RecoveryMiddleware turns a panic into the canonical 500 so the
// connection still gets an answer.
func RecoveryMiddleware(logger logging.Logger) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, raw []byte) (res *response.Response) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered", logging.With(ctx,
						logging.F("error", err),
						logging.F("stack", string(debug.Stack())),
					)...)
					res = response.InternalServerError()
				}
			}()

			res = next.Serve(ctx, raw)
			if res == nil {
				res = response.InternalServerError()
			}
			return res
		})
	}
}
