package router

import (
	"context"
	"errors"
	"strings"

	"github.com/Brownie44l1/numguess/internal/assets"
	"github.com/Brownie44l1/numguess/internal/guess"
	"github.com/Brownie44l1/numguess/internal/logging"
	"github.com/Brownie44l1/numguess/internal/request"
	"github.com/Brownie44l1/numguess/internal/response"
)

// ErrMissingBody is returned for a POST that carried no body at all.
var ErrMissingBody = errors.New("missing request body")

// StaticRoutes is the fixed GET table. Paths not listed get NotFoundPage.
var StaticRoutes = map[string]assets.Asset{
	"/":            assets.Index,
	"/main.js":     assets.MainJS,
	"/favicon.ico": assets.Favicon,
	"/styles.css":  assets.Styles,
}

// NewGuessRouter wires the static client and the guess endpoint.
func NewGuessRouter(store assets.Store, game *guess.Handler, logger logging.Logger) *Router {
	r := New(logger)

	for path, id := range StaticRoutes {
		r.GET(path, serveAsset(store, id))
	}
	r.Fallback(request.MethodGet, serveAsset(store, assets.NotFoundPage))

	r.POST("/", handleGuess(game, r.logger))
	r.Fallback(request.MethodPost, func(context.Context, *request.Request) (*response.Response, error) {
		return nil, ErrNoRoute
	})

	return r
}

func serveAsset(store assets.Store, id assets.Asset) HandlerFunc {
	return func(ctx context.Context, req *request.Request) (*response.Response, error) {
		data, err := store.Read(id)
		if err != nil {
			return nil, err
		}
		return response.OK(data), nil
	}
}

func handleGuess(game *guess.Handler, logger logging.Logger) HandlerFunc {
	return func(ctx context.Context, req *request.Request) (*response.Response, error) {
		if !req.HasBody() {
			return nil, ErrMissingBody
		}

		g, err := guess.DecodePayload(cleanBody(*req.Body))
		if err != nil {
			return nil, err
		}

		result := game.Play(g)
		logger.Debug("guess checked", logging.With(ctx,
			logging.F("guess", g),
			logging.F("rand", result.Rand),
			logging.F("message", result.Message),
		)...)

		return response.OK(result.Encode()), nil
	}
}

// cleanBody drops the NUL padding a fixed-size read buffer leaves behind,
// then surrounding whitespace.
func cleanBody(body string) string {
	return strings.TrimSpace(strings.Trim(body, "\x00"))
}
