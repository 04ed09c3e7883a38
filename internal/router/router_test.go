package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/numguess/internal/assets"
	"github.com/Brownie44l1/numguess/internal/guess"
	"github.com/Brownie44l1/numguess/internal/logging"
	"github.com/Brownie44l1/numguess/internal/request"
	"github.com/Brownie44l1/numguess/internal/response"
)

var iconBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00, 0xff, 0xfe}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html": {Data: []byte("<html>index</html>")},
		"main.js":    {Data: []byte("console.log('main')")},
		"icon.png":   {Data: iconBytes},
		"styles.css": {Data: []byte("body{}")},
	}
}

func newTestRouter(t *testing.T, fsys fs.FS, secret uint8) (*Router, *bytes.Buffer) {
	t.Helper()
	logs := &bytes.Buffer{}
	logger := logging.New(logs, logging.LevelDebug)
	r := NewGuessRouter(assets.NewFSStore(fsys), guess.NewHandler(guess.FixedSource(secret)), logger)
	return r, logs
}

func serve(r *Router, raw string) *response.Response {
	return r.Serve(context.Background(), []byte(raw))
}

func TestStaticRoutes(t *testing.T) {
	r, _ := newTestRouter(t, testFS(), 50)

	tests := []struct {
		path string
		want []byte
	}{
		{"/", []byte("<html>index</html>")},
		{"/main.js", []byte("console.log('main')")},
		{"/favicon.ico", iconBytes},
		{"/styles.css", []byte("body{}")},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res := serve(r, "GET "+tt.path+" HTTP/1.1\r\nHost: localhost\r\n\r\n")

			assert.Equal(t, response.StatusOK, res.StatusCode)
			assert.Equal(t, tt.want, res.Body)
			assert.Equal(t, 0, res.Headers.Len())
		})
	}
}

func TestUnknownGETPath(t *testing.T) {
	r, _ := newTestRouter(t, testFS(), 50)

	for _, path := range []string{"/index.html", "/missing", "/main.js/", "/STYLES.CSS", "/?x=1"} {
		res := serve(r, "GET "+path+" HTTP/1.1\r\n\r\n")

		assert.Equal(t, response.StatusNotFound, res.StatusCode, path)
		assert.Equal(t, "Not Found", string(res.Body), path)
	}
}

func TestUnknownGETPathServesNotFoundPage(t *testing.T) {
	fsys := testFS()
	fsys["404.html"] = &fstest.MapFile{Data: []byte("<h1>lost</h1>")}
	r, _ := newTestRouter(t, fsys, 50)

	res := serve(r, "GET /nowhere HTTP/1.1\r\n\r\n")

	assert.Equal(t, response.StatusOK, res.StatusCode)
	assert.Equal(t, "<h1>lost</h1>", string(res.Body))
}

func TestMissingKnownAssetIsNotFound(t *testing.T) {
	fsys := testFS()
	delete(fsys, "styles.css")
	r, _ := newTestRouter(t, fsys, 50)

	res := serve(r, "GET /styles.css HTTP/1.1\r\n\r\n")

	assert.Equal(t, response.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Not Found", string(res.Body))
}

type brokenFS struct{}

func (brokenFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
}

func TestAssetIOErrorIsInternalServerError(t *testing.T) {
	r, logs := newTestRouter(t, brokenFS{}, 50)

	res := serve(r, "GET / HTTP/1.1\r\n\r\n")

	assert.Equal(t, response.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "Internal Server Error", string(res.Body))
	assert.Contains(t, logs.String(), "ERROR: request failed")
}

func TestPostGuess(t *testing.T) {
	r, logs := newTestRouter(t, testFS(), 42)

	tests := []struct {
		guess   int
		message string
	}{
		{42, guess.MessageEqual},
		{41, guess.MessageNotEqual},
		{0, guess.MessageNotEqual},
		{255, guess.MessageNotEqual},
	}

	for _, tt := range tests {
		raw := fmt.Sprintf("POST / HTTP/1.1\r\nContent-Type: application/json\r\n\r\n{\"data\": %d}", tt.guess)
		res := serve(r, raw)

		require.Equal(t, response.StatusOK, res.StatusCode)

		var result guess.Result
		require.NoError(t, json.Unmarshal(res.Body, &result))
		assert.Equal(t, tt.message, result.Message)
		assert.Equal(t, uint8(42), result.Rand)
	}

	assert.Contains(t, logs.String(), "guess checked")
	assert.Contains(t, logs.String(), "rand=42")
}

func TestPostGuessRandomSourceProperty(t *testing.T) {
	r := NewGuessRouter(assets.NewFSStore(testFS()), guess.NewHandler(guess.NewSource()), nil)

	for g := 0; g <= 255; g += 5 {
		res := serve(r, fmt.Sprintf("POST / HTTP/1.1\r\n\r\n{\"data\":%d}", g))
		require.Equal(t, response.StatusOK, res.StatusCode)

		var result guess.Result
		require.NoError(t, json.Unmarshal(res.Body, &result))
		assert.GreaterOrEqual(t, result.Rand, uint8(1))
		assert.LessOrEqual(t, result.Rand, uint8(100))
		assert.Equal(t, uint8(g) == result.Rand, result.Message == guess.MessageEqual)
	}
}

func TestPostGuessCleansPaddedBody(t *testing.T) {
	r, _ := newTestRouter(t, testFS(), 9)

	buf := make([]byte, request.MaxSize)
	copy(buf, "POST / HTTP/1.1\r\nHost: localhost\r\n\r\n  {\"data\": 9}\r\n")

	res := r.Serve(context.Background(), buf)

	require.Equal(t, response.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"message":"equal","rand":9}`, string(res.Body))
}

func TestPostMalformedJSON(t *testing.T) {
	r, logs := newTestRouter(t, testFS(), 42)

	bodies := []string{
		`{"data": }`, `hello`, `{"data": 300}`, `{"value": 1}`, ``,
		`{"DATA": 42}`, `{"Data": 42}`, `{"data": 1, "data": 42}`,
	}
	for _, body := range bodies {
		res := serve(r, "POST / HTTP/1.1\r\n\r\n"+body)

		assert.Equal(t, response.StatusInternalServerError, res.StatusCode, body)
		assert.Equal(t, "Internal Server Error", string(res.Body), body)
	}

	// decode errors are logged, never sent to the client
	assert.Contains(t, logs.String(), guess.ErrPayloadDecode.Error())
}

func TestPostWithoutSeparator(t *testing.T) {
	r, _ := newTestRouter(t, testFS(), 42)

	res := serve(r, "POST / HTTP/1.1\r\nHost: localhost\r\n")

	assert.Equal(t, response.StatusInternalServerError, res.StatusCode)
}

func TestPostMissingBodyIsInternalServerError(t *testing.T) {
	r, _ := newTestRouter(t, testFS(), 42)

	res := r.Dispatch(context.Background(), &request.Request{Method: request.MethodPost, Path: "/"})

	assert.Equal(t, response.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "Internal Server Error", string(res.Body))
}

func TestPostOtherPathIsNotFound(t *testing.T) {
	r, _ := newTestRouter(t, testFS(), 42)

	for _, path := range []string{"/guess", "/main.js", "//"} {
		res := serve(r, "POST "+path+" HTTP/1.1\r\n\r\n{\"data\": 42}")

		assert.Equal(t, response.StatusNotFound, res.StatusCode, path)
		assert.Equal(t, "Not Found", string(res.Body), path)
	}
}

func TestParseFailuresAreInternalServerError(t *testing.T) {
	r, logs := newTestRouter(t, testFS(), 42)

	tests := map[string][]byte{
		"invalid utf8":     []byte("GET /\xff HTTP/1.1\r\n\r\n"),
		"short line":       []byte("GET /\r\n\r\n"),
		"unsupported verb": []byte("PUT / HTTP/1.1\r\n\r\n"),
		"empty":            {},
	}

	for name, raw := range tests {
		res := r.Serve(context.Background(), raw)

		assert.Equal(t, response.StatusInternalServerError, res.StatusCode, name)
		assert.Equal(t, "Internal Server Error", string(res.Body), name)
	}

	assert.Contains(t, logs.String(), "failed to parse request")
}

func TestPathTrimmedBeforeMatch(t *testing.T) {
	r, _ := newTestRouter(t, testFS(), 42)

	handler, ok := r.Match(request.MethodGet, " /main.js\t")
	require.True(t, ok)

	res, err := handler(context.Background(), &request.Request{Method: request.MethodGet, Path: "/main.js"})
	require.NoError(t, err)
	assert.Equal(t, "console.log('main')", string(res.Body))
}

func TestNoRouteWithoutFallback(t *testing.T) {
	r := New(nil)
	r.GET("/only", func(context.Context, *request.Request) (*response.Response, error) {
		return response.OK([]byte("only")), nil
	})

	res := r.Dispatch(context.Background(), &request.Request{Method: request.MethodGet, Path: "/other"})
	assert.Equal(t, response.StatusNotFound, res.StatusCode)

	res = r.Dispatch(context.Background(), &request.Request{Method: request.MethodPost, Path: "/only"})
	assert.Equal(t, response.StatusNotFound, res.StatusCode)
}

func TestNilResponseBecomesInternalServerError(t *testing.T) {
	r := New(nil)
	r.GET("/", func(context.Context, *request.Request) (*response.Response, error) {
		return nil, nil
	})

	res := r.Dispatch(context.Background(), &request.Request{Method: request.MethodGet, Path: "/"})
	assert.Equal(t, response.StatusInternalServerError, res.StatusCode)
}

func TestErrorResponseMapping(t *testing.T) {
	tests := []struct {
		err  error
		want response.StatusCode
	}{
		{assets.ErrNotFound, response.StatusNotFound},
		{fmt.Errorf("%w: icon.png", assets.ErrNotFound), response.StatusNotFound},
		{ErrNoRoute, response.StatusNotFound},
		{assets.ErrIO, response.StatusInternalServerError},
		{guess.ErrPayloadDecode, response.StatusInternalServerError},
		{ErrMissingBody, response.StatusInternalServerError},
		{request.ErrInvalidEncoding, response.StatusInternalServerError},
		{request.ErrMalformedRequestLine, response.StatusInternalServerError},
		{request.ErrUnsupportedMethod, response.StatusInternalServerError},
		{errors.New("anything else"), response.StatusInternalServerError},
	}

	for _, tt := range tests {
		res := ErrorResponse(tt.err)
		assert.Equal(t, tt.want, res.StatusCode, tt.err.Error())
		assert.NotEqual(t, response.StatusBadRequest, res.StatusCode)
	}
}

func TestContextFieldsReachLogs(t *testing.T) {
	r, logs := newTestRouter(t, testFS(), 42)
	ctx := logging.WithFields(context.Background(), logging.F("conn_id", "conn-1"))

	r.Serve(ctx, []byte("BREW / HTTP/1.1\r\n\r\n"))

	assert.Contains(t, logs.String(), "conn_id=conn-1")
}

func TestDispatchLogsRequestLine(t *testing.T) {
	r, logs := newTestRouter(t, testFS(), 42)

	serve(r, "GET /main.js HTTP/1.1\r\nHost: localhost\r\n\r\n")

	assert.Contains(t, logs.String(), "dispatching request | request=GET /main.js HTTP/1.1")
}
