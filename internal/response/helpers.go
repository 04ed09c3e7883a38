package response

const (
	notFoundBody            = "Not Found"
	internalServerErrorBody = "Internal Server Error"
)

// OK wraps body in a 200 with no headers.
func OK(body []byte) *Response {
	return New(StatusOK, body)
}

// NotFound is the one 404 every failed lookup gets.
func NotFound() *Response {
	return New(StatusNotFound, []byte(notFoundBody))
}

// InternalServerError is the one 500 every other failure gets, malformed
// requests included.
func InternalServerError() *Response {
	return New(StatusInternalServerError, []byte(internalServerErrorBody))
}
