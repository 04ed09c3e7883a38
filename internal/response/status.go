package response

// StatusCode represents HTTP status codes
type StatusCode int

const (
	StatusOK StatusCode = 200
	// StatusBadRequest is part of the vocabulary but no route emits it;
	// malformed requests get StatusInternalServerError.
	StatusBadRequest          StatusCode = 400
	StatusNotFound            StatusCode = 404
	StatusInternalServerError StatusCode = 500
)

// statusText maps status codes to reason phrases. The 500 phrase has no
// spaces; existing clients match on it.
var statusText = map[StatusCode]string{
	StatusOK:                  "OK",
	StatusBadRequest:          "Bad Request",
	StatusNotFound:            "Not Found",
	StatusInternalServerError: "InternalServerError",
}

// Reason returns the reason phrase for a status code, or "" for codes
// outside the vocabulary.
func (code StatusCode) Reason() string {
	return statusText[code]
}

// IsSuccess returns true for 2xx status codes
func (code StatusCode) IsSuccess() bool {
	return code >= 200 && code < 300
}

// IsServerError returns true for 5xx status codes
func (code StatusCode) IsServerError() bool {
	return code >= 500 && code < 600
}
