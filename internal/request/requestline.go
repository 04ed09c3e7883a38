package request

import (
	"fmt"
	"strings"
)

// parseRequestLine parses: METHOD PATH VERSION
// Returns: method, path, version, error
func parseRequestLine(line string) (Method, string, string, error) {
	// Any run of whitespace separates parts; extra trailing parts are ignored
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return "", "", "", fmt.Errorf("%w: %q", ErrMalformedRequestLine, line)
	}

	method, ok := parseMethod(parts[0])
	if !ok {
		return "", "", "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, parts[0])
	}

	// Path is kept as sent: no decoding, no query splitting
	return method, parts[1], parts[2], nil
}

// parseMethod is case-sensitive: "get" is not GET.
func parseMethod(s string) (Method, bool) {
	switch Method(s) {
	case MethodGet:
		return MethodGet, true
	case MethodPost:
		return MethodPost, true
	default:
		return "", false
	}
}
