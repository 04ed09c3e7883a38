package headers

import (
	"sort"
	"strings"
)

type entry struct {
	name  string
	value string
}

// Headers maps header names to a single value. Lookups ignore case; the
// name is written out the way it was last Set.
type Headers struct {
	headers map[string]entry
}

func NewHeaders() *Headers {
	return &Headers{
		headers: make(map[string]entry),
	}
}

// Get returns the value for a header
func (h *Headers) Get(key string) (string, bool) {
	if h == nil {
		return "", false
	}
	e, ok := h.headers[strings.ToLower(key)]
	return e.value, ok
}

// Set replaces the value for a header
func (h *Headers) Set(key, value string) {
	h.headers[strings.ToLower(key)] = entry{name: key, value: value}
}

// Len returns the number of headers; a nil Headers has none.
func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.headers)
}

// Each calls fn for every header, ordered by lowercased name so the same
// set always serializes the same way.
func (h *Headers) Each(fn func(name, value string)) {
	if h == nil {
		return
	}
	keys := make([]string, 0, len(h.headers))
	for k := range h.headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		e := h.headers[k]
		fn(e.name, e.value)
	}
}
