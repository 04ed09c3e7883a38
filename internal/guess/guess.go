// Package guess implements the number guessing endpoint: decoding a guess,
// drawing the secret number and encoding the verdict.
package guess

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
)

// The secret number is drawn from [Min, Max].
const (
	Min = 1
	Max = 100
)

const (
	MessageEqual    = "equal"
	MessageNotEqual = "not equal"
)

var ErrPayloadDecode = errors.New("invalid guess payload")

// PayloadField is the only key DecodePayload reads. It is matched exactly.
const PayloadField = "data"

// Result is the response body.
type Result struct {
	Message string `json:"message"`
	Rand    uint8  `json:"rand"`
}

// Equal reports whether the guess matched.
func (r Result) Equal() bool {
	return r.Message == MessageEqual
}

// DecodePayload parses a cleaned request body of the form {"data": <0-255>}
// and returns the guess. The key must be spelled exactly "data" and appear
// once; other keys are skipped. Null, negative, fractional or >255 values
// are rejected, as is anything after the object.
func DecodePayload(text string) (uint8, error) {
	dec := json.NewDecoder(strings.NewReader(text))

	tok, err := dec.Token()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPayloadDecode, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return 0, fmt.Errorf("%w: expected an object", ErrPayloadDecode)
	}

	var data *uint8
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrPayloadDecode, err)
		}
		key, _ := tok.(string)

		if key != PayloadField {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return 0, fmt.Errorf("%w: %w", ErrPayloadDecode, err)
			}
			continue
		}

		if data != nil {
			return 0, fmt.Errorf("%w: duplicate field %q", ErrPayloadDecode, PayloadField)
		}
		if err := dec.Decode(&data); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrPayloadDecode, err)
		}
		if data == nil {
			return 0, fmt.Errorf("%w: field %q is null", ErrPayloadDecode, PayloadField)
		}
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPayloadDecode, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w: trailing data after object", ErrPayloadDecode)
	}

	if data == nil {
		return 0, fmt.Errorf("%w: missing field %q", ErrPayloadDecode, PayloadField)
	}
	return *data, nil
}

// Source draws the secret number.
type Source interface {
	// Draw returns a value in [Min, Max].
	Draw() uint8
}

type randSource struct{}

// NewSource returns a Source backed by the process-wide generator, which is
// safe to share between connections.
func NewSource() Source {
	return randSource{}
}

func (randSource) Draw() uint8 {
	return uint8(Min + rand.IntN(Max-Min+1))
}

// FixedSource always draws the same number.
type FixedSource uint8

func (s FixedSource) Draw() uint8 {
	return uint8(s)
}

// Handler compares guesses against freshly drawn numbers.
type Handler struct {
	source Source
}

func NewHandler(source Source) *Handler {
	return &Handler{source: source}
}

// Play draws once and compares.
func (h *Handler) Play(guess uint8) Result {
	secret := h.source.Draw()

	msg := MessageNotEqual
	if guess == secret {
		msg = MessageEqual
	}

	return Result{Message: msg, Rand: secret}
}

// Encode returns r as compact JSON.
func (r Result) Encode() []byte {
	// A string and a uint8 always marshal
	b, _ := json.Marshal(r)
	return b
}
