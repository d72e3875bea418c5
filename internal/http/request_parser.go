// Package http serves the budget JSON API.
//
// This file implements helpers for reading request bodies and path values.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// errMalformedBody reports a body that is not a single JSON value of the expected shape.
var errMalformedBody = errors.New("malformed JSON body")

// ContributeRequest is the body of POST /api/goals/{id}/contribute.
type ContributeRequest struct {
	Amount decimal.NullDecimal `json:"amount"`
}

// decodeJSON decodes exactly one JSON value from the request body into v.
// Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after JSON value", errMalformedBody)
	}
	return nil
}

// parseIDParam reads a positive int64 path value. ok is false when the value
// is missing, not a number or not positive.
func parseIDParam(r *http.Request, name string) (id int64, ok bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
