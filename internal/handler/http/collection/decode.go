package collection

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// decodeJSON reads a request body into T, rejecting unknown fields so typos
// in client payloads fail loudly instead of silently dropping data.
func decodeJSON[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("invalid request body: %w", err)
	}
	return v, nil
}
