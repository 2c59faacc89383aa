// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strconv"
)

// queryInt reads an integer query parameter. An absent parameter yields
// zero so downstream defaults apply; a present but non-numeric value is
// a client error.
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, ErrBadRequest)
	}
	return n, nil
}
