package api

import (
	"net/http"
	"strconv"
	"strings"
)

// pathParam returns the single path segment after prefix, or false when it
// is empty or nested.
func pathParam(r *http.Request, prefix string) (string, bool) {
	p := strings.TrimPrefix(r.URL.Path, prefix)
	if p == "" || strings.Contains(p, "/") {
		return "", false
	}
	return p, true
}

// parseLimit reads ?limit=N. A missing limit yields def; anything outside
// [1, maxLimit] is an error.
func parseLimit(op string, r *http.Request, def, maxLimit int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, NewKind(op, ErrBadRequest)
	}
	if n > maxLimit {
		return 0, NewKind(op, ErrLimitExceeded)
	}
	return n, nil
}
