package rating

import "errors"

// Sentinel kinds for rating errors.
var (
	ErrCanceled = errors.New("rating canceled")
)
