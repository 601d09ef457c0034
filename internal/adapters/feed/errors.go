package feed

import "errors"

// Sentinel kinds for feed errors.
var (
	ErrFetch      = errors.New("feed fetch failed")
	ErrHTTPStatus = errors.New("feed returned non-success status")
	ErrDecode     = errors.New("feed decode failed")
	ErrSchema     = errors.New("feed failed schema validation")
	ErrTooLarge   = errors.New("feed exceeds size limit")
)
