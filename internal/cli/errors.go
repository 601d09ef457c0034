package cli

import "errors"

// Sentinel kinds for command errors.
var (
	ErrUsage        = errors.New("invalid usage")
	ErrUnknownModel = errors.New("model not in the vote log")
)
