package repository

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrNotFound        = errors.New("model not found")
	ErrInvalidLimit    = errors.New("invalid leaderboard limit")
	ErrNoSnapshot      = errors.New("no leaderboard published yet")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	ErrHistory         = errors.New("rating history failed")
)
