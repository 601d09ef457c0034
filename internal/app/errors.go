package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrRefreshInFlight = errors.New("refresh already in progress")
	ErrRefreshFailed   = errors.New("refresh failed")
	ErrNoFetcher       = errors.New("no feed fetcher configured")
	ErrHistoryDisabled = errors.New("rating history is not enabled")
)
