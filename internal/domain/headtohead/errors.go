package headtohead

import (
	"errors"
	"fmt"
)

// Sentinel kinds for rejected records.
var (
	ErrInvalidOutcome    = errors.New("invalid outcome")
	ErrSelfMatch         = errors.New("competitor matched against itself")
	ErrMissingCompetitor = errors.New("missing competitor")
)

// RecordError reports a record excluded from aggregation.
type RecordError struct {
	ID  string
	Err error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("record %s: %v", e.ID, e.Err)
}

func (e RecordError) Unwrap() error { return e.Err }

// Reason returns a short label for the rejection, suitable for metrics.
func (e RecordError) Reason() string {
	switch {
	case errors.Is(e.Err, ErrInvalidOutcome):
		return "invalid_outcome"
	case errors.Is(e.Err, ErrSelfMatch):
		return "self_match"
	case errors.Is(e.Err, ErrMissingCompetitor):
		return "missing_competitor"
	default:
		return "malformed"
	}
}
