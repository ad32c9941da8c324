package domain

import (
	"errors"
	"fmt"
)

// Reasons a raw event is dropped during normalization.
var (
	ErrNoGeometry         = errors.New("event has no geometry")
	ErrMissingCoordinates = errors.New("geometry is missing latitude or longitude")
	ErrMissingDate        = errors.New("geometry is missing a date")
	ErrInvalidDate        = errors.New("geometry date is not RFC 3339")
)

// FetchError reports a failed upstream fetch: transport failure, a non-200
// status, or an undecodable body.
type FetchError struct {
	Query      Query
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch events (days=%d, status=%s): status %d: %v",
			e.Query.LookbackDays, e.Query.Status, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch events (days=%d, status=%s): %v",
		e.Query.LookbackDays, e.Query.Status, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
