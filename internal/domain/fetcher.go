package domain

import "context"

// Fetcher retrieves raw events from the upstream tracker.
type Fetcher interface {
	// Fetch returns the events matching q. Failures are reported as *FetchError.
	Fetch(ctx context.Context, q Query) ([]RawEvent, error)
}
