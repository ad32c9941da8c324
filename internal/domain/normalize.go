package domain

import (
	"fmt"
	"strings"
	"time"
)

// UnknownCategory labels events that arrive without any category.
const UnknownCategory = "N/A"

// Normalize flattens raw events into normalized rows, preserving input order.
// Records that cannot be placed on the map or in time are dropped; duplicate
// IDs pass through untouched.
func Normalize(events []RawEvent) []NormalizedEvent {
	out := make([]NormalizedEvent, 0, len(events))
	for _, raw := range events {
		ev, err := NormalizeEvent(raw)
		if err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// NormalizeEvent derives a NormalizedEvent from the first category and the
// first geometry sample of raw. The returned error wraps one of
// ErrNoGeometry, ErrMissingCoordinates, ErrMissingDate or ErrInvalidDate.
func NormalizeEvent(raw RawEvent) (NormalizedEvent, error) {
	if len(raw.Geometry) == 0 {
		return NormalizedEvent{}, fmt.Errorf("normalize %s: %w", raw.ID, ErrNoGeometry)
	}
	g := raw.Geometry[0]

	lon, lat, ok := lonLat(g.Coordinates)
	if !ok {
		return NormalizedEvent{}, fmt.Errorf("normalize %s: %w", raw.ID, ErrMissingCoordinates)
	}

	date, err := parseDate(g.Date)
	if err != nil {
		return NormalizedEvent{}, fmt.Errorf("normalize %s: %w", raw.ID, err)
	}

	return NormalizedEvent{
		ID:        raw.ID,
		Title:     raw.Title,
		Category:  categoryOf(raw.Categories),
		Date:      date,
		Latitude:  lat,
		Longitude: lon,
		Year:      date.Year(),
	}, nil
}

// categoryOf returns the first category title, or UnknownCategory.
func categoryOf(categories []Category) string {
	if len(categories) == 0 {
		return UnknownCategory
	}
	return categories[0].Title
}

// lonLat reads a GeoJSON position. Both axes must be present.
func lonLat(c Coordinates) (lon, lat float64, ok bool) {
	if len(c) < 2 {
		return 0, 0, false
	}
	return c[0], c[1], true
}

// parseDate accepts RFC 3339 timestamps with a Z suffix or numeric offset.
// The parsed time keeps its original offset so Year() is not reinterpreted.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrMissingDate
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}
