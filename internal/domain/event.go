package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventStatus is the upstream lifecycle filter for events.
type EventStatus string

const (
	StatusOpen   EventStatus = "open"
	StatusClosed EventStatus = "closed"
)

// ParseEventStatus validates an upstream status value ("open" or "closed").
func ParseEventStatus(s string) (EventStatus, error) {
	switch EventStatus(s) {
	case StatusOpen, StatusClosed:
		return EventStatus(s), nil
	default:
		return "", fmt.Errorf("invalid event status %q: want open or closed", s)
	}
}

// Query identifies one upstream request. It is comparable and doubles as the
// cache key.
type Query struct {
	LookbackDays int
	Status       EventStatus
}

// DefaultQuery covers the last ten years of closed events.
func DefaultQuery() Query {
	return Query{LookbackDays: 3650, Status: StatusClosed}
}

// RawEvent is a single event as returned by the EONET events endpoint.
type RawEvent struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Link       string     `json:"link,omitempty"`
	Closed     string     `json:"closed,omitempty"`
	Categories []Category `json:"categories"`
	Geometry   []Geometry `json:"geometry"`
}

// Category is an EONET event category reference.
type Category struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
}

// Geometry is one timestamped location sample of an event.
type Geometry struct {
	Date        string      `json:"date"`
	Type        string      `json:"type,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

// Coordinates holds a GeoJSON position in [longitude, latitude] order.
//
// Decoding keeps only the leading run of plain numbers: Polygon geometries
// (nested arrays) decode to an empty sequence and a null element ends the
// sequence at that index.
type Coordinates []float64

// UnmarshalJSON implements json.Unmarshaler.
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = nil
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		// null or a non-array value
		*c = nil
		return nil //nolint:nilerr // malformed coordinates count as absent
	}

	out := make(Coordinates, 0, len(elems))
	for _, e := range elems {
		var v float64
		if err := json.Unmarshal(e, &v); err != nil || string(e) == "null" {
			break
		}
		out = append(out, v)
	}
	*c = out
	return nil
}

// NormalizedEvent is the flat, analysis-ready row derived from a RawEvent.
type NormalizedEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Date      time.Time `json:"date"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Year      int       `json:"year"`
}

// Dataset is the outcome of one pipeline load.
type Dataset struct {
	Events  []NormalizedEvent
	Fetched int   // raw events received before normalization
	Err     error // non-nil when the fetch failed
}
