// Package domain models NASA EONET natural-event data and the tabular view
// built from it.
//
// # Data Source
//
// Events come from the Earth Observatory Natural Event Tracker (EONET) v3
// API, https://eonet.gsfc.nasa.gov/api/v3/events. The dashboard asks for the
// last N days (default 3650) of events with status "closed": concluded
// disasters whose geometry and dates are final.
//
// # EONET Data Conventions
//
// Categories:
//
//	An ordered list of {id, title}, e.g. {"wildfires", "Wildfires"}.
//	Only the first title is used. Events without categories are labelled "N/A".
//
// Geometry:
//
//	An ordered list of samples, each with an ISO-8601 date and a GeoJSON
//	position in [longitude, latitude] order:
//
//	  {"date": "2020-05-01T00:00:00Z", "type": "Point", "coordinates": [10.0, 20.0]}
//
//	Only the first sample is used. "Polygon" samples carry nested rings
//	instead of a position and are treated as having no coordinates.
//
// Dates:
//
//	RFC 3339 with a "Z" suffix or a numeric offset. The year column is taken
//	in the timestamp's own offset.
//
// # Normalization
//
// An event becomes a row only when its first geometry sample yields a date,
// a latitude and a longitude. Values are passed through without clamping and
// duplicate IDs are kept. See [NormalizeEvent].
//
// # Views
//
// [Render] turns a [Dataset] and a [Selection] into a [View]. A view is in
// one of four states: ok, fetch_error (upstream failed), empty (nothing
// survived normalization) or no_match (the selection filters everything
// out). None of them is fatal; the caller keeps serving and the user can
// change the selection or retry later.
package domain
