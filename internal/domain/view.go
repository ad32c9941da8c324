package domain

import (
	"fmt"
	"strings"
)

// DateLayout is the display format for event dates in tables and popups.
const DateLayout = "2006-01-02"

// DefaultMapZoom is the initial zoom level of the event map.
const DefaultMapZoom = 4

// ViewStatus classifies what a rendered view is able to show.
type ViewStatus string

const (
	ViewOK         ViewStatus = "ok"
	ViewFetchError ViewStatus = "fetch_error" // upstream fetch failed
	ViewEmpty      ViewStatus = "empty"       // fetch succeeded but no usable rows
	ViewNoMatch    ViewStatus = "no_match"    // rows exist but none match the selection
)

// View is everything a presentation layer needs to draw the dashboard.
type View struct {
	Status     ViewStatus `json:"status"`
	Message    string     `json:"message"`
	Heading    string     `json:"heading"`
	Selection  Selection  `json:"selection"`
	Years      []int      `json:"years"`
	Categories []string   `json:"categories"`
	Total      int        `json:"total"`
	Count      int        `json:"count"`
	Rows       []Row      `json:"rows"`
	Map        *MapView   `json:"map,omitempty"`
}

// Row is one line of the raw data table.
type Row struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Date      string  `json:"date"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MapView describes the event map: its center and one marker per row.
type MapView struct {
	Center  LatLon   `json:"center"`
	Zoom    int      `json:"zoom"`
	Markers []Marker `json:"markers"`
}

// LatLon is a WGS-84 position.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Marker is a map pin with its popup contents.
type Marker struct {
	Position LatLon `json:"position"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

// Render builds the view for a selection over a loaded dataset. It is pure:
// the same dataset and selection always produce the same view.
func Render(ds Dataset, sel Selection) View {
	sel = normalizeSelection(sel)
	v := View{
		Selection:  sel,
		Heading:    heading(sel),
		Years:      []int{},
		Categories: []string{},
		Rows:       []Row{},
	}

	if ds.Err != nil {
		v.Status = ViewFetchError
		v.Message = fmt.Sprintf("Failed to load event data: %v. Please try again later.", ds.Err)
		return v
	}

	v.Total = len(ds.Events)
	if v.Total == 0 {
		v.Status = ViewEmpty
		v.Message = "No events are available for the configured period."
		return v
	}
	v.Years = Years(ds.Events)
	v.Categories = Categories(ds.Events)

	matched := Filter(ds.Events, sel.Year, sel.Categories)
	v.Count = len(matched)
	if v.Count == 0 {
		v.Status = ViewNoMatch
		v.Message = "No events match the selected filters."
		return v
	}

	v.Status = ViewOK
	v.Message = fmt.Sprintf("Loaded %d events.", v.Total)
	v.Rows = make([]Row, 0, len(matched))
	for _, e := range matched {
		v.Rows = append(v.Rows, Row{
			ID:        e.ID,
			Title:     e.Title,
			Category:  e.Category,
			Date:      e.Date.Format(DateLayout),
			Latitude:  e.Latitude,
			Longitude: e.Longitude,
		})
	}
	v.Map = buildMap(v.Rows)
	return v
}

func heading(sel Selection) string {
	if len(sel.Categories) == 0 {
		return fmt.Sprintf("%d | no categories selected", sel.Year)
	}
	return fmt.Sprintf("%d | %s", sel.Year, strings.Join(sel.Categories, ", "))
}

// buildMap centers the map on the mean position of rows. rows must be non-empty.
func buildMap(rows []Row) *MapView {
	var sumLat, sumLon float64
	markers := make([]Marker, 0, len(rows))
	for _, r := range rows {
		sumLat += r.Latitude
		sumLon += r.Longitude
		markers = append(markers, Marker{
			Position: LatLon{Lat: r.Latitude, Lon: r.Longitude},
			Title:    r.Title,
			Category: r.Category,
			Date:     r.Date,
		})
	}
	n := float64(len(rows))
	return &MapView{
		Center:  LatLon{Lat: sumLat / n, Lon: sumLon / n},
		Zoom:    DefaultMapZoom,
		Markers: markers,
	}
}
