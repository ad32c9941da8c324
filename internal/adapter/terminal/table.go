// Package terminal writes event views as aligned plain-text tables.
package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/disaster-dashboard/internal/domain"
	"github.com/mattn/go-runewidth"
)

var header = []string{"ID", "TITLE", "CATEGORY", "DATE", "LATITUDE", "LONGITUDE"}

const columnGap = "  "

// WriteTable writes rows as a column-aligned table with a header line.
// Widths are measured in terminal cells so wide characters stay aligned.
func WriteTable(w io.Writer, rows []domain.Row) error {
	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, header)
	for _, r := range rows {
		cells = append(cells, []string{
			r.ID,
			r.Title,
			r.Category,
			r.Date,
			formatCoord(r.Latitude),
			formatCoord(r.Longitude),
		})
	}

	widths := make([]int, len(header))
	for _, row := range cells {
		for i, c := range row {
			if n := runewidth.StringWidth(c); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	for _, row := range cells {
		b.Reset()
		for i, c := range row {
			if i > 0 {
				b.WriteString(columnGap)
			}
			b.WriteString(c)
			// No trailing padding on the last column.
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(c)))
			}
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return fmt.Errorf("write table: %w", err)
		}
	}
	return nil
}

// WriteCounts writes one "value  count" line per entry, values padded to a
// common width.
func WriteCounts(w io.Writer, values []string, counts map[string]int) error {
	width := 0
	for _, v := range values {
		if n := runewidth.StringWidth(v); n > width {
			width = n
		}
	}
	for _, v := range values {
		if _, err := fmt.Fprintf(w, "%s%s%d\n", runewidth.FillRight(v, width), columnGap, counts[v]); err != nil {
			return fmt.Errorf("write counts: %w", err)
		}
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
