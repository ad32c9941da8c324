package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/disaster-dashboard/internal/domain"
	"github.com/couchcryptid/disaster-dashboard/internal/observability"
	"github.com/gin-gonic/gin"
)

// Handler serves the dashboard page and its JSON API.
type Handler struct {
	loader  Loader
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewHandler creates a new dashboard handler.
func NewHandler(loader Loader, metrics *observability.Metrics, logger *slog.Logger) *Handler {
	return &Handler{loader: loader, metrics: metrics, logger: logger}
}

type option struct {
	Value    string
	Count    int
	Selected bool
}

type page struct {
	View       domain.View
	Years      []option
	Categories []option
}

// Dashboard renders the HTML page for the selection in the query string.
func (h *Handler) Dashboard(c *gin.Context) {
	ds := h.loader.Load(c.Request.Context())
	sel, err := parseSelection(c, ds.Events)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	view := h.render(ds, sel)
	c.HTML(http.StatusOK, "dashboard.html", page{
		View:       view,
		Years:      yearOptions(view),
		Categories: categoryOptions(ds.Events, view),
	})
}

// GetView returns the rendered view as JSON. Fetch failures are reported
// through the view status, not the HTTP status.
func (h *Handler) GetView(c *gin.Context) {
	ds := h.loader.Load(c.Request.Context())
	sel, err := parseSelection(c, ds.Events)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.render(ds, sel))
}

// ListEvents returns the full normalized table.
func (h *Handler) ListEvents(c *gin.Context) {
	ds := h.loader.Load(c.Request.Context())
	if ds.Err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": ds.Err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(ds.Events),
		"events": ds.Events,
	})
}

// GetOptions returns the values available to the year and category controls.
func (h *Handler) GetOptions(c *gin.Context) {
	ds := h.loader.Load(c.Request.Context())
	if ds.Err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": ds.Err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"years":      domain.Years(ds.Events),
		"categories": domain.Categories(ds.Events),
	})
}

func (h *Handler) render(ds domain.Dataset, sel domain.Selection) domain.View {
	view := domain.Render(ds, sel)
	h.metrics.ViewRenders.WithLabelValues(string(view.Status)).Inc()
	if view.Status == domain.ViewFetchError {
		h.logger.Warn("rendering without event data", "error", ds.Err)
	}
	return view
}

// parseSelection reads year and category query parameters. A missing year
// selects the newest one; a missing category parameter selects every
// category, while category parameters holding only empty values select none.
func parseSelection(c *gin.Context, events []domain.NormalizedEvent) (domain.Selection, error) {
	sel := domain.DefaultSelection(events)

	if raw, ok := c.GetQuery("year"); ok && strings.TrimSpace(raw) != "" {
		year, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return domain.Selection{}, fmt.Errorf("invalid year %q", raw)
		}
		sel.Year = year
	}

	if values, ok := c.GetQueryArray("category"); ok {
		cats := make([]string, 0, len(values))
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				cats = append(cats, v)
			}
		}
		sel.Categories = cats
	}

	return sel, nil
}

func yearOptions(view domain.View) []option {
	out := make([]option, 0, len(view.Years))
	for _, y := range view.Years {
		out = append(out, option{
			Value:    strconv.Itoa(y),
			Selected: y == view.Selection.Year,
		})
	}
	return out
}

func categoryOptions(events []domain.NormalizedEvent, view domain.View) []option {
	counts := make(map[string]int, len(view.Categories))
	for _, e := range events {
		if e.Year == view.Selection.Year {
			counts[e.Category]++
		}
	}
	selected := make(map[string]bool, len(view.Selection.Categories))
	for _, c := range view.Selection.Categories {
		selected[c] = true
	}

	out := make([]option, 0, len(view.Categories))
	for _, c := range view.Categories {
		out = append(out, option{Value: c, Count: counts[c], Selected: selected[c]})
	}
	return out
}
