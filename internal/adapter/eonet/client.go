package eonet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/disaster-dashboard/internal/domain"
	"github.com/couchcryptid/disaster-dashboard/internal/observability"
)

// maxErrorBody caps how much of a failed response body is kept in the error.
const maxErrorBody = 512

// Client implements domain.Fetcher against the EONET v3 events endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an EONET client for baseURL, e.g.
// https://eonet.gsfc.nasa.gov/api/v3/events.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch issues one GET for q and returns the decoded events. It never retries.
func (c *Client) Fetch(ctx context.Context, q domain.Query) ([]domain.RawEvent, error) {
	start := time.Now()
	events, err := c.doRequest(ctx, q)
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	c.metrics.FetchRequests.WithLabelValues("success").Inc()
	c.logger.Debug("eonet fetch complete",
		"days", q.LookbackDays,
		"status", q.Status,
		"events", len(events),
		"duration", time.Since(start),
	)
	return events, nil
}

func (c *Client) doRequest(ctx context.Context, q domain.Query) ([]domain.RawEvent, error) {
	params := url.Values{
		"days":   {strconv.Itoa(q.LookbackDays)},
		"status": {string(q.Status)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &domain.FetchError{Query: q, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.FetchError{Query: q, Err: fmt.Errorf("eonet request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &domain.FetchError{
			Query:      q,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("eonet API error: %s", body),
		}
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &domain.FetchError{Query: q, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	if payload.Events == nil {
		return []domain.RawEvent{}, nil
	}
	return payload.Events, nil
}

// EONET API response envelope. Only the events list is used.
type response struct {
	Title  string            `json:"title,omitempty"`
	Events []domain.RawEvent `json:"events"`
}
