package usgs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quakewatch/internal/domain"
	"github.com/couchcryptid/quakewatch/internal/observability"
)

// maxFeedBytes bounds the response body. The all_day feed is a few MB at most.
const maxFeedBytes = 32 << 20

// FetchErrorKind classifies a whole-call feed failure.
type FetchErrorKind string

const (
	FetchNetwork FetchErrorKind = "network"
	FetchStatus  FetchErrorKind = "status"
	FetchDecode  FetchErrorKind = "decode"
)

// FetchError reports why a feed fetch produced no event set.
type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchStatus:
		return fmt.Sprintf("usgs feed: unexpected status %d", e.StatusCode)
	default:
		return fmt.Sprintf("usgs feed %s error: %v", e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches and normalizes the USGS GeoJSON feed.
// It implements pipeline.Fetcher.
type Client struct {
	feedURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a feed client for feedURL with the given request timeout.
func NewClient(feedURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		feedURL: feedURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchEvents reads the feed once and returns every well-formed event in feed
// order. Malformed features are skipped; an unreachable endpoint, a non-2xx
// response or an undecodable document fails the whole call with *FetchError.
// There are no retries here.
func (c *Client) FetchEvents(ctx context.Context) ([]domain.Event, error) {
	start := time.Now()
	defer func() {
		c.metrics.FeedFetchDuration.Observe(time.Since(start).Seconds())
	}()

	events, skipped, err := c.fetch(ctx)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			c.metrics.FeedFetches.WithLabelValues(string(fe.Kind)).Inc()
		}
		return nil, err
	}

	c.metrics.FeedFetches.WithLabelValues("success").Inc()
	if skipped > 0 {
		c.metrics.FeedSkippedRecords.Add(float64(skipped))
		c.logger.Debug("skipped malformed feed records", "skipped", skipped, "kept", len(events))
	}
	return events, nil
}

func (c *Client) fetch(ctx context.Context) ([]domain.Event, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, 0, &FetchError{Kind: FetchNetwork, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &FetchError{Kind: FetchNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, 0, &FetchError{Kind: FetchStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, 0, &FetchError{Kind: FetchNetwork, Err: fmt.Errorf("read body: %w", err)}
	}

	events, skipped, err := domain.ParseFeatureCollection(body)
	if err != nil {
		return nil, 0, &FetchError{Kind: FetchDecode, Err: err}
	}
	return events, skipped, nil
}
