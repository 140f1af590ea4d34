package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nao1215/serpclient/internal/catalog"
	"github.com/nao1215/serpclient/internal/model"
)

// Endpoint paths.
const (
	PathHealth  = "/"
	PathResults = "/results"
	PathScrape  = "/scrape"
)

// Health is the body of the health endpoint.
type Health struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Client talks to the backend.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for baseURL using hc for all requests.
// A nil hc uses http.DefaultClient.
func NewClient(baseURL string, hc *http.Client, opts ...Option) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}

	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	rc := resty.NewWithClient(hc).
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")

	rc.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		c.logger.Debug("backend request", "method", req.Method, "url", req.URL)
		return nil
	})
	rc.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		c.logger.Debug("backend response",
			"method", res.Request.Method,
			"url", res.Request.URL,
			"status", res.StatusCode(),
			"elapsed", res.Time().Round(time.Millisecond),
		)
		return nil
	})

	c.http = rc
	return c
}

// Results fetches previously computed results.
func (c *Client) Results(ctx context.Context) ([]byte, error) {
	res, err := c.http.R().SetContext(ctx).Get(PathResults)
	return c.body(http.MethodGet, PathResults, res, err)
}

// Scrape asks the backend to scrape and analyse the given queries and
// returns the raw response body.
func (c *Client) Scrape(ctx context.Context, queries []catalog.Query) ([]byte, error) {
	if len(queries) == 0 {
		return nil, ErrNoQueries
	}

	body := model.ScrapeRequest{Queries: make([]string, len(queries))}
	for i, q := range queries {
		body.Queries[i] = q.String()
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(PathScrape)
	return c.body(http.MethodPost, PathScrape, res, err)
}

// Health calls the health endpoint.
func (c *Client) Health(ctx context.Context) (Health, error) {
	res, err := c.http.R().SetContext(ctx).Get(PathHealth)
	raw, err := c.body(http.MethodGet, PathHealth, res, err)
	if err != nil {
		return Health{}, err
	}

	var h Health
	if err := json.Unmarshal(raw, &h); err != nil {
		return Health{}, fmt.Errorf("failed to parse health response: %w", err)
	}
	return h, nil
}

// body converts a resty result into raw bytes or a typed error.
func (c *Client) body(method, path string, res *resty.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrRequestFailed, method, path, err)
	}
	if !res.IsSuccess() {
		c.logger.Debug("backend error body", "path", path, "status", res.StatusCode(), "body", truncate(res.String(), 256))
		return nil, &StatusError{Method: method, Path: path, StatusCode: res.StatusCode()}
	}
	return res.Body(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
