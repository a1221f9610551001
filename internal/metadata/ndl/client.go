// Package ndl provides a client for the National Diet Library search API
// (SRU searchRetrieve), the secondary bibliographic catalog. It covers
// Japanese titles that Google Books misses.
package ndl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/hondana-app/hondana-server/internal/metadata"
)

const (
	defaultBaseURL = "https://ndlsearch.ndl.go.jp/api/sru"

	defaultTimeout = 30 * time.Second

	defaultMaxRecords = 100
)

// Sentinel errors for NDL API operations.
var (
	ErrRateLimited = errors.New("ndl: rate limited by server")
	ErrServer      = errors.New("ndl: server error")
)

// Client is a rate-limited NDL search client.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
}

// New creates a new NDL client.
func New(logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(2), 3),
		logger:      logger,
		baseURL:     defaultBaseURL,
	}
}

// SetBaseURL overrides the API base URL. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// Search runs an SRU searchRetrieve over titles and creators, restricted to
// books. Records come back in the dcndl schema with recordPacking=string,
// meaning each record body is an entity-encoded XML document.
func (c *Client) Search(ctx context.Context, query string, maxRecords int) ([]metadata.Book, error) {
	if maxRecords <= 0 || maxRecords > defaultMaxRecords {
		maxRecords = defaultMaxRecords
	}

	cql := fmt.Sprintf("(title=%q OR creator=%q) AND mediatype=%q", query, query, "books")

	params := url.Values{}
	params.Set("operation", "searchRetrieve")
	params.Set("query", cql)
	params.Set("recordSchema", "dcndl")
	params.Set("maximumRecords", strconv.Itoa(maxRecords))
	params.Set("recordPacking", "string")

	body, err := c.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	books, err := parseSearchResponse(body)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	c.logger.Debug("ndl search complete", "query", query, "results", len(books))
	return books, nil
}

func (c *Client) doRequest(ctx context.Context, params url.Values) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, ErrServer
	default:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}
