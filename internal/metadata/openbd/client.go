// Package openbd provides a client for the openBD API, used to backfill
// cover images for NDL results and to resolve ISBN-keyed external refs to
// full book details.
package openbd

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hondana-app/hondana-server/internal/metadata"
)

const (
	defaultBaseURL = "https://api.openbd.jp/v1"

	defaultTimeout = 30 * time.Second

	// The get endpoint accepts up to 100 comma-separated ISBNs per request.
	maxBatchSize = 100
)

// Sentinel errors for openBD API operations.
var (
	ErrNotFound = errors.New("openbd: not found")
	ErrServer   = errors.New("openbd: server error")
)

// rawEntry is one element of the get response. Entries for unknown ISBNs
// come back as JSON null.
type rawEntry struct {
	Summary *rawSummary `json:"summary"`
}

type rawSummary struct {
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	PubDate   string `json:"pubdate"`
	Cover     string `json:"cover"`
}

// Client is a rate-limited openBD API client.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
}

// New creates a new openBD client.
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

// Covers fetches cover image URLs for a batch of ISBNs in a single request.
// The returned map is keyed by normalized ISBN, plus the caller's original
// hyphenated form when it differs, so lookups work either way. ISBNs with no
// openBD record or no cover are simply absent.
func (c *Client) Covers(ctx context.Context, isbns []string) (map[string]string, error) {
	covers := make(map[string]string)
	if len(isbns) == 0 {
		return covers, nil
	}
	if len(isbns) > maxBatchSize {
		isbns = isbns[:maxBatchSize]
	}

	normalized := make([]string, len(isbns))
	for i, isbn := range isbns {
		normalized[i] = metadata.NormalizeISBN(isbn)
	}

	entries, err := c.get(ctx, strings.Join(normalized, ","))
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.Summary == nil || entry.Summary.Cover == "" {
			continue
		}
		covers[entry.Summary.ISBN] = entry.Summary.Cover
		for _, original := range isbns {
			if original != entry.Summary.ISBN && metadata.NormalizeISBN(original) == entry.Summary.ISBN {
				covers[original] = entry.Summary.Cover
			}
		}
	}

	c.logger.Debug("openbd cover lookup", "requested", len(isbns), "found", len(covers))
	return covers, nil
}

// Lookup fetches the summary record for a single ISBN. Returns ErrNotFound
// when openBD has no record.
func (c *Client) Lookup(ctx context.Context, isbn string) (*metadata.Book, error) {
	normalized := metadata.NormalizeISBN(isbn)
	if normalized == "" {
		return nil, ErrNotFound
	}

	entries, err := c.get(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 || entries[0].Summary == nil {
		return nil, ErrNotFound
	}

	return normalizeSummary(entries[0].Summary), nil
}

func normalizeSummary(summary *rawSummary) *metadata.Book {
	isbn := metadata.NormalizeISBN(summary.ISBN)
	book := &metadata.Book{
		ExternalRef: metadata.NDLRef(isbn),
		Title:       summary.Title,
	}
	if isbn != "" {
		book.ISBN = &isbn
	}
	if summary.Author != "" {
		author := summary.Author
		book.Author = &author
	}
	if summary.Publisher != "" {
		publisher := summary.Publisher
		book.Publisher = &publisher
	}
	if summary.PubDate != "" {
		pubdate := summary.PubDate
		book.PublishedDate = &pubdate
	}
	if summary.Cover != "" {
		cover := summary.Cover
		book.CoverImageURL = &cover
	}
	return book
}

func (c *Client) get(ctx context.Context, isbnParam string) ([]rawEntry, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("isbn", isbnParam)
	reqURL := c.baseURL + "/get?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

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
	case resp.StatusCode >= 500:
		return nil, ErrServer
	default:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var raw []*rawEntry
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	entries := make([]rawEntry, 0, len(raw))
	for _, entry := range raw {
		if entry != nil {
			entries = append(entries, *entry)
		}
	}
	return entries, nil
}
