package googlebooks

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hondana-app/hondana-server/internal/metadata"
)

// Search searches the volumes catalog by free-text query, restricted to
// print books.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]metadata.Book, error) {
	return c.search(ctx, query, maxResults)
}

// SearchByAuthor searches the volumes catalog scoped to the author field,
// used by the aggregator to widen recall for author-name queries.
func (c *Client) SearchByAuthor(ctx context.Context, author string, maxResults int) ([]metadata.Book, error) {
	return c.search(ctx, fmt.Sprintf("inauthor:%q", author), maxResults)
}

func (c *Client) search(ctx context.Context, q string, maxResults int) ([]metadata.Book, error) {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if maxResults > apiMaxResults {
		maxResults = apiMaxResults
	}

	query := url.Values{}
	query.Set("q", q)
	query.Set("maxResults", strconv.Itoa(maxResults))
	query.Set("printType", "books")

	body, err := c.doRequest(ctx, "/volumes", query)
	if err != nil {
		return nil, fmt.Errorf("googlebooks search: %w", err)
	}

	var resp rawSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("googlebooks search: parse response: %w", err)
	}

	c.logger.Debug("google books search results",
		"query", q,
		"count", len(resp.Items),
	)

	books := make([]metadata.Book, 0, len(resp.Items))
	for i := range resp.Items {
		books = append(books, normalizeVolume(&resp.Items[i]))
	}
	return books, nil
}

// GetVolume fetches a single volume by its catalog ID.
// Returns ErrNotFound when the catalog has no such record.
func (c *Client) GetVolume(ctx context.Context, volumeID string) (*metadata.Book, error) {
	body, err := c.doRequest(ctx, "/volumes/"+url.PathEscape(volumeID), url.Values{})
	if err != nil {
		return nil, fmt.Errorf("googlebooks get volume %s: %w", volumeID, err)
	}

	var vol rawVolume
	if err := json.Unmarshal(body, &vol); err != nil {
		return nil, fmt.Errorf("googlebooks get volume %s: parse response: %w", volumeID, err)
	}

	book := normalizeVolume(&vol)
	return &book, nil
}

// normalizeVolume maps a raw volume to the shared normalized shape:
// ISBN-13 wins over ISBN-10, insecure cover URLs are upgraded to https,
// multiple authors are joined with ", ", and HTML in the description is
// stripped to plain text.
func normalizeVolume(vol *rawVolume) metadata.Book {
	info := &vol.VolumeInfo

	book := metadata.Book{
		ExternalRef: vol.ID,
		Title:       info.Title,
	}

	if len(info.Authors) > 0 {
		author := strings.Join(info.Authors, ", ")
		book.Author = &author
	}

	var isbn10, isbn13 string
	for _, id := range info.IndustryIdentifiers {
		switch id.Type {
		case "ISBN_13":
			isbn13 = id.Identifier
		case "ISBN_10":
			isbn10 = id.Identifier
		}
	}
	if isbn13 != "" {
		isbn := metadata.NormalizeISBN(isbn13)
		book.ISBN = &isbn
	} else if isbn10 != "" {
		isbn := metadata.NormalizeISBN(isbn10)
		book.ISBN = &isbn
	}

	if info.ImageLinks.Thumbnail != "" {
		cover := strings.Replace(info.ImageLinks.Thumbnail, "http://", "https://", 1)
		book.CoverImageURL = &cover
	}

	if info.Publisher != "" {
		publisher := info.Publisher
		book.Publisher = &publisher
	}
	if info.PublishedDate != "" {
		date := info.PublishedDate
		book.PublishedDate = &date
	}
	if info.Description != "" {
		if desc := stripHTML(info.Description); desc != "" {
			book.Description = &desc
		}
	}

	return book
}
