package domain

import "time"

// Book is the locally persisted, deduplicated representation of a book.
// It is created lazily the first time a user acts on an externally
// discovered record, and is addressable independent of which catalog it
// was discovered through. At most one Book exists per external reference
// and at most one per non-empty ISBN; the database enforces both.
type Book struct {
	CreatedAt     time.Time `json:"created_at"`
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        *string   `json:"author,omitempty"`
	ISBN          *string   `json:"isbn,omitempty"`
	CoverImageURL *string   `json:"cover_image_url,omitempty"`
	Publisher     *string   `json:"publisher,omitempty"`
	PublishedDate *string   `json:"published_date,omitempty"` // YYYY-MM-DD, nil when the source date could not be normalized
	ExternalRef   string    `json:"external_ref"`
}

// BookCommunity aggregates community activity for a book.
type BookCommunity struct {
	AverageRating *float64 `json:"average_rating,omitempty"`
	RatingCount   int      `json:"rating_count"`
}

// PopularBook is a book ranked by community review activity.
type PopularBook struct {
	Book          Book     `json:"book"`
	ReviewCount   int      `json:"review_count"`
	AverageRating *float64 `json:"average_rating,omitempty"`
}
