package domain

import "time"

// MaxReviewContentLength is the longest review content accepted, in runes.
const MaxReviewContentLength = 5000

// Review is a user's written review of a book. It hangs off the user's
// shelf entry rather than the book directly, which gives us the
// one-review-per-user-per-book invariant for free via a uniqueness
// constraint on ShelfEntryID. Ratings live on the shelf entry, not here.
type Review struct {
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ID           string    `json:"id"`
	ShelfEntryID string    `json:"shelf_entry_id"`
	Content      string    `json:"content"`
}

// ReviewItem is a review joined with its book and the rating from the
// parent shelf entry, for listing on profile pages.
type ReviewItem struct {
	Review Review `json:"review"`
	Book   Book   `json:"book"`
	Rating *int   `json:"rating,omitempty"`
}

// FeedReview is a review joined with its author and book for the home feed.
type FeedReview struct {
	Review Review `json:"review"`
	User   User   `json:"user"`
	Book   Book   `json:"book"`
	Rating *int   `json:"rating,omitempty"`
}
