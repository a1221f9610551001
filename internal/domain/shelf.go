package domain

import "time"

// ReadingStatus describes where a book sits on a user's shelf.
type ReadingStatus string

const (
	StatusWantToRead ReadingStatus = "want_to_read"
	StatusReading    ReadingStatus = "reading"
	StatusCompleted  ReadingStatus = "completed"
	StatusStacked    ReadingStatus = "stacked" // bought but not started (tsundoku)
)

// Valid checks if the status is one of the enumerated values.
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusCompleted, StatusStacked:
		return true
	default:
		return false
	}
}

// ShelfEntry is a user's association with a book, carrying reading status
// and an optional 1-5 rating. Unique per (UserID, BookID); writes go
// through an upsert so repeated adds overwrite status and rating instead
// of duplicating the row.
type ShelfEntry struct {
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	BookID    string        `json:"book_id"`
	Status    ReadingStatus `json:"status"`
	Rating    *int          `json:"rating,omitempty"`
}

// ValidRating checks a rating value. A nil rating is always acceptable;
// a set rating must be an integer between 1 and 5.
func ValidRating(rating *int) bool {
	if rating == nil {
		return true
	}
	return *rating >= 1 && *rating <= 5
}

// ShelfItem is a shelf entry joined with its book for listing.
type ShelfItem struct {
	Entry ShelfEntry `json:"entry"`
	Book  Book       `json:"book"`
}
