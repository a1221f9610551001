// Package store defines the persistence interface for the Hondana server.
// The SQLite implementation lives in the sqlite subpackage; services depend
// on this interface so tests can substitute fakes.
package store

import (
	"context"
	"errors"

	"github.com/hondana-app/hondana-server/internal/domain"
)

// Sentinel errors returned by store implementations. The store arbitrates
// uniqueness conflicts; callers translate these into domain errors.
var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the persistence interface consumed by the service layer.
type Store interface {
	BookStore
	ShelfStore
	ReviewStore
	FollowStore
	UserStore
}

// BookStore persists locally resolved books.
type BookStore interface {
	// CreateBook inserts a book row. Returns ErrAlreadyExists when the
	// external_ref or isbn uniqueness constraint fires, which callers use
	// to arbitrate concurrent first-time resolution.
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	GetBookByExternalRef(ctx context.Context, externalRef string) (*domain.Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (*domain.Book, error)
	// GetBookCommunity aggregates shelf-entry ratings for one book.
	GetBookCommunity(ctx context.Context, bookID string) (*domain.BookCommunity, error)
	// ListPopularBooks returns local books ordered by review count, then
	// average rating.
	ListPopularBooks(ctx context.Context, limit int) ([]domain.PopularBook, error)
}

// ShelfStore persists per-user shelf entries.
type ShelfStore interface {
	// UpsertShelfEntry inserts or overwrites the (user, book) entry and
	// returns the persisted row. On conflict the existing row's id and
	// created_at are preserved; status and rating are overwritten.
	UpsertShelfEntry(ctx context.Context, entry *domain.ShelfEntry) (*domain.ShelfEntry, error)
	GetShelfEntry(ctx context.Context, userID, bookID string) (*domain.ShelfEntry, error)
	GetShelfEntryByID(ctx context.Context, id string) (*domain.ShelfEntry, error)
	// UpdateShelfRating sets only the rating of an entry.
	UpdateShelfRating(ctx context.Context, entryID string, rating *int) error
	// ListShelf returns the user's entries joined with their books, most
	// recently updated first.
	ListShelf(ctx context.Context, userID string) ([]domain.ShelfItem, error)
}

// ReviewStore persists reviews, at most one per shelf entry.
type ReviewStore interface {
	// CreateReview inserts a review. Returns ErrAlreadyExists when the
	// shelf entry already has one.
	CreateReview(ctx context.Context, review *domain.Review) error
	GetReview(ctx context.Context, id string) (*domain.Review, error)
	GetReviewByShelfEntry(ctx context.Context, shelfEntryID string) (*domain.Review, error)
	UpdateReview(ctx context.Context, id, content string) error
	DeleteReview(ctx context.Context, id string) error
	// ListReviewsByUser returns the user's reviews with books and shelf
	// ratings, newest first.
	ListReviewsByUser(ctx context.Context, userID string) ([]domain.ReviewItem, error)
	// ListReviewsByBook returns a book's reviews with their authors,
	// newest first.
	ListReviewsByBook(ctx context.Context, bookID string) ([]domain.FeedReview, error)
	// ListLatestReviews returns the most recent reviews across all users.
	ListLatestReviews(ctx context.Context, limit int) ([]domain.FeedReview, error)
}

// FollowStore persists directed follow edges.
type FollowStore interface {
	// CreateFollow inserts an edge. Duplicate edges return ErrAlreadyExists.
	CreateFollow(ctx context.Context, followerID, followingID string) error
	// DeleteFollow removes an edge. Deleting a missing edge is not an error.
	DeleteFollow(ctx context.Context, followerID, followingID string) error
	FollowExists(ctx context.Context, followerID, followingID string) (bool, error)
	CountFollowing(ctx context.Context, userID string) (int, error)
	CountFollowers(ctx context.Context, userID string) (int, error)
	ListFollowing(ctx context.Context, userID string) ([]domain.User, error)
	ListFollowers(ctx context.Context, userID string) ([]domain.User, error)
}

// UserStore persists user profiles.
type UserStore interface {
	// CreateUser inserts a profile row. Duplicate usernames return
	// ErrAlreadyExists.
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// UpdateUser overwrites username, avatar and bio. Duplicate usernames
	// return ErrAlreadyExists.
	UpdateUser(ctx context.Context, user *domain.User) error
}
