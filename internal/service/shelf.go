package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hondana-app/hondana-server/internal/domain"
	domainerrors "github.com/hondana-app/hondana-server/internal/errors"
	"github.com/hondana-app/hondana-server/internal/id"
	"github.com/hondana-app/hondana-server/internal/store"
)

// ShelfService manages a user's bookshelf.
type ShelfService struct {
	store  store.Store
	books  *BookService
	logger *slog.Logger
}

// NewShelfService creates a new shelf service.
func NewShelfService(st store.Store, books *BookService, logger *slog.Logger) *ShelfService {
	return &ShelfService{
		store:  st,
		books:  books,
		logger: logger,
	}
}

// fieldError is the per-field detail payload attached to validation errors.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// UpsertEntry adds a book to the user's shelf or overwrites the existing
// entry's status and rating. The book is resolved to a local row first.
func (s *ShelfService) UpsertEntry(ctx context.Context, userID, externalRef string, status domain.ReadingStatus, rating *int) (*domain.ShelfEntry, error) {
	var fields []fieldError
	if !status.Valid() {
		fields = append(fields, fieldError{Field: "status", Message: "must be one of want_to_read, reading, completed, stacked"})
	}
	if !domain.ValidRating(rating) {
		fields = append(fields, fieldError{Field: "rating", Message: "must be an integer between 1 and 5"})
	}
	if len(fields) > 0 {
		return nil, domainerrors.ValidationWithDetails("invalid shelf entry", fields)
	}

	book, err := s.books.ResolveLocalBook(ctx, externalRef)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry, err := s.store.UpsertShelfEntry(ctx, &domain.ShelfEntry{
		ID:        id.MustGenerate("shelf"),
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    userID,
		BookID:    book.ID,
		Status:    status,
		Rating:    rating,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert shelf entry: %w", err)
	}

	s.logger.Info("shelf entry upserted",
		"user_id", userID,
		"book_id", book.ID,
		"status", status,
	)

	return entry, nil
}

// MyPage is the owner's view of their own reading: full shelf, full
// reviews, and summary counts.
type MyPage struct {
	Shelf          []domain.ShelfItem
	Reviews        []domain.ReviewItem
	CompletedCount int
	ReviewCount    int
}

// GetMyPage composes the owner's summary page.
func (s *ShelfService) GetMyPage(ctx context.Context, userID string) (*MyPage, error) {
	shelf, err := s.store.ListShelf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list shelf: %w", err)
	}
	reviews, err := s.store.ListReviewsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	completed := 0
	for _, item := range shelf {
		if item.Entry.Status == domain.StatusCompleted {
			completed++
		}
	}

	return &MyPage{
		Shelf:          shelf,
		Reviews:        reviews,
		CompletedCount: completed,
		ReviewCount:    len(reviews),
	}, nil
}

// GetEntry returns the viewer's shelf entry for a book, or NotFound.
func (s *ShelfService) GetEntry(ctx context.Context, userID, externalRef string) (*domain.ShelfEntry, error) {
	book, err := s.store.GetBookByExternalRef(ctx, externalRef)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("shelf entry not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	entry, err := s.store.GetShelfEntry(ctx, userID, book.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("shelf entry not found")
		}
		return nil, fmt.Errorf("get shelf entry: %w", err)
	}
	return entry, nil
}
