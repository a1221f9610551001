package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hondana-app/hondana-server/internal/domain"
	domainerrors "github.com/hondana-app/hondana-server/internal/errors"
	"github.com/hondana-app/hondana-server/internal/id"
	"github.com/hondana-app/hondana-server/internal/store"
)

// ReviewService manages reviews. A review always hangs off the author's
// shelf entry, which carries the rating.
type ReviewService struct {
	store  store.Store
	logger *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(st store.Store, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		store:  st,
		logger: logger,
	}
}

func validateReviewContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", domainerrors.ValidationWithDetails("invalid review",
			[]fieldError{{Field: "content", Message: "content is required"}})
	}
	if utf8.RuneCountInString(content) > domain.MaxReviewContentLength {
		return "", domainerrors.ValidationWithDetails("invalid review",
			[]fieldError{{Field: "content", Message: fmt.Sprintf("content must be at most %d characters", domain.MaxReviewContentLength)}})
	}
	return content, nil
}

// Submit creates a review for the user's shelf entry on a book. The book
// must already be on the user's shelf. A rating submitted alongside the
// review is written to the shelf entry, not the review.
func (s *ReviewService) Submit(ctx context.Context, userID, externalRef, content string, rating *int) (*domain.Review, error) {
	content, err := validateReviewContent(content)
	if err != nil {
		return nil, err
	}
	if !domain.ValidRating(rating) {
		return nil, domainerrors.ValidationWithDetails("invalid review",
			[]fieldError{{Field: "rating", Message: "must be an integer between 1 and 5"}})
	}

	book, err := s.store.GetBookByExternalRef(ctx, externalRef)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book is not on your shelf")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	entry, err := s.store.GetShelfEntry(ctx, userID, book.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book is not on your shelf")
		}
		return nil, fmt.Errorf("get shelf entry: %w", err)
	}

	now := time.Now()
	review := &domain.Review{
		ID:           id.MustGenerate("rev"),
		CreatedAt:    now,
		UpdatedAt:    now,
		ShelfEntryID: entry.ID,
		Content:      content,
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("already reviewed")
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	// Content and rating travel together in the request but live on
	// different entities.
	if rating != nil {
		if err := s.store.UpdateShelfRating(ctx, entry.ID, rating); err != nil {
			return nil, fmt.Errorf("update shelf rating: %w", err)
		}
	}

	s.logger.Info("review submitted", "user_id", userID, "book_id", book.ID, "review_id", review.ID)
	return review, nil
}

// ErrNotPermitted is returned by Update and Delete when the review is
// missing or owned by someone else. The two cases are deliberately
// indistinguishable so callers cannot probe for other users' reviews.
var ErrNotPermitted = domainerrors.Forbidden("not permitted")

// ownedReview loads a review and checks that the acting user owns its
// parent shelf entry. Missing and not-owned collapse to ErrNotPermitted.
func (s *ReviewService) ownedReview(ctx context.Context, userID, reviewID string) (*domain.Review, error) {
	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotPermitted
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	entry, err := s.store.GetShelfEntryByID(ctx, review.ShelfEntryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotPermitted
		}
		return nil, fmt.Errorf("get shelf entry: %w", err)
	}
	if entry.UserID != userID {
		return nil, ErrNotPermitted
	}

	return review, nil
}

// Update rewrites the content of the user's own review.
func (s *ReviewService) Update(ctx context.Context, userID, reviewID, content string) error {
	content, err := validateReviewContent(content)
	if err != nil {
		return err
	}

	review, err := s.ownedReview(ctx, userID, reviewID)
	if err != nil {
		return err
	}

	if err := s.store.UpdateReview(ctx, review.ID, content); err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	return nil
}

// Delete removes the user's own review.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID string) error {
	review, err := s.ownedReview(ctx, userID, reviewID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteReview(ctx, review.ID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.logger.Info("review deleted", "user_id", userID, "review_id", reviewID)
	return nil
}
