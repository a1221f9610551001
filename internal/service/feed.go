package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hondana-app/hondana-server/internal/domain"
	"github.com/hondana-app/hondana-server/internal/store"
)

// Default and maximum sizes for home feed sections.
const (
	defaultFeedLimit = 10
	maxFeedLimit     = 50
)

// FeedService serves the home feed: popular books and the latest reviews.
type FeedService struct {
	store  store.Store
	logger *slog.Logger
}

// NewFeedService creates a new feed service.
func NewFeedService(st store.Store, logger *slog.Logger) *FeedService {
	return &FeedService{
		store:  st,
		logger: logger,
	}
}

func clampFeedLimit(limit int) int {
	if limit <= 0 {
		return defaultFeedLimit
	}
	if limit > maxFeedLimit {
		return maxFeedLimit
	}
	return limit
}

// PopularBooks returns local books ranked by review count, then average
// rating.
func (s *FeedService) PopularBooks(ctx context.Context, limit int) ([]domain.PopularBook, error) {
	return s.store.ListPopularBooks(ctx, clampFeedLimit(limit))
}

// LatestReviews returns the most recent reviews across all users.
func (s *FeedService) LatestReviews(ctx context.Context, limit int) ([]domain.FeedReview, error) {
	return s.store.ListLatestReviews(ctx, clampFeedLimit(limit))
}

// Home is the landing feed.
type Home struct {
	PopularBooks  []domain.PopularBook
	LatestReviews []domain.FeedReview
}

// GetHome loads both feed sections concurrently.
func (s *FeedService) GetHome(ctx context.Context, limit int) (*Home, error) {
	var (
		wg   sync.WaitGroup
		home Home

		errPopular, errLatest error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		home.PopularBooks, errPopular = s.PopularBooks(ctx, limit)
	}()
	go func() {
		defer wg.Done()
		home.LatestReviews, errLatest = s.LatestReviews(ctx, limit)
	}()
	wg.Wait()

	if err := errors.Join(errPopular, errLatest); err != nil {
		return nil, fmt.Errorf("load home feed: %w", err)
	}
	return &home, nil
}
