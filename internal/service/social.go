package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hondana-app/hondana-server/internal/domain"
	domainerrors "github.com/hondana-app/hondana-server/internal/errors"
	"github.com/hondana-app/hondana-server/internal/store"
)

// Truncation limits applied to profiles the viewer has not unlocked by
// following. Ordering is always most-recent-first.
const (
	lockedShelfLimit   = 3
	lockedReviewLimit  = 1
	lockedContentRunes = 100
)

// SocialService manages follow edges and the visibility gate over other
// users' shelves and reviews.
type SocialService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSocialService creates a new social service.
func NewSocialService(st store.Store, logger *slog.Logger) *SocialService {
	return &SocialService{
		store:  st,
		logger: logger,
	}
}

// CanViewFull reports whether the viewer sees the target's full shelf and
// reviews: the owner always does, a follower does, anonymous never does.
func (s *SocialService) CanViewFull(ctx context.Context, viewerID, targetID string) (bool, error) {
	if viewerID == "" {
		return false, nil
	}
	if viewerID == targetID {
		return true, nil
	}
	return s.store.FollowExists(ctx, viewerID, targetID)
}

// Follow creates a follow edge from the viewer to the target.
func (s *SocialService) Follow(ctx context.Context, viewerID, targetID string) error {
	if viewerID == targetID {
		return domainerrors.Validation("cannot follow yourself")
	}
	if _, err := s.store.GetUser(ctx, targetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("get user: %w", err)
	}

	if err := s.store.CreateFollow(ctx, viewerID, targetID); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domainerrors.Conflict("already following")
		}
		return fmt.Errorf("create follow: %w", err)
	}

	s.logger.Info("follow created", "follower_id", viewerID, "following_id", targetID)
	return nil
}

// Unfollow removes the follow edge. Unfollowing someone not followed is a
// no-op.
func (s *SocialService) Unfollow(ctx context.Context, viewerID, targetID string) error {
	if err := s.store.DeleteFollow(ctx, viewerID, targetID); err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

// ListFollowing returns the users the given user follows, newest first.
func (s *SocialService) ListFollowing(ctx context.Context, userID string) ([]domain.User, error) {
	return s.store.ListFollowing(ctx, userID)
}

// ListFollowers returns the users following the given user, newest first.
func (s *SocialService) ListFollowers(ctx context.Context, userID string) ([]domain.User, error) {
	return s.store.ListFollowers(ctx, userID)
}

// Profile is another user's page as seen by a viewer. When the viewer has
// not unlocked full visibility the shelf and review listings are truncated
// and the hidden counts say how much is withheld.
type Profile struct {
	User           domain.User
	FollowingCount int
	FollowerCount  int
	ViewerFollows  bool
	CanViewFull    bool

	Shelf            []domain.ShelfItem
	HiddenShelfCount int

	Reviews           []domain.ReviewItem
	HiddenReviewCount int
}

// GetUserProfile composes a user's profile page for a viewer. The
// independent reads fan out concurrently.
func (s *SocialService) GetUserProfile(ctx context.Context, viewerID, targetID string) (*Profile, error) {
	user, err := s.store.GetUser(ctx, targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	var (
		wg sync.WaitGroup

		followingCount, followerCount int
		viewerFollows                 bool
		shelf                         []domain.ShelfItem
		reviews                       []domain.ReviewItem

		errFollowing, errFollowers, errViewer, errShelf, errReviews error
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		followingCount, errFollowing = s.store.CountFollowing(ctx, targetID)
	}()
	go func() {
		defer wg.Done()
		followerCount, errFollowers = s.store.CountFollowers(ctx, targetID)
	}()
	go func() {
		defer wg.Done()
		if viewerID == "" || viewerID == targetID {
			return
		}
		viewerFollows, errViewer = s.store.FollowExists(ctx, viewerID, targetID)
	}()
	go func() {
		defer wg.Done()
		shelf, errShelf = s.store.ListShelf(ctx, targetID)
	}()
	go func() {
		defer wg.Done()
		reviews, errReviews = s.store.ListReviewsByUser(ctx, targetID)
	}()
	wg.Wait()

	if err := errors.Join(errFollowing, errFollowers, errViewer, errShelf, errReviews); err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	canViewFull := viewerID == targetID || viewerFollows

	profile := &Profile{
		User:           *user,
		FollowingCount: followingCount,
		FollowerCount:  followerCount,
		ViewerFollows:  viewerFollows,
		CanViewFull:    canViewFull,
		Shelf:          shelf,
		Reviews:        reviews,
	}

	if !canViewFull {
		profile.Shelf, profile.HiddenShelfCount = truncateShelf(shelf)
		profile.Reviews, profile.HiddenReviewCount = truncateReviews(reviews)
	}

	return profile, nil
}

// truncateShelf keeps the most recently updated entries. The input is
// already ordered most-recently-updated first.
func truncateShelf(shelf []domain.ShelfItem) ([]domain.ShelfItem, int) {
	if len(shelf) <= lockedShelfLimit {
		return shelf, 0
	}
	return shelf[:lockedShelfLimit], len(shelf) - lockedShelfLimit
}

// truncateReviews keeps the most recent review and clips its content.
func truncateReviews(reviews []domain.ReviewItem) ([]domain.ReviewItem, int) {
	if len(reviews) == 0 {
		return reviews, 0
	}

	kept := reviews[0]
	kept.Review.Content = clipContent(kept.Review.Content, lockedContentRunes)
	return []domain.ReviewItem{kept}, len(reviews) - 1
}

// clipContent shortens a string to limit runes, appending an ellipsis when
// anything was cut.
func clipContent(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + "..."
}
