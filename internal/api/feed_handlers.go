package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hondana-app/hondana-server/internal/domain"
)

func (s *Server) registerFeedRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getHome",
		Method:      http.MethodGet,
		Path:        "/api/v1/home",
		Summary:     "Get home feed",
		Description: "Returns the community landing feed: popular books and the latest reviews",
		Tags:        []string{"Feed"},
	}, s.handleGetHome)
}

// === DTOs ===

// GetHomeInput contains parameters for the home feed.
type GetHomeInput struct {
	Limit int `query:"limit" doc:"Max entries per section (default 10, max 50)"`
}

// HomeResponse is the landing feed.
type HomeResponse struct {
	PopularBooks  []domain.PopularBook `json:"popular_books" doc:"Books ranked by review activity"`
	LatestReviews []domain.FeedReview  `json:"latest_reviews" doc:"Most recent reviews, newest first"`
}

// HomeOutput wraps the home feed for Huma.
type HomeOutput struct {
	Body HomeResponse
}

// === Handlers ===

func (s *Server) handleGetHome(ctx context.Context, input *GetHomeInput) (*HomeOutput, error) {
	home, err := s.services.Feed.GetHome(ctx, input.Limit)
	if err != nil {
		return nil, err
	}

	popular := home.PopularBooks
	if popular == nil {
		popular = []domain.PopularBook{}
	}
	latest := home.LatestReviews
	if latest == nil {
		latest = []domain.FeedReview{}
	}

	return &HomeOutput{
		Body: HomeResponse{
			PopularBooks:  popular,
			LatestReviews: latest,
		},
	}, nil
}
