package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hondana-app/hondana-server/internal/domain"
)

func (s *Server) registerReviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "submitReview",
		Method:        http.MethodPost,
		Path:          "/api/v1/reviews",
		Summary:       "Submit a review",
		Description:   "Writes a review for a book already on the caller's shelf. One review per book per user.",
		Tags:          []string{"Reviews"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleSubmitReview)

	huma.Register(s.api, huma.Operation{
		OperationID:   "updateReview",
		Method:        http.MethodPatch,
		Path:          "/api/v1/reviews/{id}",
		Summary:       "Update a review",
		Description:   "Rewrites the content of the caller's own review",
		Tags:          []string{"Reviews"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleUpdateReview)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteReview",
		Method:        http.MethodDelete,
		Path:          "/api/v1/reviews/{id}",
		Summary:       "Delete a review",
		Tags:          []string{"Reviews"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteReview)
}

// === DTOs ===

// SubmitReviewInput contains the review submission request.
type SubmitReviewInput struct {
	Authorization string `header:"Authorization"`
	Body          struct {
		ExternalRef string `json:"external_ref" minLength:"1" doc:"External book reference"`
		Content     string `json:"content" minLength:"1" doc:"Review text, up to 5000 characters"`
		Rating      *int   `json:"rating,omitempty" minimum:"1" maximum:"5" doc:"Optional rating applied to the shelf entry"`
	}
}

// ReviewOutput wraps a single review for Huma.
type ReviewOutput struct {
	Body domain.Review
}

// UpdateReviewInput contains the review update request.
type UpdateReviewInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Review ID"`
	Body          struct {
		Content string `json:"content" minLength:"1" doc:"Replacement review text"`
	}
}

// DeleteReviewInput contains parameters for deleting a review.
type DeleteReviewInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Review ID"`
}

// === Handlers ===

func (s *Server) handleSubmitReview(ctx context.Context, input *SubmitReviewInput) (*ReviewOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	review, err := s.services.Review.Submit(ctx, userID, input.Body.ExternalRef, input.Body.Content, input.Body.Rating)
	if err != nil {
		return nil, err
	}

	return &ReviewOutput{Body: *review}, nil
}

func (s *Server) handleUpdateReview(ctx context.Context, input *UpdateReviewInput) (*struct{}, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Review.Update(ctx, userID, input.ID, input.Body.Content); err != nil {
		return nil, err
	}

	return nil, nil
}

func (s *Server) handleDeleteReview(ctx context.Context, input *DeleteReviewInput) (*struct{}, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Review.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return nil, nil
}
