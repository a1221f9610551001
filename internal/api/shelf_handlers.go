package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hondana-app/hondana-server/internal/domain"
)

func (s *Server) registerShelfRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "upsertShelfEntry",
		Method:      http.MethodPost,
		Path:        "/api/v1/shelf",
		Summary:     "Add or update a shelf entry",
		Description: "Puts a book on the caller's shelf, resolving the external reference to a local book on first use. Repeating the call overwrites status and rating.",
		Tags:        []string{"Shelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpsertShelfEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "getShelfEntry",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelf/{ref}",
		Summary:     "Get own shelf entry",
		Description: "Returns the caller's shelf entry for one book",
		Tags:        []string{"Shelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetShelfEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMyPage",
		Method:      http.MethodGet,
		Path:        "/api/v1/me",
		Summary:     "Get own reading page",
		Description: "Returns the caller's full shelf, reviews and summary counts",
		Tags:        []string{"Shelf"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMyPage)
}

// === DTOs ===

// UpsertShelfEntryInput contains the shelf mutation request.
type UpsertShelfEntryInput struct {
	Authorization string `header:"Authorization"`
	Body          struct {
		ExternalRef string `json:"external_ref" minLength:"1" doc:"External book reference"`
		Status      string `json:"status" enum:"want_to_read,reading,completed,stacked" doc:"Reading status"`
		Rating      *int   `json:"rating,omitempty" minimum:"1" maximum:"5" doc:"Optional 1-5 rating; omitting it clears any previous rating"`
	}
}

// ShelfEntryOutput wraps a single shelf entry for Huma.
type ShelfEntryOutput struct {
	Body domain.ShelfEntry
}

// GetShelfEntryInput contains parameters for reading one shelf entry.
type GetShelfEntryInput struct {
	Authorization string `header:"Authorization"`
	Ref           string `path:"ref" doc:"External book reference"`
}

// MyPageInput carries the caller's token.
type MyPageInput struct {
	Authorization string `header:"Authorization"`
}

// MyPageResponse is the owner's view of their reading.
type MyPageResponse struct {
	Shelf          []domain.ShelfItem  `json:"shelf" doc:"Full shelf, most recently updated first"`
	Reviews        []domain.ReviewItem `json:"reviews" doc:"All written reviews"`
	CompletedCount int                 `json:"completed_count" doc:"Books marked completed"`
	ReviewCount    int                 `json:"review_count" doc:"Reviews written"`
}

// MyPageOutput wraps the my-page response for Huma.
type MyPageOutput struct {
	Body MyPageResponse
}

// === Handlers ===

func (s *Server) handleUpsertShelfEntry(ctx context.Context, input *UpsertShelfEntryInput) (*ShelfEntryOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Shelf.UpsertEntry(ctx, userID, input.Body.ExternalRef, domain.ReadingStatus(input.Body.Status), input.Body.Rating)
	if err != nil {
		return nil, err
	}

	return &ShelfEntryOutput{Body: *entry}, nil
}

func (s *Server) handleGetShelfEntry(ctx context.Context, input *GetShelfEntryInput) (*ShelfEntryOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Shelf.GetEntry(ctx, userID, input.Ref)
	if err != nil {
		return nil, err
	}

	return &ShelfEntryOutput{Body: *entry}, nil
}

func (s *Server) handleGetMyPage(ctx context.Context, input *MyPageInput) (*MyPageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Shelf.GetMyPage(ctx, userID)
	if err != nil {
		return nil, err
	}

	shelf := page.Shelf
	if shelf == nil {
		shelf = []domain.ShelfItem{}
	}
	reviews := page.Reviews
	if reviews == nil {
		reviews = []domain.ReviewItem{}
	}

	return &MyPageOutput{
		Body: MyPageResponse{
			Shelf:          shelf,
			Reviews:        reviews,
			CompletedCount: page.CompletedCount,
			ReviewCount:    page.ReviewCount,
		},
	}, nil
}
