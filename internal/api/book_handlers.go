package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hondana-app/hondana-server/internal/domain"
	"github.com/hondana-app/hondana-server/internal/metadata"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getBookPage",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{ref}",
		Summary:     "Get book page",
		Description: "Returns the catalog detail plus community activity for one book. Anonymous viewers get the page without a personal shelf entry.",
		Tags:        []string{"Books"},
	}, s.handleGetBookPage)
}

// === DTOs ===

// GetBookPageInput contains parameters for getting a book page.
type GetBookPageInput struct {
	Authorization string `header:"Authorization" required:"false"`
	Ref           string `path:"ref" doc:"External book reference"`
}

// BookPageResponse is the composed book page.
type BookPageResponse struct {
	Detail      *metadata.Book        `json:"detail" doc:"Normalized catalog record"`
	Local       *domain.Book          `json:"local,omitempty" doc:"Local book row, present once someone has acted on this book"`
	Community   *domain.BookCommunity `json:"community" doc:"Aggregate rating activity"`
	ViewerEntry *domain.ShelfEntry    `json:"viewer_entry,omitempty" doc:"The viewer's own shelf entry, if any"`
	Reviews     []domain.FeedReview   `json:"reviews" doc:"All reviews of this book"`
}

// BookPageOutput wraps the book page response for Huma.
type BookPageOutput struct {
	Body BookPageResponse
}

// === Handlers ===

func (s *Server) handleGetBookPage(ctx context.Context, input *GetBookPageInput) (*BookPageOutput, error) {
	viewerID := s.optionalViewer(input.Authorization)

	page, err := s.services.Book.GetBookPage(ctx, input.Ref, viewerID)
	if err != nil {
		return nil, err
	}

	reviews := page.Reviews
	if reviews == nil {
		reviews = []domain.FeedReview{}
	}

	return &BookPageOutput{
		Body: BookPageResponse{
			Detail:      page.Detail,
			Local:       page.Local,
			Community:   page.Community,
			ViewerEntry: page.ViewerEntry,
			Reviews:     reviews,
		},
	}, nil
}
