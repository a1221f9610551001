package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hondana-app/hondana-server/internal/metadata"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search books",
		Description: "Searches all bibliographic catalogs, deduplicates and ranks the combined results",
		Tags:        []string{"Search"},
	}, s.handleSearchBooks)
}

// === DTOs ===

// SearchBooksInput contains parameters for searching books.
type SearchBooksInput struct {
	Query string `query:"q" minLength:"1" doc:"Search terms (title, author, or keywords)"`
}

// SearchBooksResponse contains the ranked search results.
type SearchBooksResponse struct {
	Results []metadata.Book `json:"results" doc:"Ranked, deduplicated results"`
	Count   int             `json:"count" doc:"Number of results"`
}

// SearchBooksOutput wraps the search response for Huma.
type SearchBooksOutput struct {
	Body SearchBooksResponse
}

// === Handlers ===

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchBooksInput) (*SearchBooksOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, huma.Error400BadRequest("Search query is required")
	}

	results, err := s.services.Search.SearchBooks(ctx, query)
	if err != nil {
		return nil, err
	}

	if results == nil {
		results = []metadata.Book{}
	}

	return &SearchBooksOutput{
		Body: SearchBooksResponse{
			Results: results,
			Count:   len(results),
		},
	}, nil
}
