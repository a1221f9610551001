// Package service provides the business logic layer: search aggregation,
// book identity resolution, shelf and review rules, and visibility gating.
package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hondana-app/hondana-server/internal/metadata"
	"github.com/hondana-app/hondana-server/internal/search"
)

// PrimaryCatalog is the main bibliographic source (Google Books).
type PrimaryCatalog interface {
	Search(ctx context.Context, query string, maxResults int) ([]metadata.Book, error)
	SearchByAuthor(ctx context.Context, author string, maxResults int) ([]metadata.Book, error)
	GetVolume(ctx context.Context, id string) (*metadata.Book, error)
}

// SecondaryCatalog is the library catalog (NDL), strong on Japanese titles.
type SecondaryCatalog interface {
	Search(ctx context.Context, query string, maxRecords int) ([]metadata.Book, error)
}

// CoverProvider backfills covers and resolves ISBN-keyed refs (openBD).
type CoverProvider interface {
	Covers(ctx context.Context, isbns []string) (map[string]string, error)
	Lookup(ctx context.Context, isbn string) (*metadata.Book, error)
}

// SearchService aggregates book search across catalogs.
type SearchService struct {
	primary   PrimaryCatalog
	secondary SecondaryCatalog
	covers    CoverProvider
	logger    *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(primary PrimaryCatalog, secondary SecondaryCatalog, covers CoverProvider, logger *slog.Logger) *SearchService {
	return &SearchService{
		primary:   primary,
		secondary: secondary,
		covers:    covers,
		logger:    logger,
	}
}

const searchBranchLimit = 40

// SearchBooks fans out a keyword query, an author-scoped query and a
// library-catalog query concurrently, merges the results and ranks them by
// relevance. A failing branch degrades to an empty list; the full ranked set
// is returned and pagination is the caller's slicing concern.
func (s *SearchService) SearchBooks(ctx context.Context, query string) ([]metadata.Book, error) {
	var (
		wg sync.WaitGroup

		byKeyword []metadata.Book
		byAuthor  []metadata.Book
		library   []metadata.Book
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		byKeyword = s.branch(ctx, "google keyword", func() ([]metadata.Book, error) {
			return s.primary.Search(ctx, query, searchBranchLimit)
		})
	}()
	go func() {
		defer wg.Done()
		byAuthor = s.branch(ctx, "google author", func() ([]metadata.Book, error) {
			return s.primary.SearchByAuthor(ctx, query, searchBranchLimit)
		})
	}()
	go func() {
		defer wg.Done()
		library = s.branch(ctx, "ndl", func() ([]metadata.Book, error) {
			return s.secondary.Search(ctx, query, searchBranchLimit)
		})
	}()
	wg.Wait()

	s.fillCovers(ctx, library)

	primary := search.Merge(byKeyword, byAuthor)
	merged := search.Merge(primary, library)

	return search.Rank(query, merged), nil
}

// branch runs one provider call, absorbing failure into an empty list so a
// flaky upstream never aborts the whole search.
func (s *SearchService) branch(ctx context.Context, name string, fn func() ([]metadata.Book, error)) []metadata.Book {
	books, err := fn()
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("search branch failed", "provider", name, "error", err)
		}
		return nil
	}
	return books
}

// fillCovers batch-resolves covers for library results, which never carry
// their own cover URLs. Failure leaves the covers nil.
func (s *SearchService) fillCovers(ctx context.Context, books []metadata.Book) {
	var isbns []string
	for _, b := range books {
		if b.ISBN != nil && *b.ISBN != "" {
			isbns = append(isbns, *b.ISBN)
		}
	}
	if len(isbns) == 0 {
		return
	}

	covers, err := s.covers.Covers(ctx, isbns)
	if err != nil {
		s.logger.Warn("cover lookup failed", "isbns", len(isbns), "error", err)
		return
	}

	for i := range books {
		if books[i].CoverImageURL != nil || books[i].ISBN == nil {
			continue
		}
		if url, ok := covers[*books[i].ISBN]; ok {
			u := url
			books[i].CoverImageURL = &u
		}
	}
}
