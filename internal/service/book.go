package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/hondana-app/hondana-server/internal/domain"
	domainerrors "github.com/hondana-app/hondana-server/internal/errors"
	"github.com/hondana-app/hondana-server/internal/id"
	"github.com/hondana-app/hondana-server/internal/metadata"
	"github.com/hondana-app/hondana-server/internal/metadata/googlebooks"
	"github.com/hondana-app/hondana-server/internal/metadata/openbd"
	"github.com/hondana-app/hondana-server/internal/store"
)

// BookService resolves external book references to local book rows and
// serves book detail pages.
type BookService struct {
	store   store.Store
	primary PrimaryCatalog
	covers  CoverProvider
	logger  *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(st store.Store, primary PrimaryCatalog, covers CoverProvider, logger *slog.Logger) *BookService {
	return &BookService{
		store:   st,
		primary: primary,
		covers:  covers,
		logger:  logger,
	}
}

// GetBookDetail fetches the full normalized record for an external ref.
// Library-catalog refs resolve by ISBN against openBD; primary-catalog refs
// resolve by direct volume fetch. Synthetic fallback refs carry no ISBN and
// are not resolvable, so they report NotFound.
func (s *BookService) GetBookDetail(ctx context.Context, externalRef string) (*metadata.Book, error) {
	if externalRef == "" {
		return nil, domainerrors.Validation("external ref is required")
	}

	if metadata.IsNDLRef(externalRef) {
		isbn, ok := metadata.ISBNFromNDLRef(externalRef)
		if !ok {
			return nil, domainerrors.NotFound("book not found")
		}
		book, err := s.covers.Lookup(ctx, isbn)
		if err != nil {
			if errors.Is(err, openbd.ErrNotFound) {
				return nil, domainerrors.NotFound("book not found")
			}
			return nil, domainerrors.Upstream("book catalog unavailable").WithCause(err)
		}
		return book, nil
	}

	book, err := s.primary.GetVolume(ctx, externalRef)
	if err != nil {
		if errors.Is(err, googlebooks.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, domainerrors.Upstream("book catalog unavailable").WithCause(err)
	}
	return book, nil
}

// ResolveLocalBook maps an external ref to the locally persisted book,
// creating the row on first use. Concurrent first-time resolution is
// arbitrated by the store's uniqueness constraints: a conflicting insert is
// answered by re-reading the winner, so resolution is idempotent.
func (s *BookService) ResolveLocalBook(ctx context.Context, externalRef string) (*domain.Book, error) {
	detail, err := s.GetBookDetail(ctx, externalRef)
	if err != nil {
		return nil, err
	}

	book, err := s.store.GetBookByExternalRef(ctx, externalRef)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get book by external ref: %w", err)
	}

	if detail.ISBN != nil && *detail.ISBN != "" {
		book, err = s.store.GetBookByISBN(ctx, *detail.ISBN)
		if err == nil {
			return book, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("get book by isbn: %w", err)
		}
	}

	newBook := &domain.Book{
		ID:            id.MustGenerate("book"),
		CreatedAt:     time.Now(),
		ExternalRef:   externalRef,
		Title:         detail.Title,
		Author:        detail.Author,
		ISBN:          detail.ISBN,
		CoverImageURL: detail.CoverImageURL,
		Publisher:     detail.Publisher,
		PublishedDate: NormalizePublishedDate(detail.PublishedDate),
	}

	err = s.store.CreateBook(ctx, newBook)
	if err == nil {
		s.logger.Info("local book created", "book_id", newBook.ID, "external_ref", externalRef)
		return newBook, nil
	}
	if !errors.Is(err, store.ErrAlreadyExists) {
		return nil, fmt.Errorf("create book: %w", err)
	}

	// Lost the race: another caller inserted first. Re-read the winner,
	// checking the isbn key too since that constraint can fire as well.
	book, err = s.store.GetBookByExternalRef(ctx, externalRef)
	if err == nil {
		return book, nil
	}
	if errors.Is(err, store.ErrNotFound) && newBook.ISBN != nil {
		book, err = s.store.GetBookByISBN(ctx, *newBook.ISBN)
		if err == nil {
			return book, nil
		}
	}
	return nil, fmt.Errorf("re-read book after conflict: %w", err)
}

// BookPage is the community view of one book: its catalog detail, aggregate
// ratings, the viewer's own shelf entry, and everyone's reviews.
type BookPage struct {
	Detail      *metadata.Book
	Local       *domain.Book
	Community   *domain.BookCommunity
	ViewerEntry *domain.ShelfEntry
	Reviews     []domain.FeedReview
}

// GetBookPage composes the book page. The community aggregates only exist
// once the book has been resolved locally; an unresolved book yields the
// catalog detail with empty community data.
func (s *BookService) GetBookPage(ctx context.Context, externalRef, viewerID string) (*BookPage, error) {
	detail, err := s.GetBookDetail(ctx, externalRef)
	if err != nil {
		return nil, err
	}

	page := &BookPage{
		Detail:    detail,
		Community: &domain.BookCommunity{},
	}

	local, err := s.store.GetBookByExternalRef(ctx, externalRef)
	if errors.Is(err, store.ErrNotFound) {
		return page, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get book by external ref: %w", err)
	}
	page.Local = local

	// Independent reads, fanned out.
	var (
		wg         sync.WaitGroup
		community  *domain.BookCommunity
		viewerErr  error
		commErr    error
		reviewsErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		community, commErr = s.store.GetBookCommunity(ctx, local.ID)
	}()
	go func() {
		defer wg.Done()
		page.Reviews, reviewsErr = s.store.ListReviewsByBook(ctx, local.ID)
	}()
	go func() {
		defer wg.Done()
		if viewerID == "" {
			return
		}
		entry, err := s.store.GetShelfEntry(ctx, viewerID, local.ID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				viewerErr = err
			}
			return
		}
		page.ViewerEntry = entry
	}()
	wg.Wait()

	if err := errors.Join(commErr, reviewsErr, viewerErr); err != nil {
		return nil, fmt.Errorf("load book page: %w", err)
	}
	page.Community = community

	return page, nil
}

var (
	yearOnly  = regexp.MustCompile(`^\d{4}$`)
	yearMonth = regexp.MustCompile(`^\d{4}-\d{2}$`)
	fullDate  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// NormalizePublishedDate widens partial publication dates to full dates:
// "2024" becomes "2024-01-01", "2024-03" becomes "2024-03-01", a full date
// passes through, and anything else (including nil) becomes nil.
func NormalizePublishedDate(date *string) *string {
	if date == nil {
		return nil
	}
	d := *date
	switch {
	case yearOnly.MatchString(d):
		d += "-01-01"
	case yearMonth.MatchString(d):
		d += "-01"
	case fullDate.MatchString(d):
	default:
		return nil
	}
	return &d
}
