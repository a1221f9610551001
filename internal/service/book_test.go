package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/hondana-app/hondana-server/internal/domain"
	domainerrors "github.com/hondana-app/hondana-server/internal/errors"
	"github.com/hondana-app/hondana-server/internal/metadata"
	"github.com/hondana-app/hondana-server/internal/metadata/googlebooks"
	"github.com/hondana-app/hondana-server/internal/metadata/openbd"
)

// fakePrimary is a canned PrimaryCatalog.
type fakePrimary struct {
	searchResults []metadata.Book
	searchErr     error
	authorResults []metadata.Book
	authorErr     error
	volumes       map[string]*metadata.Book
}

func (f *fakePrimary) Search(_ context.Context, _ string, _ int) ([]metadata.Book, error) {
	return f.searchResults, f.searchErr
}

func (f *fakePrimary) SearchByAuthor(_ context.Context, _ string, _ int) ([]metadata.Book, error) {
	return f.authorResults, f.authorErr
}

func (f *fakePrimary) GetVolume(_ context.Context, id string) (*metadata.Book, error) {
	if b, ok := f.volumes[id]; ok {
		return b, nil
	}
	return nil, googlebooks.ErrNotFound
}

// fakeSecondary is a canned SecondaryCatalog.
type fakeSecondary struct {
	results []metadata.Book
	err     error
}

func (f *fakeSecondary) Search(_ context.Context, _ string, _ int) ([]metadata.Book, error) {
	return f.results, f.err
}

// fakeCovers is a canned CoverProvider.
type fakeCovers struct {
	covers  map[string]string
	lookups map[string]*metadata.Book
	err     error
}

func (f *fakeCovers) Covers(_ context.Context, _ []string) (map[string]string, error) {
	return f.covers, f.err
}

func (f *fakeCovers) Lookup(_ context.Context, isbn string) (*metadata.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	if b, ok := f.lookups[isbn]; ok {
		return b, nil
	}
	return nil, openbd.ErrNotFound
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func mbook(ref, title string, isbn, author *string) metadata.Book {
	return metadata.Book{ExternalRef: ref, Title: title, ISBN: isbn, Author: author}
}

func strPt(s string) *string { return &s }

func intPt(i int) *int { return &i }

func TestNormalizePublishedDate(t *testing.T) {
	tests := []struct {
		in   *string
		want *string
	}{
		{strPt("2024"), strPt("2024-01-01")},
		{strPt("2024-03"), strPt("2024-03-01")},
		{strPt("2024-03-15"), strPt("2024-03-15")},
		{strPt("2016.7"), nil},
		{strPt("March 2024"), nil},
		{strPt(""), nil},
		{nil, nil},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.in != nil {
			name = *tt.in
		}
		t.Run(name, func(t *testing.T) {
			got := NormalizePublishedDate(tt.in)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("got %q, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("got nil, want %q", *tt.want)
			case tt.want != nil && got != nil && *got != *tt.want:
				t.Errorf("got %q, want %q", *got, *tt.want)
			}
		})
	}
}

func TestGetBookDetail(t *testing.T) {
	primary := &fakePrimary{
		volumes: map[string]*metadata.Book{
			"vol1": {ExternalRef: "vol1", Title: "コンビニ人間"},
		},
	}
	covers := &fakeCovers{
		lookups: map[string]*metadata.Book{
			"9784103355311": {ExternalRef: "ndl-9784103355311", Title: "地球星人", ISBN: strPt("9784103355311")},
		},
	}
	svc := NewBookService(newFakeStore(), primary, covers, testLogger())
	ctx := context.Background()

	t.Run("primary catalog ref", func(t *testing.T) {
		book, err := svc.GetBookDetail(ctx, "vol1")
		if err != nil {
			t.Fatalf("GetBookDetail: %v", err)
		}
		if book.Title != "コンビニ人間" {
			t.Errorf("Title = %q", book.Title)
		}
	})

	t.Run("library catalog ref resolves via isbn", func(t *testing.T) {
		book, err := svc.GetBookDetail(ctx, "ndl-9784103355311")
		if err != nil {
			t.Fatalf("GetBookDetail: %v", err)
		}
		if book.Title != "地球星人" {
			t.Errorf("Title = %q", book.Title)
		}
	})

	t.Run("fallback ref is not resolvable", func(t *testing.T) {
		_, err := svc.GetBookDetail(ctx, "ndl-x-0190cbb0")
		if !errors.Is(err, domainerrors.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("unknown primary ref", func(t *testing.T) {
		_, err := svc.GetBookDetail(ctx, "missing")
		if !errors.Is(err, domainerrors.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("empty ref", func(t *testing.T) {
		_, err := svc.GetBookDetail(ctx, "")
		if !errors.Is(err, domainerrors.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestResolveLocalBook(t *testing.T) {
	ctx := context.Background()

	newService := func(st *fakeStore) *BookService {
		primary := &fakePrimary{
			volumes: map[string]*metadata.Book{
				"vol1": {
					ExternalRef:   "vol1",
					Title:         "コンビニ人間",
					ISBN:          strPt("9784163906188"),
					PublishedDate: strPt("2016-07"),
				},
			},
		}
		return NewBookService(st, primary, &fakeCovers{}, testLogger())
	}

	t.Run("creates on first resolution", func(t *testing.T) {
		st := newFakeStore()
		svc := newService(st)

		book, err := svc.ResolveLocalBook(ctx, "vol1")
		if err != nil {
			t.Fatalf("ResolveLocalBook: %v", err)
		}
		if book.Title != "コンビニ人間" {
			t.Errorf("Title = %q", book.Title)
		}
		// Partial date widened on insert.
		if book.PublishedDate == nil || *book.PublishedDate != "2016-07-01" {
			t.Errorf("PublishedDate = %v", book.PublishedDate)
		}
	})

	t.Run("idempotent by external ref", func(t *testing.T) {
		st := newFakeStore()
		svc := newService(st)

		first, err := svc.ResolveLocalBook(ctx, "vol1")
		if err != nil {
			t.Fatalf("first resolve: %v", err)
		}
		second, err := svc.ResolveLocalBook(ctx, "vol1")
		if err != nil {
			t.Fatalf("second resolve: %v", err)
		}
		if first.ID != second.ID {
			t.Errorf("ids differ: %s vs %s", first.ID, second.ID)
		}
		if len(st.books) != 1 {
			t.Errorf("got %d book rows, want 1", len(st.books))
		}
	})

	t.Run("matches existing row by isbn", func(t *testing.T) {
		st := newFakeStore()
		// The same physical book already resolved through the library
		// catalog under a different ref.
		existing := &domain.Book{
			ID:          "book-existing",
			CreatedAt:   time.Now(),
			ExternalRef: "ndl-9784163906188",
			Title:       "コンビニ人間",
			ISBN:        strPt("9784163906188"),
		}
		if err := st.CreateBook(ctx, existing); err != nil {
			t.Fatalf("seed book: %v", err)
		}
		svc := newService(st)

		book, err := svc.ResolveLocalBook(ctx, "vol1")
		if err != nil {
			t.Fatalf("ResolveLocalBook: %v", err)
		}
		if book.ID != "book-existing" {
			t.Errorf("ID = %s, want book-existing", book.ID)
		}
		if len(st.books) != 1 {
			t.Errorf("got %d book rows, want 1", len(st.books))
		}
	})

	t.Run("insert race re-reads the winner", func(t *testing.T) {
		st := newFakeStore()
		svc := newService(st)

		// Simulate a concurrent resolver winning the insert between our
		// lookup and our insert.
		st.createBookHook = func() {
			st.createBookHook = nil
			err := st.CreateBook(ctx, &domain.Book{
				ID:          "book-winner",
				CreatedAt:   time.Now(),
				ExternalRef: "vol1",
				Title:       "コンビニ人間",
				ISBN:        strPt("9784163906188"),
			})
			if err != nil {
				t.Errorf("winner insert: %v", err)
			}
		}

		book, err := svc.ResolveLocalBook(ctx, "vol1")
		if err != nil {
			t.Fatalf("ResolveLocalBook: %v", err)
		}
		if book.ID != "book-winner" {
			t.Errorf("ID = %s, want book-winner", book.ID)
		}
		if len(st.books) != 1 {
			t.Errorf("got %d book rows, want 1", len(st.books))
		}
	})

	t.Run("unknown upstream ref fails", func(t *testing.T) {
		st := newFakeStore()
		svc := newService(st)

		_, err := svc.ResolveLocalBook(ctx, "missing")
		if !errors.Is(err, domainerrors.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
		if len(st.books) != 0 {
			t.Errorf("no row should be created, got %d", len(st.books))
		}
	})
}

func TestGetBookPage(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()

	alice := &domain.User{ID: "user-a", Username: "alice", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := st.CreateUser(ctx, alice); err != nil {
		t.Fatal(err)
	}

	book := &domain.Book{ID: "book-1", CreatedAt: time.Now(), ExternalRef: "vol1", Title: "コンビニ人間"}
	if err := st.CreateBook(ctx, book); err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	entry, err := st.UpsertShelfEntry(ctx, &domain.ShelfEntry{
		ID: "shelf-1", CreatedAt: now, UpdatedAt: now,
		UserID: alice.ID, BookID: book.ID,
		Status: domain.StatusCompleted, Rating: intPt(5),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := st.CreateReview(ctx, &domain.Review{
		ID: "rev-1", CreatedAt: now, UpdatedAt: now,
		ShelfEntryID: entry.ID, Content: "最高でした",
	}); err != nil {
		t.Fatal(err)
	}

	primary := &fakePrimary{volumes: map[string]*metadata.Book{
		"vol1": {ExternalRef: "vol1", Title: "コンビニ人間"},
	}}
	svc := NewBookService(st, primary, &fakeCovers{}, testLogger())

	t.Run("resolved book", func(t *testing.T) {
		page, err := svc.GetBookPage(ctx, "vol1", alice.ID)
		if err != nil {
			t.Fatalf("GetBookPage: %v", err)
		}
		if page.Local == nil || page.Local.ID != book.ID {
			t.Fatalf("Local = %+v", page.Local)
		}
		if page.Community.RatingCount != 1 {
			t.Errorf("RatingCount = %d", page.Community.RatingCount)
		}
		if page.ViewerEntry == nil || page.ViewerEntry.Status != domain.StatusCompleted {
			t.Errorf("ViewerEntry = %+v", page.ViewerEntry)
		}
		if len(page.Reviews) != 1 {
			t.Errorf("got %d reviews", len(page.Reviews))
		}
	})

	t.Run("anonymous viewer", func(t *testing.T) {
		page, err := svc.GetBookPage(ctx, "vol1", "")
		if err != nil {
			t.Fatalf("GetBookPage: %v", err)
		}
		if page.ViewerEntry != nil {
			t.Errorf("ViewerEntry = %+v, want nil", page.ViewerEntry)
		}
	})

	t.Run("unresolved book has empty community", func(t *testing.T) {
		primary.volumes["vol2"] = &metadata.Book{ExternalRef: "vol2", Title: "新刊"}
		page, err := svc.GetBookPage(ctx, "vol2", alice.ID)
		if err != nil {
			t.Fatalf("GetBookPage: %v", err)
		}
		if page.Local != nil {
			t.Errorf("Local = %+v, want nil", page.Local)
		}
		if page.Community.RatingCount != 0 {
			t.Errorf("RatingCount = %d", page.Community.RatingCount)
		}
	})
}
