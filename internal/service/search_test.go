package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hondana-app/hondana-server/internal/metadata"
)

func TestSearchBooks(t *testing.T) {
	ctx := context.Background()

	t.Run("merges and ranks across catalogs", func(t *testing.T) {
		// A "Murakami" query: the keyword branch returns a book about the
		// author, the author branch returns books by the author, and the
		// library catalog returns one duplicate title plus one unique
		// title. Books by the author must outrank the book about him; the
		// duplicate must collapse.
		primary := &fakePrimary{
			searchResults: []metadata.Book{
				mbook("about", "村上春樹の読み方", nil, strPt("評論家太郎")),
			},
			authorResults: []metadata.Book{
				mbook("by1", "1Q84", strPt("9784103534228"), strPt("村上春樹")),
			},
		}
		secondary := &fakeSecondary{
			results: []metadata.Book{
				mbook("ndl-9784103534228", "1Q84", strPt("9784103534228"), strPt("村上春樹")), // dup isbn
				mbook("ndl-9784103534123", "螢・納屋を焼く", strPt("9784103534123"), strPt("村上春樹")),
			},
		}
		covers := &fakeCovers{covers: map[string]string{
			"9784103534123": "https://cover.openbd.jp/9784103534123.jpg",
		}}

		svc := NewSearchService(primary, secondary, covers, testLogger())
		books, err := svc.SearchBooks(ctx, "村上春樹")
		if err != nil {
			t.Fatalf("SearchBooks: %v", err)
		}

		if len(books) != 3 {
			t.Fatalf("got %d books, want 3 (dup must collapse): %+v", len(books), books)
		}

		// Author matches first (stable order within the score), title
		// match last.
		if books[0].ExternalRef != "by1" {
			t.Errorf("first = %s, want by1", books[0].ExternalRef)
		}
		if books[1].ExternalRef != "ndl-9784103534123" {
			t.Errorf("second = %s", books[1].ExternalRef)
		}
		if books[2].ExternalRef != "about" {
			t.Errorf("last = %s, want about", books[2].ExternalRef)
		}

		// Library result got its cover backfilled.
		if books[1].CoverImageURL == nil || *books[1].CoverImageURL != "https://cover.openbd.jp/9784103534123.jpg" {
			t.Errorf("CoverImageURL = %v", books[1].CoverImageURL)
		}
	})

	t.Run("failing branch degrades to empty", func(t *testing.T) {
		primary := &fakePrimary{
			searchErr: errors.New("boom"),
			authorErr: errors.New("boom"),
		}
		secondary := &fakeSecondary{
			results: []metadata.Book{
				mbook("ndl-1", "地球星人", nil, strPt("村田沙耶香")),
			},
		}
		svc := NewSearchService(primary, secondary, &fakeCovers{}, testLogger())

		books, err := svc.SearchBooks(ctx, "村田沙耶香")
		if err != nil {
			t.Fatalf("SearchBooks: %v", err)
		}
		if len(books) != 1 || books[0].ExternalRef != "ndl-1" {
			t.Fatalf("got %+v", books)
		}
	})

	t.Run("all branches failing yields empty list, not error", func(t *testing.T) {
		primary := &fakePrimary{searchErr: errors.New("down"), authorErr: errors.New("down")}
		secondary := &fakeSecondary{err: errors.New("down")}
		svc := NewSearchService(primary, secondary, &fakeCovers{}, testLogger())

		books, err := svc.SearchBooks(ctx, "query")
		if err != nil {
			t.Fatalf("SearchBooks: %v", err)
		}
		if len(books) != 0 {
			t.Fatalf("got %d books, want 0", len(books))
		}
	})

	t.Run("cover lookup failure leaves covers nil", func(t *testing.T) {
		secondary := &fakeSecondary{
			results: []metadata.Book{
				mbook("ndl-9784103534123", "螢・納屋を焼く", strPt("9784103534123"), nil),
			},
		}
		covers := &fakeCovers{err: errors.New("down")}
		svc := NewSearchService(&fakePrimary{}, secondary, covers, testLogger())

		books, err := svc.SearchBooks(ctx, "納屋")
		if err != nil {
			t.Fatalf("SearchBooks: %v", err)
		}
		if len(books) != 1 {
			t.Fatalf("got %d books", len(books))
		}
		if books[0].CoverImageURL != nil {
			t.Errorf("CoverImageURL = %v, want nil", *books[0].CoverImageURL)
		}
	})
}
