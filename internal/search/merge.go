// Package search merges and ranks bibliographic results from multiple
// catalogs. All functions are pure: given the same inputs they produce the
// same output, with no I/O and no hidden state.
package search

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/hondana-app/hondana-server/internal/metadata"
)

var caseFolder = cases.Fold()

// foldKey produces a case-insensitive comparison key.
func foldKey(s string) string {
	return caseFolder.String(strings.TrimSpace(s))
}

// Merge combines a primary and a secondary result set. Primary results are
// kept unconditionally, including duplicates within the primary set itself.
// A secondary result is dropped when its ISBN matches any already-seen ISBN,
// or when its case-folded title matches any already-seen title. Order within
// each set is preserved; survivors of the secondary set follow the primary.
func Merge(primary, secondary []metadata.Book) []metadata.Book {
	seenISBN := make(map[string]struct{})
	seenTitle := make(map[string]struct{})

	merged := make([]metadata.Book, 0, len(primary)+len(secondary))

	for _, book := range primary {
		merged = append(merged, book)
		if book.ISBN != nil && *book.ISBN != "" {
			seenISBN[*book.ISBN] = struct{}{}
		}
		if key := foldKey(book.Title); key != "" {
			seenTitle[key] = struct{}{}
		}
	}

	for _, book := range secondary {
		if book.ISBN != nil && *book.ISBN != "" {
			if _, dup := seenISBN[*book.ISBN]; dup {
				continue
			}
		}
		titleKey := foldKey(book.Title)
		if titleKey != "" {
			if _, dup := seenTitle[titleKey]; dup {
				continue
			}
		}

		merged = append(merged, book)
		if book.ISBN != nil && *book.ISBN != "" {
			seenISBN[*book.ISBN] = struct{}{}
		}
		if titleKey != "" {
			seenTitle[titleKey] = struct{}{}
		}
	}

	return merged
}
