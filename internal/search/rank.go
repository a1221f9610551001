package search

import (
	"slices"
	"strings"

	"github.com/hondana-app/hondana-server/internal/metadata"
)

// Relevance scores. Author matches outrank title matches so that an
// author-name query surfaces that author's books ahead of books that merely
// mention the name in their title.
const (
	scoreAuthorMatch = 2
	scoreTitleMatch  = 1
)

// Score computes the relevance of a book for a query: 2 when the query is a
// case-insensitive substring of the author, 1 when of the title, 0 otherwise.
func Score(query string, book metadata.Book) int {
	q := foldKey(query)
	if q == "" {
		return 0
	}
	if book.Author != nil && strings.Contains(foldKey(*book.Author), q) {
		return scoreAuthorMatch
	}
	if strings.Contains(foldKey(book.Title), q) {
		return scoreTitleMatch
	}
	return 0
}

// Rank sorts books by descending relevance score. The sort is stable, so
// books with equal scores keep their merge order. The input slice is not
// modified.
func Rank(query string, books []metadata.Book) []metadata.Book {
	ranked := slices.Clone(books)
	slices.SortStableFunc(ranked, func(a, b metadata.Book) int {
		return Score(query, b) - Score(query, a)
	})
	return ranked
}
