package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/hondana-app/hondana-server/internal/domain"
	"github.com/hondana-app/hondana-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, created_at, external_ref, title, author, isbn, cover_image_url, publisher, published_date`

func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		createdAt     string
		author        sql.NullString
		isbn          sql.NullString
		coverImageURL sql.NullString
		publisher     sql.NullString
		publishedDate sql.NullString
	)

	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&b.ExternalRef,
		&b.Title,
		&author,
		&isbn,
		&coverImageURL,
		&publisher,
		&publishedDate,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	b.Author = stringPtr(author)
	b.ISBN = stringPtr(isbn)
	b.CoverImageURL = stringPtr(coverImageURL)
	b.Publisher = stringPtr(publisher)
	b.PublishedDate = stringPtr(publishedDate)

	return &b, nil
}

// CreateBook inserts a new book row. Returns store.ErrAlreadyExists when
// external_ref or isbn collides, letting the caller re-read the winner.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (
			id, created_at, external_ref, title, author, isbn,
			cover_image_url, publisher, published_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		formatTime(book.CreatedAt),
		book.ExternalRef,
		book.Title,
		nullableString(book.Author),
		nullableString(book.ISBN),
		nullableString(book.CoverImageURL),
		nullableString(book.Publisher),
		nullableString(book.PublishedDate),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetBook retrieves a book by its local id.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	return s.getBookWhere(ctx, "id = ?", id)
}

// GetBookByExternalRef retrieves a book by its provider reference.
func (s *Store) GetBookByExternalRef(ctx context.Context, externalRef string) (*domain.Book, error) {
	return s.getBookWhere(ctx, "external_ref = ?", externalRef)
}

// GetBookByISBN retrieves a book by its normalized ISBN.
func (s *Store) GetBookByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	return s.getBookWhere(ctx, "isbn = ?", isbn)
}

func (s *Store) getBookWhere(ctx context.Context, where string, arg any) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE `+where, arg)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetBookCommunity aggregates shelf-entry ratings for one book.
func (s *Store) GetBookCommunity(ctx context.Context, bookID string) (*domain.BookCommunity, error) {
	var (
		avg   sql.NullFloat64
		count int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT AVG(rating), COUNT(rating)
		FROM shelf_entries
		WHERE book_id = ? AND rating IS NOT NULL`,
		bookID,
	).Scan(&avg, &count)
	if err != nil {
		return nil, err
	}

	community := &domain.BookCommunity{RatingCount: count}
	if avg.Valid {
		v := avg.Float64
		community.AverageRating = &v
	}
	return community, nil
}

// ListPopularBooks returns local books ordered by review count, then
// average shelf rating.
func (s *Store) ListPopularBooks(ctx context.Context, limit int) ([]domain.PopularBook, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixColumns("b", bookColumns)+`,
			COUNT(DISTINCT r.id) AS review_count,
			AVG(se.rating) AS average_rating
		FROM books b
		JOIN shelf_entries se ON se.book_id = b.id
		LEFT JOIN reviews r ON r.shelf_entry_id = se.id
		GROUP BY b.id
		HAVING COUNT(DISTINCT r.id) > 0
		ORDER BY review_count DESC, average_rating DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var popular []domain.PopularBook
	for rows.Next() {
		var (
			b             domain.Book
			createdAt     string
			author        sql.NullString
			isbn          sql.NullString
			coverImageURL sql.NullString
			publisher     sql.NullString
			publishedDate sql.NullString
			reviewCount   int
			averageRating sql.NullFloat64
		)
		err := rows.Scan(
			&b.ID, &createdAt, &b.ExternalRef, &b.Title, &author, &isbn,
			&coverImageURL, &publisher, &publishedDate,
			&reviewCount, &averageRating,
		)
		if err != nil {
			return nil, err
		}
		b.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		b.Author = stringPtr(author)
		b.ISBN = stringPtr(isbn)
		b.CoverImageURL = stringPtr(coverImageURL)
		b.Publisher = stringPtr(publisher)
		b.PublishedDate = stringPtr(publishedDate)

		p := domain.PopularBook{Book: b, ReviewCount: reviewCount}
		if averageRating.Valid {
			v := averageRating.Float64
			p.AverageRating = &v
		}
		popular = append(popular, p)
	}
	return popular, rows.Err()
}

// prefixColumns qualifies each column in a comma-separated list with a
// table alias for use in joins.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, part := range parts {
		parts[i] = alias + "." + part
	}
	return strings.Join(parts, ", ")
}
