package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hondana-app/hondana-server/internal/domain"
	"github.com/hondana-app/hondana-server/internal/store"
)

// shelfEntryColumns is the ordered list of columns selected in shelf entry
// queries. Must match the scan order in scanShelfEntry.
const shelfEntryColumns = `id, created_at, updated_at, user_id, book_id, status, rating`

func scanShelfEntry(scanner interface{ Scan(dest ...any) error }) (*domain.ShelfEntry, error) {
	var e domain.ShelfEntry

	var (
		createdAt string
		updatedAt string
		status    string
		rating    sql.NullInt64
	)

	err := scanner.Scan(
		&e.ID,
		&createdAt,
		&updatedAt,
		&e.UserID,
		&e.BookID,
		&status,
		&rating,
	)
	if err != nil {
		return nil, err
	}

	e.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	e.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	e.Status = domain.ReadingStatus(status)
	e.Rating = intPtr(rating)

	return &e, nil
}

// UpsertShelfEntry inserts or overwrites the (user, book) entry. On conflict
// the existing row keeps its id and created_at; status and rating are
// overwritten. Returns the persisted row.
func (s *Store) UpsertShelfEntry(ctx context.Context, entry *domain.ShelfEntry) (*domain.ShelfEntry, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shelf_entries (
			id, created_at, updated_at, user_id, book_id, status, rating
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, book_id) DO UPDATE SET
			updated_at = excluded.updated_at,
			status = excluded.status,
			rating = excluded.rating`,
		entry.ID,
		formatTime(entry.CreatedAt),
		formatTime(entry.UpdatedAt),
		entry.UserID,
		entry.BookID,
		string(entry.Status),
		nullableInt(entry.Rating),
	)
	if err != nil {
		return nil, err
	}

	return s.GetShelfEntry(ctx, entry.UserID, entry.BookID)
}

// GetShelfEntry retrieves the entry for a (user, book) pair.
func (s *Store) GetShelfEntry(ctx context.Context, userID, bookID string) (*domain.ShelfEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+shelfEntryColumns+` FROM shelf_entries WHERE user_id = ? AND book_id = ?`,
		userID, bookID)

	e, err := scanShelfEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetShelfEntryByID retrieves an entry by its id.
func (s *Store) GetShelfEntryByID(ctx context.Context, id string) (*domain.ShelfEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+shelfEntryColumns+` FROM shelf_entries WHERE id = ?`, id)

	e, err := scanShelfEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateShelfRating sets only the rating of an entry.
func (s *Store) UpdateShelfRating(ctx context.Context, entryID string, rating *int) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE shelf_entries SET rating = ?, updated_at = ? WHERE id = ?`,
		nullableInt(rating), formatTime(time.Now()), entryID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListShelf returns the user's entries joined with their books, most
// recently updated first.
func (s *Store) ListShelf(ctx context.Context, userID string) ([]domain.ShelfItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixColumns("se", shelfEntryColumns)+`, `+prefixColumns("b", bookColumns)+`
		FROM shelf_entries se
		JOIN books b ON b.id = se.book_id
		WHERE se.user_id = ?
		ORDER BY se.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ShelfItem
	for rows.Next() {
		item, err := scanShelfItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanShelfItem(rows *sql.Rows) (*domain.ShelfItem, error) {
	var (
		b domain.Book

		entry          domain.ShelfEntry
		entryCreatedAt string
		entryUpdatedAt string
		status         string
		rating         sql.NullInt64

		bookCreatedAt string
		author        sql.NullString
		isbn          sql.NullString
		coverImageURL sql.NullString
		publisher     sql.NullString
		publishedDate sql.NullString
	)

	err := rows.Scan(
		&entry.ID, &entryCreatedAt, &entryUpdatedAt, &entry.UserID, &entry.BookID, &status, &rating,
		&b.ID, &bookCreatedAt, &b.ExternalRef, &b.Title, &author, &isbn,
		&coverImageURL, &publisher, &publishedDate,
	)
	if err != nil {
		return nil, err
	}

	entry.CreatedAt, err = parseTime(entryCreatedAt)
	if err != nil {
		return nil, err
	}
	entry.UpdatedAt, err = parseTime(entryUpdatedAt)
	if err != nil {
		return nil, err
	}
	entry.Status = domain.ReadingStatus(status)
	entry.Rating = intPtr(rating)

	b.CreatedAt, err = parseTime(bookCreatedAt)
	if err != nil {
		return nil, err
	}
	b.Author = stringPtr(author)
	b.ISBN = stringPtr(isbn)
	b.CoverImageURL = stringPtr(coverImageURL)
	b.Publisher = stringPtr(publisher)
	b.PublishedDate = stringPtr(publishedDate)

	return &domain.ShelfItem{Entry: entry, Book: b}, nil
}
