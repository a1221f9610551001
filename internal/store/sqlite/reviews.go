package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/hondana-app/hondana-server/internal/domain"
	"github.com/hondana-app/hondana-server/internal/store"
)

// reviewColumns is the ordered list of columns selected in review queries.
// Must match the scan order in scanReview.
const reviewColumns = `id, created_at, updated_at, shelf_entry_id, content`

func scanReview(scanner interface{ Scan(dest ...any) error }) (*domain.Review, error) {
	var r domain.Review

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&r.ID,
		&createdAt,
		&updatedAt,
		&r.ShelfEntryID,
		&r.Content,
	)
	if err != nil {
		return nil, err
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// CreateReview inserts a review. Returns store.ErrAlreadyExists when the
// shelf entry already has one.
func (s *Store) CreateReview(ctx context.Context, review *domain.Review) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (id, created_at, updated_at, shelf_entry_id, content)
		VALUES (?, ?, ?, ?, ?)`,
		review.ID,
		formatTime(review.CreatedAt),
		formatTime(review.UpdatedAt),
		review.ShelfEntryID,
		review.Content,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetReview retrieves a review by id.
func (s *Store) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	return s.getReviewWhere(ctx, "id = ?", id)
}

// GetReviewByShelfEntry retrieves the review attached to a shelf entry.
func (s *Store) GetReviewByShelfEntry(ctx context.Context, shelfEntryID string) (*domain.Review, error) {
	return s.getReviewWhere(ctx, "shelf_entry_id = ?", shelfEntryID)
}

func (s *Store) getReviewWhere(ctx context.Context, where string, arg any) (*domain.Review, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE `+where, arg)

	r, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateReview overwrites a review's content.
func (s *Store) UpdateReview(ctx context.Context, id, content string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE reviews SET content = ?, updated_at = ? WHERE id = ?`,
		content, formatTime(time.Now()), id)
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

// DeleteReview removes a review by id.
func (s *Store) DeleteReview(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
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

// ListReviewsByUser returns the user's reviews with books and shelf
// ratings, newest first.
func (s *Store) ListReviewsByUser(ctx context.Context, userID string) ([]domain.ReviewItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixColumns("r", reviewColumns)+`, `+prefixColumns("b", bookColumns)+`, se.rating
		FROM reviews r
		JOIN shelf_entries se ON se.id = r.shelf_entry_id
		JOIN books b ON b.id = se.book_id
		WHERE se.user_id = ?
		ORDER BY r.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ReviewItem
	for rows.Next() {
		var (
			r             domain.Review
			rCreatedAt    string
			rUpdatedAt    string
			b             domain.Book
			bCreatedAt    string
			author        sql.NullString
			isbn          sql.NullString
			coverImageURL sql.NullString
			publisher     sql.NullString
			publishedDate sql.NullString
			rating        sql.NullInt64
		)
		err := rows.Scan(
			&r.ID, &rCreatedAt, &rUpdatedAt, &r.ShelfEntryID, &r.Content,
			&b.ID, &bCreatedAt, &b.ExternalRef, &b.Title, &author, &isbn,
			&coverImageURL, &publisher, &publishedDate,
			&rating,
		)
		if err != nil {
			return nil, err
		}
		if r.CreatedAt, err = parseTime(rCreatedAt); err != nil {
			return nil, err
		}
		if r.UpdatedAt, err = parseTime(rUpdatedAt); err != nil {
			return nil, err
		}
		if b.CreatedAt, err = parseTime(bCreatedAt); err != nil {
			return nil, err
		}
		b.Author = stringPtr(author)
		b.ISBN = stringPtr(isbn)
		b.CoverImageURL = stringPtr(coverImageURL)
		b.Publisher = stringPtr(publisher)
		b.PublishedDate = stringPtr(publishedDate)

		items = append(items, domain.ReviewItem{
			Review: r,
			Book:   b,
			Rating: intPtr(rating),
		})
	}
	return items, rows.Err()
}

// ListReviewsByBook returns a book's reviews with their authors, newest
// first.
func (s *Store) ListReviewsByBook(ctx context.Context, bookID string) ([]domain.FeedReview, error) {
	return s.listFeedReviews(ctx, `WHERE se.book_id = ?`, bookID)
}

// ListLatestReviews returns the most recent reviews across all users.
func (s *Store) ListLatestReviews(ctx context.Context, limit int) ([]domain.FeedReview, error) {
	return s.listFeedReviews(ctx, `LIMIT ?`, limit)
}

func (s *Store) listFeedReviews(ctx context.Context, clause string, arg any) ([]domain.FeedReview, error) {
	query := `
		SELECT ` + prefixColumns("r", reviewColumns) + `,
			` + prefixColumns("u", userColumns) + `,
			` + prefixColumns("b", bookColumns) + `,
			se.rating
		FROM reviews r
		JOIN shelf_entries se ON se.id = r.shelf_entry_id
		JOIN users u ON u.id = se.user_id
		JOIN books b ON b.id = se.book_id
	`
	if strings.HasPrefix(clause, "WHERE") {
		query += clause + ` ORDER BY r.created_at DESC`
	} else {
		query += `ORDER BY r.created_at DESC ` + clause
	}

	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.FeedReview
	for rows.Next() {
		var (
			r          domain.Review
			rCreatedAt string
			rUpdatedAt string

			u          domain.User
			uCreatedAt string
			uUpdatedAt string
			avatarURL  sql.NullString
			bio        sql.NullString

			b             domain.Book
			bCreatedAt    string
			author        sql.NullString
			isbn          sql.NullString
			coverImageURL sql.NullString
			publisher     sql.NullString
			publishedDate sql.NullString

			rating sql.NullInt64
		)
		err := rows.Scan(
			&r.ID, &rCreatedAt, &rUpdatedAt, &r.ShelfEntryID, &r.Content,
			&u.ID, &uCreatedAt, &uUpdatedAt, &u.Username, &avatarURL, &bio,
			&b.ID, &bCreatedAt, &b.ExternalRef, &b.Title, &author, &isbn,
			&coverImageURL, &publisher, &publishedDate,
			&rating,
		)
		if err != nil {
			return nil, err
		}
		if r.CreatedAt, err = parseTime(rCreatedAt); err != nil {
			return nil, err
		}
		if r.UpdatedAt, err = parseTime(rUpdatedAt); err != nil {
			return nil, err
		}
		if u.CreatedAt, err = parseTime(uCreatedAt); err != nil {
			return nil, err
		}
		if u.UpdatedAt, err = parseTime(uUpdatedAt); err != nil {
			return nil, err
		}
		if b.CreatedAt, err = parseTime(bCreatedAt); err != nil {
			return nil, err
		}
		u.AvatarURL = stringPtr(avatarURL)
		u.Bio = stringPtr(bio)
		b.Author = stringPtr(author)
		b.ISBN = stringPtr(isbn)
		b.CoverImageURL = stringPtr(coverImageURL)
		b.Publisher = stringPtr(publisher)
		b.PublishedDate = stringPtr(publishedDate)

		reviews = append(reviews, domain.FeedReview{
			Review: r,
			User:   u,
			Book:   b,
			Rating: intPtr(rating),
		})
	}
	return reviews, rows.Err()
}
