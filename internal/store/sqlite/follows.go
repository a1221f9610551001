package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/hondana-app/hondana-server/internal/domain"
	"github.com/hondana-app/hondana-server/internal/store"
)

// CreateFollow inserts a directed follow edge. Duplicate edges return
// store.ErrAlreadyExists.
func (s *Store) CreateFollow(ctx context.Context, followerID, followingID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO follows (follower_id, following_id, created_at)
		VALUES (?, ?, ?)`,
		followerID, followingID, formatTime(time.Now()),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// DeleteFollow removes an edge. Deleting a missing edge is not an error.
func (s *Store) DeleteFollow(ctx context.Context, followerID, followingID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND following_id = ?`,
		followerID, followingID)
	return err
}

// FollowExists reports whether follower follows following.
func (s *Store) FollowExists(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = ? AND following_id = ?`,
		followerID, followingID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountFollowing returns how many users this user follows.
func (s *Store) CountFollowing(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = ?`, userID).Scan(&count)
	return count, err
}

// CountFollowers returns how many users follow this user.
func (s *Store) CountFollowers(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE following_id = ?`, userID).Scan(&count)
	return count, err
}

// ListFollowing returns the users this user follows, newest edge first.
func (s *Store) ListFollowing(ctx context.Context, userID string) ([]domain.User, error) {
	return s.listFollowEdgeUsers(ctx, `
		SELECT `+prefixColumns("u", userColumns)+`
		FROM follows f
		JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = ?
		ORDER BY f.created_at DESC`, userID)
}

// ListFollowers returns the users following this user, newest edge first.
func (s *Store) ListFollowers(ctx context.Context, userID string) ([]domain.User, error) {
	return s.listFollowEdgeUsers(ctx, `
		SELECT `+prefixColumns("u", userColumns)+`
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = ?
		ORDER BY f.created_at DESC`, userID)
}

func (s *Store) listFollowEdgeUsers(ctx context.Context, query, userID string) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
