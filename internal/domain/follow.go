package domain

import "time"

// Follow is a directed social edge: the follower sees the full shelves
// and reviews of the user they follow. Unique per ordered pair, and a
// user can never follow themselves.
type Follow struct {
	CreatedAt   time.Time `json:"created_at"`
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
}
