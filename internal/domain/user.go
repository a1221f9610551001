package domain

import "time"

// Username and bio limits, enforced on profile updates.
const (
	MaxUsernameLength = 50
	MaxBioLength      = 500
)

// User is a member profile. Identity (credentials, sessions) lives in the
// external identity service; this row only carries the public profile and
// shares the identity service's user ID.
type User struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
}
