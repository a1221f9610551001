package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hondana-app/hondana-server/internal/domain"
)

func (s *Server) registerSocialRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "followUser",
		Method:        http.MethodPost,
		Path:          "/api/v1/users/{id}/follow",
		Summary:       "Follow a user",
		Description:   "Following unlocks the target's full shelf and review listings",
		Tags:          []string{"Social"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleFollowUser)

	huma.Register(s.api, huma.Operation{
		OperationID:   "unfollowUser",
		Method:        http.MethodDelete,
		Path:          "/api/v1/users/{id}/follow",
		Summary:       "Unfollow a user",
		Description:   "Idempotent; unfollowing someone you don't follow is a no-op",
		Tags:          []string{"Social"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleUnfollowUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}",
		Summary:     "Get a user profile",
		Description: "Returns the profile with shelf and reviews. Listings are truncated unless the viewer is the owner or a follower.",
		Tags:        []string{"Social"},
	}, s.handleGetUserProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowing",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/following",
		Summary:     "List followed users",
		Tags:        []string{"Social"},
	}, s.handleListFollowing)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/followers",
		Summary:     "List followers",
		Tags:        []string{"Social"},
	}, s.handleListFollowers)
}

// === DTOs ===

// FollowInput contains parameters for follow mutations.
type FollowInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Target user ID"`
}

// GetUserProfileInput contains parameters for reading a profile.
type GetUserProfileInput struct {
	Authorization string `header:"Authorization" required:"false"`
	ID            string `path:"id" doc:"Target user ID"`
}

// UserProfileResponse is a user's page as seen by the viewer.
type UserProfileResponse struct {
	User           domain.User `json:"user"`
	FollowingCount int         `json:"following_count" doc:"Users this profile follows"`
	FollowerCount  int         `json:"follower_count" doc:"Users following this profile"`
	ViewerFollows  bool        `json:"viewer_follows" doc:"Whether the viewer follows this profile"`
	CanViewFull    bool        `json:"can_view_full" doc:"Whether the viewer sees untruncated listings"`

	Shelf            []domain.ShelfItem `json:"shelf" doc:"Shelf entries, possibly truncated"`
	HiddenShelfCount int                `json:"hidden_shelf_count" doc:"Shelf entries withheld from a locked viewer"`

	Reviews           []domain.ReviewItem `json:"reviews" doc:"Reviews, possibly truncated and clipped"`
	HiddenReviewCount int                 `json:"hidden_review_count" doc:"Reviews withheld from a locked viewer"`
}

// UserProfileOutput wraps the profile response for Huma.
type UserProfileOutput struct {
	Body UserProfileResponse
}

// ListUsersInput contains parameters for follower listings.
type ListUsersInput struct {
	ID string `path:"id" doc:"User ID"`
}

// UserListResponse is a flat list of user profiles.
type UserListResponse struct {
	Users []domain.User `json:"users"`
	Count int           `json:"count"`
}

// UserListOutput wraps a user list for Huma.
type UserListOutput struct {
	Body UserListResponse
}

// === Handlers ===

func (s *Server) handleFollowUser(ctx context.Context, input *FollowInput) (*struct{}, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Social.Follow(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return nil, nil
}

func (s *Server) handleUnfollowUser(ctx context.Context, input *FollowInput) (*struct{}, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Social.Unfollow(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return nil, nil
}

func (s *Server) handleGetUserProfile(ctx context.Context, input *GetUserProfileInput) (*UserProfileOutput, error) {
	viewerID := s.optionalViewer(input.Authorization)

	profile, err := s.services.Social.GetUserProfile(ctx, viewerID, input.ID)
	if err != nil {
		return nil, err
	}

	shelf := profile.Shelf
	if shelf == nil {
		shelf = []domain.ShelfItem{}
	}
	reviews := profile.Reviews
	if reviews == nil {
		reviews = []domain.ReviewItem{}
	}

	return &UserProfileOutput{
		Body: UserProfileResponse{
			User:              profile.User,
			FollowingCount:    profile.FollowingCount,
			FollowerCount:     profile.FollowerCount,
			ViewerFollows:     profile.ViewerFollows,
			CanViewFull:       profile.CanViewFull,
			Shelf:             shelf,
			HiddenShelfCount:  profile.HiddenShelfCount,
			Reviews:           reviews,
			HiddenReviewCount: profile.HiddenReviewCount,
		},
	}, nil
}

func (s *Server) handleListFollowing(ctx context.Context, input *ListUsersInput) (*UserListOutput, error) {
	users, err := s.services.Social.ListFollowing(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return userList(users), nil
}

func (s *Server) handleListFollowers(ctx context.Context, input *ListUsersInput) (*UserListOutput, error) {
	users, err := s.services.Social.ListFollowers(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return userList(users), nil
}

func userList(users []domain.User) *UserListOutput {
	if users == nil {
		users = []domain.User{}
	}
	return &UserListOutput{
		Body: UserListResponse{
			Users: users,
			Count: len(users),
		},
	}
}
