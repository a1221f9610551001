package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hondana-app/hondana-server/internal/domain"
	"github.com/hondana-app/hondana-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createProfile",
		Method:        http.MethodPost,
		Path:          "/api/v1/users",
		Summary:       "Create own profile",
		Description:   "Creates the caller's public profile. The user ID comes from the identity service token.",
		Tags:          []string{"Users"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get own profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me",
		Summary:     "Update own profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProfile)
}

// === DTOs ===

// ProfileRequest is the profile create/update payload.
type ProfileRequest struct {
	Username  string  `json:"username" minLength:"1" maxLength:"50" doc:"Unique public handle"`
	AvatarURL *string `json:"avatar_url,omitempty" doc:"Avatar image URL"`
	Bio       *string `json:"bio,omitempty" maxLength:"500" doc:"Short self-description"`
}

// CreateProfileInput contains the profile creation request.
type CreateProfileInput struct {
	Authorization string `header:"Authorization"`
	Body          ProfileRequest
}

// GetCurrentUserInput carries the caller's token.
type GetCurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

// UpdateProfileInput contains the profile update request.
type UpdateProfileInput struct {
	Authorization string `header:"Authorization"`
	Body          ProfileRequest
}

// UserOutput wraps a single user for Huma.
type UserOutput struct {
	Body domain.User
}

// === Handlers ===

func (s *Server) handleCreateProfile(ctx context.Context, input *CreateProfileInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.CreateProfile(ctx, userID, profileInput(input.Body))
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: *user}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *GetCurrentUserInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: *user}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.UpdateProfile(ctx, userID, profileInput(input.Body))
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: *user}, nil
}

func profileInput(req ProfileRequest) service.ProfileInput {
	return service.ProfileInput{
		Username:  req.Username,
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
	}
}
