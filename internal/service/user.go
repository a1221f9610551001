package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hondana-app/hondana-server/internal/domain"
	domainerrors "github.com/hondana-app/hondana-server/internal/errors"
	"github.com/hondana-app/hondana-server/internal/store"
	"github.com/hondana-app/hondana-server/internal/validation"
)

// UserService manages user profiles. Account creation and sign-in live in
// the external identity provider; this service only keeps the profile row
// the rest of the system joins against.
type UserService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(st store.Store, validator *validation.Validator, logger *slog.Logger) *UserService {
	return &UserService{
		store:     st,
		validator: validator,
		logger:    logger,
	}
}

// ProfileInput is the validated shape of profile writes.
type ProfileInput struct {
	Username  string  `json:"username" validate:"required,max=50"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url,max=2048"`
	Bio       *string `json:"bio" validate:"omitempty,max=500"`
}

// CreateProfile registers the profile row for an identity-provider account.
// The id comes from the identity provider, not from us.
func (s *UserService) CreateProfile(ctx context.Context, userID string, input ProfileInput) (*domain.User, error) {
	if userID == "" {
		return nil, domainerrors.Validation("user id is required")
	}
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:        userID,
		CreatedAt: now,
		UpdatedAt: now,
		Username:  input.Username,
		AvatarURL: input.AvatarURL,
		Bio:       input.Bio,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("username is already taken")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("profile created", "user_id", userID, "username", input.Username)
	return user, nil
}

// GetUser returns a user's profile row.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateProfile overwrites the user's own profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*domain.User, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Username = input.Username
	user.AvatarURL = input.AvatarURL
	user.Bio = input.Bio
	user.UpdatedAt = time.Now()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("username is already taken")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}
