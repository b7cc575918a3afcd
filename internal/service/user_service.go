package service

import (
	"context"
	"strings"

	"murmur/internal/authz"
	"murmur/internal/models"
	"murmur/internal/repository"
)

// UserService owns profile reads and updates plus role administration.
type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	Actor       authz.Actor
	UserID      uint
	DisplayName string
	Bio         string
}

type ChangeRoleInput struct {
	Actor  authz.Actor
	UserID uint
	Role   models.Role
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) SearchUsers(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.userRepo.Search(ctx, query, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile edits a user's display name and bio. Only the profile owner
// or an admin may do so; existence is checked before permission so probing a
// missing profile reads as not found.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if !authz.CanUpdateProfile(in.Actor, in.UserID) {
		return nil, models.NewForbiddenError(authz.ReasonProfileOwnerOnly)
	}

	if in.DisplayName == "" && in.Bio == "" {
		return nil, models.NewValidationError("No fields to update")
	}

	const maxBioLen = 500
	const maxDisplayNameLen = 60

	if in.DisplayName != "" {
		if len(in.DisplayName) > maxDisplayNameLen {
			return nil, models.NewValidationError("Display name too long (max 60 characters)")
		}
		user.DisplayName = in.DisplayName
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ChangeRole sets a user's platform role. Only admins may change roles, and
// the admin check comes before the self-downgrade check: a non-admin trying
// to demote themselves is told "not an admin", not "self-downgrade".
func (s *UserService) ChangeRole(ctx context.Context, in ChangeRoleInput) (*models.User, error) {
	if !in.Role.Valid() {
		return nil, models.NewValidationError("Invalid role")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if d := authz.CanChangeRole(in.Actor, in.UserID, in.Role); !d.Allowed {
		return nil, models.NewForbiddenError(d.Reason)
	}

	if user.Role == in.Role {
		return user, nil
	}

	if err := s.userRepo.UpdateRole(ctx, in.UserID, in.Role); err != nil {
		return nil, err
	}

	user.Role = in.Role
	return user, nil
}
