package service

import (
	"context"
	"strings"
	"testing"

	"murmur/internal/authz"
	"murmur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	updateRoleFn    func(context.Context, uint, models.Role) error
	listFn          func(context.Context, int, int) ([]models.User, error)
	searchFn        func(context.Context, string, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) UpdateRole(ctx context.Context, id uint, role models.Role) error {
	return s.updateRoleFn(ctx, id, role)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Search(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	return s.searchFn(ctx, query, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateRoleFn:    func(_ context.Context, _ uint, _ models.Role) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
		searchFn:        func(_ context.Context, _ string, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("owner can update", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, DisplayName: "Old Name"}, nil
		}
		svc := NewUserService(repo)
		user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			Actor:       author,
			UserID:      author.ID,
			DisplayName: "New Name",
		})
		require.NoError(t, err)
		assert.Equal(t, "New Name", user.DisplayName)
	})

	t.Run("admin can update another profile", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			Actor:  admin,
			UserID: author.ID,
			Bio:    "cleaned up by moderation",
		})
		assert.NoError(t, err)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			Actor:  other,
			UserID: author.ID,
			Bio:    "not yours",
		})
		assertForbiddenError(t, err)
	})

	t.Run("empty update rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			Actor:  author,
			UserID: author.ID,
		})
		assertValidationError(t, err)
	})

	t.Run("display name too long", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			Actor:       author,
			UserID:      author.ID,
			DisplayName: strings.Repeat("x", 61),
		})
		assertValidationError(t, err)
	})

	t.Run("bio too long", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			Actor:  author,
			UserID: author.ID,
			Bio:    strings.Repeat("x", 501),
		})
		assertValidationError(t, err)
	})
}

func TestUserService_ChangeRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("admin promotes a user", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		var savedRole models.Role
		repo.updateRoleFn = func(_ context.Context, _ uint, role models.Role) error {
			savedRole = role
			return nil
		}
		svc := NewUserService(repo)
		user, err := svc.ChangeRole(ctx, ChangeRoleInput{Actor: admin, UserID: other.ID, Role: models.RoleAdmin})
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, savedRole)
		assert.Equal(t, models.RoleAdmin, user.Role)
	})

	t.Run("non-admin is told not an admin, even self-downgrading", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.ChangeRole(ctx, ChangeRoleInput{Actor: author, UserID: author.ID, Role: models.RoleUser})
		assertForbiddenError(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, authz.ReasonNotAdmin, appErr.Message)
	})

	t.Run("admin cannot downgrade themselves", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Role: models.RoleAdmin}, nil
		}
		svc := NewUserService(repo)
		_, err := svc.ChangeRole(ctx, ChangeRoleInput{Actor: admin, UserID: admin.ID, Role: models.RoleUser})
		assertForbiddenError(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, authz.ReasonSelfDowngrade, appErr.Message)
	})

	t.Run("invalid role", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.ChangeRole(ctx, ChangeRoleInput{Actor: admin, UserID: other.ID, Role: "superuser"})
		assertValidationError(t, err)
	})

	t.Run("same role is a no-op", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		called := false
		repo.updateRoleFn = func(_ context.Context, _ uint, _ models.Role) error {
			called = true
			return nil
		}
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Role: models.RoleUser}, nil
		}
		svc := NewUserService(repo)
		_, err := svc.ChangeRole(ctx, ChangeRoleInput{Actor: admin, UserID: other.ID, Role: models.RoleUser})
		require.NoError(t, err)
		assert.False(t, called, "unchanged role should not hit the database")
	})
}

func TestUserService_SearchUsers_EmptyQuery(t *testing.T) {
	t.Parallel()
	svc := NewUserService(noopUserRepo())
	_, err := svc.SearchUsers(context.Background(), "  ", 20, 0)
	assertValidationError(t, err)
}
