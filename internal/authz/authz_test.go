package authz

import (
	"testing"

	"murmur/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestIsAdmin(t *testing.T) {
	assert.True(t, IsAdmin(Actor{ID: 1, Role: models.RoleAdmin}))
	assert.False(t, IsAdmin(Actor{ID: 1, Role: models.RoleUser}))
	assert.False(t, IsAdmin(Actor{ID: 1}))
}

func TestCanEditResource(t *testing.T) {
	tests := []struct {
		name     string
		actor    Actor
		authorID uint
		want     bool
	}{
		{"owner can edit own", Actor{ID: 7, Role: models.RoleUser}, 7, true},
		{"non-owner cannot edit", Actor{ID: 7, Role: models.RoleUser}, 8, false},
		{"admin can edit anything", Actor{ID: 1, Role: models.RoleAdmin}, 8, true},
		{"admin can edit own", Actor{ID: 1, Role: models.RoleAdmin}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanEditResource(tt.actor, tt.authorID))
		})
	}
}

// Edit and delete share one rule for every (actor, author) combination.
func TestEditDeleteRuleParity(t *testing.T) {
	actors := []Actor{
		{ID: 1, Role: models.RoleAdmin},
		{ID: 2, Role: models.RoleUser},
		{ID: 3, Role: models.RoleUser},
	}
	authors := []uint{1, 2, 3, 99}
	for _, actor := range actors {
		for _, author := range authors {
			assert.Equal(t,
				CanEditResource(actor, author),
				CanDeleteResource(actor, author),
				"actor %d / author %d", actor.ID, author)
		}
	}
}

func TestCanUpdateProfile(t *testing.T) {
	assert.True(t, CanUpdateProfile(Actor{ID: 4, Role: models.RoleUser}, 4))
	assert.False(t, CanUpdateProfile(Actor{ID: 4, Role: models.RoleUser}, 5))
	assert.True(t, CanUpdateProfile(Actor{ID: 1, Role: models.RoleAdmin}, 5))
}

func TestCanChangeRole(t *testing.T) {
	admin := Actor{ID: 1, Role: models.RoleAdmin}
	user := Actor{ID: 2, Role: models.RoleUser}

	tests := []struct {
		name       string
		actor      Actor
		target     uint
		newRole    models.Role
		wantAllow  bool
		wantReason string
	}{
		{"admin promotes other", admin, 2, models.RoleAdmin, true, ""},
		{"admin demotes other", admin, 2, models.RoleUser, true, ""},
		{"admin self-downgrade denied", admin, 1, models.RoleUser, false, ReasonSelfDowngrade},
		{"admin self-assign admin allowed", admin, 1, models.RoleAdmin, true, ""},
		{"non-admin denied on other", user, 3, models.RoleAdmin, false, ReasonNotAdmin},
		// The admin check runs first: a non-admin self-downgrade is denied
		// for lack of admin rights, not for self-downgrade.
		{"non-admin self-downgrade denied as non-admin", user, 2, models.RoleUser, false, ReasonNotAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanChangeRole(tt.actor, tt.target, tt.newRole)
			assert.Equal(t, tt.wantAllow, d.Allowed)
			assert.Equal(t, tt.wantReason, d.Reason)
		})
	}
}

func TestUnconditionalRules(t *testing.T) {
	anyone := Actor{ID: 42, Role: models.RoleUser}
	assert.True(t, CanViewProfile(anyone, 99))
	assert.True(t, CanCreatePost(anyone))
	assert.True(t, CanCreateComment(anyone))
}

func TestCanModerateAliasesIsAdmin(t *testing.T) {
	for _, actor := range []Actor{
		{ID: 1, Role: models.RoleAdmin},
		{ID: 2, Role: models.RoleUser},
	} {
		assert.Equal(t, IsAdmin(actor), CanModerate(actor))
	}
}
