// Package authz contains the pure authorization decision functions. Every
// function here is a decision over its inputs only: no I/O, no mutation.
// Callers fetch the acting user and the target's author ID before asking.
package authz

import (
	"murmur/internal/models"
)

// Actor is the authenticated identity a decision is made for.
type Actor struct {
	ID   uint
	Role models.Role
}

// Decision is an allow/deny outcome with an optional human-readable reason.
type Decision struct {
	Allowed bool
	Reason  string
}

// Deny reasons surfaced to callers by CanChangeRole.
const (
	ReasonNotAdmin         = "not an admin"
	ReasonSelfDowngrade    = "self-downgrade forbidden"
	ReasonOwnerOrAdminOnly = "only the author or an admin may modify this resource"
	ReasonProfileOwnerOnly = "only the profile owner or an admin may update a profile"
)

// IsAdmin reports whether the actor holds the admin role.
func IsAdmin(actor Actor) bool {
	return actor.Role == models.RoleAdmin
}

// CanEditResource reports whether the actor may edit a resource written by
// resourceAuthorID. Admins may edit anything; everyone else only their own.
func CanEditResource(actor Actor, resourceAuthorID uint) bool {
	return IsAdmin(actor) || actor.ID == resourceAuthorID
}

// CanDeleteResource shares the edit rule: same-owner-or-admin.
func CanDeleteResource(actor Actor, resourceAuthorID uint) bool {
	return CanEditResource(actor, resourceAuthorID)
}

// CanUpdateProfile reports whether the actor may update targetUserID's profile.
func CanUpdateProfile(actor Actor, targetUserID uint) bool {
	return IsAdmin(actor) || actor.ID == targetUserID
}

// CanChangeRole decides whether the actor may set targetUserID's role to
// newRole. The admin check runs before the self-downgrade check, so a
// non-admin attempting a self-downgrade is denied for lack of admin rights.
func CanChangeRole(actor Actor, targetUserID uint, newRole models.Role) Decision {
	if !IsAdmin(actor) {
		return Decision{Allowed: false, Reason: ReasonNotAdmin}
	}
	if actor.ID == targetUserID && newRole == models.RoleUser {
		return Decision{Allowed: false, Reason: ReasonSelfDowngrade}
	}
	return Decision{Allowed: true}
}

// CanViewProfile is unconditionally true for any authenticated actor.
func CanViewProfile(Actor, uint) bool {
	return true
}

// CanCreatePost is unconditionally true for any authenticated actor.
func CanCreatePost(Actor) bool {
	return true
}

// CanCreateComment is unconditionally true for any authenticated actor.
func CanCreateComment(Actor) bool {
	return true
}

// CanModerate is an alias for IsAdmin.
func CanModerate(actor Actor) bool {
	return IsAdmin(actor)
}
