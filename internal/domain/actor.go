package domain

import "github.com/google/uuid"

// Role is the authorization role carried by an authenticated actor.
type Role string

const (
	RoleGuest Role = "guest"
	RoleAdmin Role = "admin"
)

// Actor identifies who is performing an operation. It is passed explicitly
// into every lifecycle operation instead of living in ambient request state.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanActOn reports whether the actor owns the resource or is privileged.
func (a Actor) CanActOn(ownerID uuid.UUID) bool {
	return a.IsAdmin() || a.UserID == ownerID
}
