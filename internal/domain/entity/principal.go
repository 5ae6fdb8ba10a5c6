package entity

import "github.com/google/uuid"

// Principal identifies the authenticated caller of a use case.
// It is resolved from the access token by the HTTP layer and passed
// explicitly to every operation that needs to know who is acting.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin reports whether the caller holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Owns reports whether the caller is the owner of the given resource.
func (p Principal) Owns(ownerID uuid.UUID) bool {
	return p.UserID == ownerID
}

// CanAccess reports whether the caller owns the resource or is an admin.
func (p Principal) CanAccess(ownerID uuid.UUID) bool {
	return p.IsAdmin() || p.Owns(ownerID)
}
