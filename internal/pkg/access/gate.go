// Package access holds the role predicate evaluated before every protected
// operation and the ownership rule shared by image and comment mutations.
package access

import (
	"photoshare/internal/domain"
)

// RoleGate permits a principal whose role is in the declared set. An empty
// set permits nobody, and admin gets no implicit override.
type RoleGate struct {
	allowed map[domain.UserRole]struct{}
}

func NewRoleGate(roles ...domain.UserRole) RoleGate {
	allowed := make(map[domain.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return RoleGate{allowed: allowed}
}

// Allows is the pure decision: nil principal or empty set denies.
func (g RoleGate) Allows(principal *domain.User) bool {
	if principal == nil || len(g.allowed) == 0 {
		return false
	}
	_, ok := g.allowed[principal.Role]
	return ok
}

// Check returns domain.ErrForbidden when Allows is false.
func (g RoleGate) Check(principal *domain.User) error {
	if !g.Allows(principal) {
		return domain.ErrForbidden
	}
	return nil
}

var (
	// Everyone except guests.
	Members = NewRoleGate(domain.RoleUser, domain.RoleModerator, domain.RoleAdmin)
	// Moderators and admins.
	Staff = NewRoleGate(domain.RoleModerator, domain.RoleAdmin)
	// Admins only.
	Admins = NewRoleGate(domain.RoleAdmin)
)

// CanModify reports whether principal may edit a resource owned by ownerID.
func CanModify(principal *domain.User, ownerID int64) bool {
	if principal == nil {
		return false
	}
	return principal.ID == ownerID || principal.Role == domain.RoleAdmin
}

// CanDelete extends CanModify with the elevated roles.
func CanDelete(principal *domain.User, ownerID int64) bool {
	if principal == nil {
		return false
	}
	return CanModify(principal, ownerID) || principal.Role.IsElevated()
}
