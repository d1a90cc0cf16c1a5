// Package authz is the pure authorization check used by the scan dispatcher
// and the HTTP middleware. Role sets are closed allow-lists: admin does not
// imply staff — an action that accepts both must list both.
package authz

import "epunch/internal/apperr"

// Roles carried by merchant-user tokens. Customer tokens carry no role.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Principal is the verified token payload threaded through each operation.
// MerchantID and Role are empty for customer tokens.
type Principal struct {
	UserID     string
	MerchantID string
	Role       string
}

// Authorize allows or denies an action. A nil principal is always
// Unauthenticated (distinct from Forbidden). An empty required set means any
// authenticated principal.
func Authorize(p *Principal, requiredRoles ...string) error {
	if p == nil {
		return apperr.ErrUnauthenticated
	}
	if len(requiredRoles) == 0 {
		return nil
	}
	for _, r := range requiredRoles {
		if p.Role == r {
			return nil
		}
	}
	return apperr.ErrForbidden
}
