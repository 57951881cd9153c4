package auth

import (
	"errors"
	"fmt"

	"property-service/internal/model"
	"property-service/pkg/apperr"

	"gorm.io/gorm"
)

// Principal is the resolved identity for a single request. It is rebuilt
// from the token subject on every call, so permission and tenant changes
// take effect on the caller's next request.
type Principal struct {
	UserID      uint
	Username    string
	TenantID    uint
	permissions map[PermissionName]struct{}
}

// NewPrincipal builds a Principal from a loaded user row.
func NewPrincipal(user *model.User) *Principal {
	perms := make(map[PermissionName]struct{}, len(user.Permissions))
	for _, p := range user.Permissions {
		perms[PermissionName(p.Name)] = struct{}{}
	}
	return &Principal{
		UserID:      user.ID,
		Username:    user.Username,
		TenantID:    user.TenantID,
		permissions: perms,
	}
}

// ResolvePrincipal loads the identity record behind a verified token subject.
// A subject that no longer resolves surfaces exactly like an invalid token.
func ResolvePrincipal(db *gorm.DB, username string) (*Principal, error) {
	var user model.User
	result := db.Preload("Permissions").Where("username = ?", username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized(result.Error)
		}
		return nil, apperr.Internal("failed to resolve principal", result.Error)
	}
	return NewPrincipal(&user), nil
}

// Has reports whether the principal holds the named permission.
func (p *Principal) Has(name PermissionName) bool {
	_, ok := p.permissions[name]
	return ok
}

// Require returns a forbidden error when the principal lacks the named
// permission. Forbidden is distinct from unauthenticated: the caller is
// known, it just may not perform the operation.
func (p *Principal) Require(name PermissionName) error {
	if !p.Has(name) {
		return apperr.Forbidden(fmt.Sprintf("missing required permission %s", name))
	}
	return nil
}

// PermissionNames returns the principal's permissions for response payloads.
func (p *Principal) PermissionNames() []string {
	names := make([]string, 0, len(p.permissions))
	for name := range p.permissions {
		names = append(names, string(name))
	}
	return names
}
