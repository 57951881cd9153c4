package auth

import (
	"errors"

	"property-service/internal/model"
	"property-service/internal/store"
	"property-service/pkg/apperr"

	"gorm.io/gorm"
)

// ListTenantUsers returns every user in the acting principal's tenant.
func ListTenantUsers(db *gorm.DB, actor *Principal) ([]model.User, error) {
	var users []model.User
	result := db.Preload("Permissions").Where("tenant_id = ?", actor.TenantID).Order("id").Find(&users)
	if result.Error != nil {
		return nil, apperr.Internal("failed to list users", result.Error)
	}
	return users, nil
}

// UpdateUserPermissions replaces the target user's permission set. The
// target must live in the actor's tenant; a user under another tenant is
// reported as not found. When the actor targets itself, the new set must
// still contain PERMISSION_MANAGE_USERS: an administrator can never strip
// its own management permission through this pathway.
func UpdateUserPermissions(db *gorm.DB, actor *Principal, targetID uint, permissionNames []string) (*model.User, error) {
	var target model.User
	result := db.Preload("Permissions").
		Where("id = ? AND tenant_id = ?", targetID, actor.TenantID).
		First(&target)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to look up user", result.Error)
	}

	catalog := store.NewPermissionCatalog(db)
	newPermissions, err := catalog.FindAllByNameIn(permissionNames)
	if err != nil {
		return nil, err
	}
	if len(newPermissions) != len(uniqueNames(permissionNames)) {
		return nil, apperr.Validation("one or more permissions not found")
	}

	if actor.UserID == target.ID && !containsPermission(newPermissions, PermManageUsers) {
		return nil, apperr.Forbidden("cannot remove your own user management permission")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&target).Association("Permissions").Replace(newPermissions); err != nil {
			return apperr.Internal("failed to update permissions", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	target.Permissions = newPermissions
	return &target, nil
}

func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}
	return unique
}

func containsPermission(perms []model.Permission, name PermissionName) bool {
	for _, p := range perms {
		if p.Name == string(name) {
			return true
		}
	}
	return false
}
