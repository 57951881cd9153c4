package auth

import (
	"testing"

	"property-service/internal/model"
	"property-service/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// adminAndMember registers an implicit administrator plus a regular member
// in the same tenant and returns the admin's principal with both users.
func adminAndMember(t *testing.T, db *gorm.DB) (*Principal, *model.User, *model.User) {
	t.Helper()

	admin, err := Register(db, "admin@acme.example", "s3cret-password")
	require.NoError(t, err)
	member, err := Register(db, "member@acme.example", "s3cret-password")
	require.NoError(t, err)

	principal, err := ResolvePrincipal(db, admin.Username)
	require.NoError(t, err)
	return principal, admin, member
}

func TestListTenantUsersScopedToTenant(t *testing.T) {
	db := openTestDB(t)
	principal, _, _ := adminAndMember(t, db)

	// A user in a different tenant must not show up.
	foreignTenant := model.Tenant{Name: "Foreign Tenant"}
	require.NoError(t, db.Create(&foreignTenant).Error)
	require.NoError(t, db.Create(&model.User{
		Username: "stranger@foreign.example",
		Password: "x",
		TenantID: foreignTenant.ID,
	}).Error)

	users, err := ListTenantUsers(db, principal)
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Equal(t, principal.TenantID, u.TenantID)
	}
}

func TestUpdateUserPermissionsOnOtherUser(t *testing.T) {
	db := openTestDB(t)
	principal, _, member := adminAndMember(t, db)

	updated, err := UpdateUserPermissions(db, principal, member.ID, []string{
		string(PermReadOwnData),
		string(PermDeleteVendor),
	})
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{string(PermReadOwnData), string(PermDeleteVendor)},
		updated.PermissionNames())

	var stored model.User
	require.NoError(t, db.Preload("Permissions").First(&stored, member.ID).Error)
	assert.ElementsMatch(t,
		[]string{string(PermReadOwnData), string(PermDeleteVendor)},
		stored.PermissionNames())
}

func TestUpdateUserPermissionsSelfLockoutGuard(t *testing.T) {
	db := openTestDB(t)
	principal, admin, _ := adminAndMember(t, db)

	before := len(admin.Permissions)

	_, err := UpdateUserPermissions(db, principal, admin.ID, []string{
		string(PermReadOwnData),
	})
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeForbidden, appErr.Code)

	// Stored permissions must be unchanged.
	var stored model.User
	require.NoError(t, db.Preload("Permissions").First(&stored, admin.ID).Error)
	assert.Len(t, stored.Permissions, before)
	assert.Contains(t, stored.PermissionNames(), string(PermManageUsers))
}

func TestUpdateUserPermissionsSelfKeepingManageUsers(t *testing.T) {
	db := openTestDB(t)
	principal, admin, _ := adminAndMember(t, db)

	updated, err := UpdateUserPermissions(db, principal, admin.ID, []string{
		string(PermManageUsers),
		string(PermReadOwnData),
	})
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{string(PermManageUsers), string(PermReadOwnData)},
		updated.PermissionNames())
}

func TestUpdateUserPermissionsUnknownName(t *testing.T) {
	db := openTestDB(t)
	principal, _, member := adminAndMember(t, db)

	_, err := UpdateUserPermissions(db, principal, member.ID, []string{
		string(PermReadOwnData),
		"PERMISSION_DOES_NOT_EXIST",
	})
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
}

func TestUpdateUserPermissionsCrossTenantTarget(t *testing.T) {
	db := openTestDB(t)
	principal, _, _ := adminAndMember(t, db)

	foreignTenant := model.Tenant{Name: "Foreign Tenant"}
	require.NoError(t, db.Create(&foreignTenant).Error)
	stranger := model.User{
		Username: "stranger@foreign.example",
		Password: "x",
		TenantID: foreignTenant.ID,
	}
	require.NoError(t, db.Create(&stranger).Error)

	// Indistinguishable from a user that does not exist at all.
	_, err := UpdateUserPermissions(db, principal, stranger.ID, []string{
		string(PermReadOwnData),
	})
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeNotFound, appErr.Code)
}
