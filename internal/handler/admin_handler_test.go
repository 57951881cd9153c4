package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsersRequiresManagePermission(t *testing.T) {
	e, _ := newTestServer(t)
	adminToken, _ := registerAndLogin(t, e, "alice@acme.example", "s3cret-password")
	memberToken, _ := registerAndLogin(t, e, "bob@acme.example", "s3cret-password")

	rec := doJSON(e, http.MethodGet, "/api/admin/users", memberToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodGet, "/api/admin/users", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "alice@acme.example")
	assert.Contains(t, rec.Body.String(), "bob@acme.example")
}

func TestUpdatePermissionsGrantsDelete(t *testing.T) {
	e, _ := newTestServer(t)
	adminToken, _ := registerAndLogin(t, e, "alice@acme.example", "s3cret-password")
	memberToken, memberID := registerAndLogin(t, e, "bob@acme.example", "s3cret-password")

	vendorID := createVendor(t, e, adminToken, "Ace Plumbing")

	rec := doJSON(e, http.MethodDelete, fmt.Sprintf("/api/vendors/%d", vendorID), memberToken, "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/permissions", memberID), adminToken,
		`{"permissions":["PERMISSION_READ_OWN_DATA","PERMISSION_DELETE_VENDOR"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The grant takes effect on the member's very next request.
	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/vendors/%d", vendorID), memberToken, "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUpdatePermissionsSelfLockoutForbidden(t *testing.T) {
	e, _ := newTestServer(t)
	adminToken, adminID := registerAndLogin(t, e, "alice@acme.example", "s3cret-password")

	rec := doJSON(e, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/permissions", adminID), adminToken,
		`{"permissions":["PERMISSION_READ_OWN_DATA"]}`)
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	// The admin keeps its management access.
	rec = doJSON(e, http.MethodGet, "/api/admin/users", adminToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdatePermissionsSelfKeepingManageUsers(t *testing.T) {
	e, _ := newTestServer(t)
	adminToken, adminID := registerAndLogin(t, e, "alice@acme.example", "s3cret-password")

	rec := doJSON(e, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/permissions", adminID), adminToken,
		`{"permissions":["PERMISSION_READ_OWN_DATA","PERMISSION_MANAGE_USERS"]}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUpdatePermissionsUnknownName(t *testing.T) {
	e, _ := newTestServer(t)
	adminToken, _ := registerAndLogin(t, e, "alice@acme.example", "s3cret-password")
	_, memberID := registerAndLogin(t, e, "bob@acme.example", "s3cret-password")

	rec := doJSON(e, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/permissions", memberID), adminToken,
		`{"permissions":["PERMISSION_DOES_NOT_EXIST"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestUpdatePermissionsCrossTenantTargetHidden(t *testing.T) {
	e, db := newTestServer(t)
	adminToken, _ := registerAndLogin(t, e, "alice@acme.example", "s3cret-password")
	seedForeignUser(t, db)

	var foreignID uint
	require.NoError(t, db.Raw("SELECT id FROM users WHERE username = ?", "eve@beta.example").Scan(&foreignID).Error)

	rec := doJSON(e, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/permissions", foreignID), adminToken,
		`{"permissions":["PERMISSION_READ_OWN_DATA"]}`)
	// Admins cannot learn that a user exists in another tenant.
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodGet, "/api/admin/users", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "eve@beta.example")
}
