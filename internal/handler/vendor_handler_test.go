package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"property-service/internal/auth"
	"property-service/internal/model"
	"property-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedForeignUser plants a user in a brand-new tenant directly in the
// database and returns a valid token for it. Registration over HTTP always
// lands in the default tenant, so cross-tenant scenarios are seeded here.
func seedForeignUser(t *testing.T, db *gorm.DB) string {
	t.Helper()

	tenant := model.Tenant{Name: "Beta Tenant"}
	require.NoError(t, db.Create(&tenant).Error)

	hash, err := auth.HashPassword("s3cret-password")
	require.NoError(t, err)

	var readOwn model.Permission
	require.NoError(t, db.Where("name = ?", string(auth.PermReadOwnData)).First(&readOwn).Error)

	user := model.User{
		Username:    "eve@beta.example",
		Password:    hash,
		TenantID:    tenant.ID,
		Permissions: []model.Permission{readOwn},
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := jwtutil.GenerateToken(user.Username, user.ID)
	require.NoError(t, err)
	return token
}

func createVendor(t *testing.T, e *echo.Echo, token, name string) uint {
	t.Helper()

	rec := doJSON(e, http.MethodPost, "/api/vendors", token,
		`{"name":"`+name+`","specialty":"Plumbing","contact_info":"555-0100"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var vendor model.Vendor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vendor))
	return vendor.ID
}

func TestVendorCRUD(t *testing.T) {
	e, _ := newTestServer(t)
	token, _ := registerAndLogin(t, e, "alice@acme.example", "s3cret-password")

	id := createVendor(t, e, token, "Ace Plumbing")

	rec := doJSON(e, http.MethodGet, fmt.Sprintf("/api/vendors/%d", id), token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ace Plumbing")

	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/vendors/%d", id), token,
		`{"name":"Ace Plumbing & Heating","specialty":"HVAC"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "HVAC")

	rec = doJSON(e, http.MethodGet, "/api/vendors", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ace Plumbing & Heating")
}

func TestVendorCreateValidation(t *testing.T) {
	e, _ := newTestServer(t)
	token, _ := registerAndLogin(t, e, "alice@acme.example", "s3cret-password")

	rec := doJSON(e, http.MethodPost, "/api/vendors", token, `{"specialty":"Plumbing"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestDeleteVendorWithoutPermissionForbidden(t *testing.T) {
	e, _ := newTestServer(t)
	adminToken, _ := registerAndLogin(t, e, "alice@acme.example", "s3cret-password")
	memberToken, _ := registerAndLogin(t, e, "bob@acme.example", "s3cret-password")

	id := createVendor(t, e, adminToken, "Ace Plumbing")

	// The member is in the same tenant and can see the vendor, but lacks
	// PERMISSION_DELETE_VENDOR: the answer is 403, not 404.
	rec := doJSON(e, http.MethodGet, fmt.Sprintf("/api/vendors/%d", id), memberToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/vendors/%d", id), memberToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	// Still there.
	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/vendors/%d", id), adminToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteVendorWithPermission(t *testing.T) {
	e, _ := newTestServer(t)
	token, _ := registerAndLogin(t, e, "alice@acme.example", "s3cret-password")

	id := createVendor(t, e, token, "Ace Plumbing")

	rec := doJSON(e, http.MethodDelete, fmt.Sprintf("/api/vendors/%d", id), token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/vendors/%d", id), token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVendorCrossTenantIsolation(t *testing.T) {
	e, db := newTestServer(t)
	token, _ := registerAndLogin(t, e, "alice@acme.example", "s3cret-password")
	foreignToken := seedForeignUser(t, db)

	id := createVendor(t, e, token, "Ace Plumbing")

	// A foreign tenant's reads and writes behave as if the row does not exist.
	rec := doJSON(e, http.MethodGet, fmt.Sprintf("/api/vendors/%d", id), foreignToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/vendors/%d", id), foreignToken,
		`{"name":"Hijacked"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodGet, "/api/vendors", foreignToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Ace Plumbing")
}
