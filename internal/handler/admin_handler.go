package handler

import (
	"net/http"
	"strconv"
	"time"

	"property-service/internal/auth"
	"property-service/pkg/database"
	"property-service/pkg/logger"
	"property-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UpdatePermissionsRequest is the payload for the permission-edit endpoint
type UpdatePermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required"`
}

// ListUsers returns all users in the acting admin's tenant
func ListUsers(c echo.Context) error {
	principal, err := auth.CurrentPrincipal(c)
	if err != nil {
		return httpError(c, err)
	}
	if err := principal.Require(auth.PermManageUsers); err != nil {
		prometheus.RecordPermissionDenied(string(auth.PermManageUsers))
		return httpError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	users, err := auth.ListTenantUsers(database.GetDB(), principal)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// UpdateUserPermissions replaces a user's permission set. The self-lockout
// guard inside auth.UpdateUserPermissions keeps an admin from revoking its
// own management permission.
func UpdateUserPermissions(c echo.Context) error {
	log := logger.FromContext(c)

	principal, err := auth.CurrentPrincipal(c)
	if err != nil {
		return httpError(c, err)
	}
	if err := principal.Require(auth.PermManageUsers); err != nil {
		prometheus.RecordPermissionDenied(string(auth.PermManageUsers))
		return httpError(c, err)
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	var req UpdatePermissionsRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse permission update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return httpError(c, err)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	updated, err := auth.UpdateUserPermissions(database.GetDB(), principal, uint(userID), req.Permissions)
	if err != nil {
		log.Warn("Permission update rejected",
			zap.Uint64("target_user_id", userID),
			zap.Error(err))
		return httpError(c, err)
	}

	log.Info("User permissions updated",
		zap.Uint("target_user_id", updated.ID),
		zap.Strings("permissions", updated.PermissionNames()))

	return c.JSON(http.StatusOK, echo.Map{
		"user": echo.Map{
			"id":          updated.ID,
			"username":    updated.Username,
			"tenant_id":   updated.TenantID,
			"permissions": updated.PermissionNames(),
		},
	})
}
