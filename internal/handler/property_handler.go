package handler

import (
	"net/http"
	"strconv"
	"time"

	"property-service/internal/auth"
	"property-service/internal/model"
	"property-service/internal/store"
	"property-service/pkg/database"
	"property-service/pkg/logger"
	"property-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PropertyRequest defines the structure for property creation/update requests
type PropertyRequest struct {
	Address   string `json:"address" validate:"required"`
	Type      string `json:"type" validate:"required"` // e.g. Single Family, Condo, Apartment
	Bedrooms  int    `json:"bedrooms" validate:"gte=0"`
	Bathrooms int    `json:"bathrooms" validate:"gte=0"`
}

func propertyStore() *store.TenantScoped[model.Property] {
	return store.NewTenantScoped[model.Property](database.GetDB())
}

// ListProperties returns all properties for the acting tenant
func ListProperties(c echo.Context) error {
	prometheus.RecordEntityOperation("property", "list")

	tenantID, err := auth.CurrentTenantID(c)
	if err != nil {
		return httpError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	properties, err := propertyStore().ListByTenant(tenantID)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"properties": properties})
}

// GetProperty retrieves a property by ID within the acting tenant
func GetProperty(c echo.Context) error {
	prometheus.RecordEntityOperation("property", "get")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property ID"})
	}

	tenantID, err := auth.CurrentTenantID(c)
	if err != nil {
		return httpError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	property, err := propertyStore().FindByIDAndTenant(uint(id), tenantID)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, property)
}

// CreateProperty creates a new property for the acting tenant
func CreateProperty(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("property", "create")

	var req PropertyRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return httpError(c, err)
	}

	tenantID, err := auth.CurrentTenantID(c)
	if err != nil {
		return httpError(c, err)
	}

	// Tenant id always comes from the ambient identity, never from the body.
	property := model.Property{
		Address:   req.Address,
		Type:      req.Type,
		Bedrooms:  req.Bedrooms,
		Bathrooms: req.Bathrooms,
		TenantID:  tenantID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := propertyStore().Save(&property); err != nil {
		return httpError(c, err)
	}

	log.Info("Property created",
		zap.Uint("id", property.ID),
		zap.String("address", property.Address),
		zap.Uint("tenant_id", property.TenantID))
	return c.JSON(http.StatusCreated, property)
}

// UpdateProperty updates an existing property within the acting tenant
func UpdateProperty(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("property", "update")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property ID"})
	}

	var req PropertyRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return httpError(c, err)
	}

	tenantID, err := auth.CurrentTenantID(c)
	if err != nil {
		return httpError(c, err)
	}

	props := propertyStore()
	property, err := props.FindByIDAndTenant(uint(id), tenantID)
	if err != nil {
		return httpError(c, err)
	}

	property.Address = req.Address
	property.Type = req.Type
	property.Bedrooms = req.Bedrooms
	property.Bathrooms = req.Bathrooms
	// TenantID stays as loaded, ownership cannot move between tenants.

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := props.Save(property); err != nil {
		return httpError(c, err)
	}

	log.Info("Property updated", zap.Uint("id", property.ID), zap.Uint("tenant_id", property.TenantID))
	return c.JSON(http.StatusOK, property)
}

// DeleteProperty removes a property. Requires PERMISSION_DELETE_PROPERTY;
// the permission check runs before the existence check, so a caller without
// it gets a 403 even for a property in its own tenant.
func DeleteProperty(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("property", "delete")

	principal, err := auth.CurrentPrincipal(c)
	if err != nil {
		return httpError(c, err)
	}
	if err := principal.Require(auth.PermDeleteProperty); err != nil {
		prometheus.RecordPermissionDenied(string(auth.PermDeleteProperty))
		return httpError(c, err)
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property ID"})
	}

	props := propertyStore()
	exists, err := props.ExistsByIDAndTenant(uint(id), principal.TenantID)
	if err != nil {
		return httpError(c, err)
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := props.DeleteByID(uint(id)); err != nil {
		return httpError(c, err)
	}

	log.Info("Property deleted", zap.Uint64("id", id), zap.Uint("tenant_id", principal.TenantID))
	return c.JSON(http.StatusOK, echo.Map{"message": "property deleted successfully"})
}
