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

// VendorRequest defines the structure for vendor creation/update requests
type VendorRequest struct {
	Name        string `json:"name" validate:"required"`
	Specialty   string `json:"specialty"` // e.g. Plumbing, Electrical, HVAC
	ContactInfo string `json:"contact_info"`
}

func vendorStore() *store.TenantScoped[model.Vendor] {
	return store.NewTenantScoped[model.Vendor](database.GetDB())
}

// ListVendors returns all vendors for the acting tenant
func ListVendors(c echo.Context) error {
	prometheus.RecordEntityOperation("vendor", "list")

	tenantID, err := auth.CurrentTenantID(c)
	if err != nil {
		return httpError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	vendors, err := vendorStore().ListByTenant(tenantID)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"vendors": vendors})
}

// GetVendor retrieves a vendor by ID within the acting tenant
func GetVendor(c echo.Context) error {
	prometheus.RecordEntityOperation("vendor", "get")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vendor ID"})
	}

	tenantID, err := auth.CurrentTenantID(c)
	if err != nil {
		return httpError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	vendor, err := vendorStore().FindByIDAndTenant(uint(id), tenantID)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, vendor)
}

// CreateVendor creates a new vendor for the acting tenant
func CreateVendor(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("vendor", "create")

	var req VendorRequest
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

	vendor := model.Vendor{
		Name:        req.Name,
		Specialty:   req.Specialty,
		ContactInfo: req.ContactInfo,
		TenantID:    tenantID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := vendorStore().Save(&vendor); err != nil {
		return httpError(c, err)
	}

	log.Info("Vendor created",
		zap.Uint("id", vendor.ID),
		zap.String("name", vendor.Name),
		zap.Uint("tenant_id", vendor.TenantID))
	return c.JSON(http.StatusCreated, vendor)
}

// UpdateVendor updates an existing vendor within the acting tenant
func UpdateVendor(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("vendor", "update")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vendor ID"})
	}

	var req VendorRequest
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

	vendors := vendorStore()
	vendor, err := vendors.FindByIDAndTenant(uint(id), tenantID)
	if err != nil {
		return httpError(c, err)
	}

	vendor.Name = req.Name
	vendor.Specialty = req.Specialty
	vendor.ContactInfo = req.ContactInfo

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := vendors.Save(vendor); err != nil {
		return httpError(c, err)
	}

	log.Info("Vendor updated", zap.Uint("id", vendor.ID), zap.Uint("tenant_id", vendor.TenantID))
	return c.JSON(http.StatusOK, vendor)
}

// DeleteVendor removes a vendor. Requires PERMISSION_DELETE_VENDOR; the
// permission check comes first, so lacking it yields a 403 even when the
// vendor exists in the caller's own tenant.
func DeleteVendor(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("vendor", "delete")

	principal, err := auth.CurrentPrincipal(c)
	if err != nil {
		return httpError(c, err)
	}
	if err := principal.Require(auth.PermDeleteVendor); err != nil {
		prometheus.RecordPermissionDenied(string(auth.PermDeleteVendor))
		return httpError(c, err)
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vendor ID"})
	}

	vendors := vendorStore()
	exists, err := vendors.ExistsByIDAndTenant(uint(id), principal.TenantID)
	if err != nil {
		return httpError(c, err)
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "vendor not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := vendors.DeleteByID(uint(id)); err != nil {
		return httpError(c, err)
	}

	log.Info("Vendor deleted", zap.Uint64("id", id), zap.Uint("tenant_id", principal.TenantID))
	return c.JSON(http.StatusOK, echo.Map{"message": "vendor deleted successfully"})
}
