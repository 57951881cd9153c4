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

// WorkOrderRequest defines the structure for work order creation/update
// requests. The referenced property (and vendor, when given) must belong to
// the acting tenant.
type WorkOrderRequest struct {
	Description string `json:"description" validate:"required"`
	PropertyID  uint   `json:"property_id" validate:"required"`
	VendorID    *uint  `json:"vendor_id,omitempty"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
}

// WorkOrderStatusRequest is the payload for the status transition endpoint
type WorkOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
}

func workOrderStore() *store.TenantScoped[model.WorkOrder] {
	return store.NewTenantScoped[model.WorkOrder](database.GetDB())
}

// resolveReferences verifies that the property and the optional vendor
// belong to the tenant. Cross-tenant ids surface as not found.
func resolveReferences(tenantID, propertyID uint, vendorID *uint) error {
	if _, err := store.NewTenantScoped[model.Property](database.GetDB()).FindByIDAndTenant(propertyID, tenantID); err != nil {
		return err
	}
	if vendorID != nil {
		if _, err := store.NewTenantScoped[model.Vendor](database.GetDB()).FindByIDAndTenant(*vendorID, tenantID); err != nil {
			return err
		}
	}
	return nil
}

// ListWorkOrders returns all work orders for the acting tenant
func ListWorkOrders(c echo.Context) error {
	prometheus.RecordEntityOperation("work_order", "list")

	tenantID, err := auth.CurrentTenantID(c)
	if err != nil {
		return httpError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	workOrders, err := workOrderStore().ListByTenant(tenantID)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"work_orders": workOrders})
}

// GetWorkOrder retrieves a work order by ID within the acting tenant
func GetWorkOrder(c echo.Context) error {
	prometheus.RecordEntityOperation("work_order", "get")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid work order ID"})
	}

	tenantID, err := auth.CurrentTenantID(c)
	if err != nil {
		return httpError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	workOrder, err := workOrderStore().FindByIDAndTenant(uint(id), tenantID)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, workOrder)
}

// CreateWorkOrder creates a new work order for the acting tenant
func CreateWorkOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("work_order", "create")

	var req WorkOrderRequest
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

	if err := resolveReferences(tenantID, req.PropertyID, req.VendorID); err != nil {
		return httpError(c, err)
	}

	workOrder := model.WorkOrder{
		Description: req.Description,
		Status:      model.WorkOrderStatusPending,
		PropertyID:  req.PropertyID,
		VendorID:    req.VendorID,
		TenantID:    tenantID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := workOrderStore().Save(&workOrder); err != nil {
		return httpError(c, err)
	}

	log.Info("Work order created",
		zap.Uint("id", workOrder.ID),
		zap.Uint("property_id", workOrder.PropertyID),
		zap.Uint("tenant_id", workOrder.TenantID))
	return c.JSON(http.StatusCreated, workOrder)
}

// UpdateWorkOrder updates an existing work order within the acting tenant
func UpdateWorkOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("work_order", "update")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid work order ID"})
	}

	var req WorkOrderRequest
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

	workOrders := workOrderStore()
	workOrder, err := workOrders.FindByIDAndTenant(uint(id), tenantID)
	if err != nil {
		return httpError(c, err)
	}

	if err := resolveReferences(tenantID, req.PropertyID, req.VendorID); err != nil {
		return httpError(c, err)
	}

	workOrder.Description = req.Description
	workOrder.PropertyID = req.PropertyID
	workOrder.VendorID = req.VendorID
	if req.Status != "" {
		workOrder.Status = req.Status
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := workOrders.Save(workOrder); err != nil {
		return httpError(c, err)
	}

	log.Info("Work order updated", zap.Uint("id", workOrder.ID), zap.Uint("tenant_id", workOrder.TenantID))
	return c.JSON(http.StatusOK, workOrder)
}

// UpdateWorkOrderStatus transitions a work order's status only
func UpdateWorkOrderStatus(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("work_order", "update_status")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid work order ID"})
	}

	var req WorkOrderStatusRequest
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

	workOrders := workOrderStore()
	workOrder, err := workOrders.FindByIDAndTenant(uint(id), tenantID)
	if err != nil {
		return httpError(c, err)
	}

	workOrder.Status = req.Status

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := workOrders.Save(workOrder); err != nil {
		return httpError(c, err)
	}

	log.Info("Work order status updated",
		zap.Uint("id", workOrder.ID),
		zap.String("status", workOrder.Status))
	return c.JSON(http.StatusOK, workOrder)
}

// DeleteWorkOrder removes a work order. Requires
// PERMISSION_DELETE_WORK_ORDER, checked before anything else.
func DeleteWorkOrder(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("work_order", "delete")

	principal, err := auth.CurrentPrincipal(c)
	if err != nil {
		return httpError(c, err)
	}
	if err := principal.Require(auth.PermDeleteWorkOrder); err != nil {
		prometheus.RecordPermissionDenied(string(auth.PermDeleteWorkOrder))
		return httpError(c, err)
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid work order ID"})
	}

	workOrders := workOrderStore()
	exists, err := workOrders.ExistsByIDAndTenant(uint(id), principal.TenantID)
	if err != nil {
		return httpError(c, err)
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "work order not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := workOrders.DeleteByID(uint(id)); err != nil {
		return httpError(c, err)
	}

	log.Info("Work order deleted", zap.Uint64("id", id), zap.Uint("tenant_id", principal.TenantID))
	return c.JSON(http.StatusOK, echo.Map{"message": "work order deleted successfully"})
}
