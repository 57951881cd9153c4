package model

import (
	"time"
)

// Work order statuses
const (
	WorkOrderStatusPending    = "PENDING"
	WorkOrderStatusInProgress = "IN_PROGRESS"
	WorkOrderStatusCompleted  = "COMPLETED"
	WorkOrderStatusCancelled  = "CANCELLED"
)

// WorkOrder represents a maintenance work order tied to a property and,
// optionally, a vendor. Both references must belong to the same tenant as
// the work order itself.
type WorkOrder struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Status      string    `json:"status" gorm:"type:varchar(50);not null;default:'PENDING'"`
	PropertyID  uint      `json:"property_id" gorm:"index;not null"`
	VendorID    *uint     `json:"vendor_id,omitempty" gorm:"index"`
	TenantID    uint      `json:"tenant_id" gorm:"index;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Vendor   *Vendor   `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
}
