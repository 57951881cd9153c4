package model

import (
	"time"
)

// Vendor represents a service vendor belonging to a single tenant
type Vendor struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Specialty   string    `json:"specialty" gorm:"type:varchar(100)"` // e.g. Plumbing, Electrical, HVAC
	ContactInfo string    `json:"contact_info" gorm:"type:varchar(255)"`
	TenantID    uint      `json:"tenant_id" gorm:"index;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
