package model

import (
	"time"
)

// Tenant is the isolation boundary grouping users and resources. Every
// tenant-scoped row carries a TenantID foreign key to this table.
type Tenant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
