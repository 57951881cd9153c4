package model

import (
	"time"
)

// Property represents a managed property belonging to a single tenant
type Property struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Address   string    `json:"address" gorm:"type:varchar(255);not null"`
	Type      string    `json:"type" gorm:"type:varchar(100);not null"` // e.g. Single Family, Condo, Apartment
	Bedrooms  int       `json:"bedrooms"`
	Bathrooms int       `json:"bathrooms"`
	TenantID  uint      `json:"tenant_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
