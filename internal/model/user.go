package model

import (
	"time"
)

// User represents an authenticated principal stored in the database.
// Username and TenantID are immutable after creation; the permission set is
// mutated only through the admin permission-edit endpoint.
type User struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Username    string       `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password    string       `json:"-" gorm:"type:varchar(255);not null"`
	TenantID    uint         `json:"tenant_id" gorm:"index;not null"`
	Permissions []Permission `json:"permissions" gorm:"many2many:user_permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// PermissionNames returns the names of the user's granted permissions.
func (u *User) PermissionNames() []string {
	names := make([]string, 0, len(u.Permissions))
	for _, p := range u.Permissions {
		names = append(names, p.Name)
	}
	return names
}
