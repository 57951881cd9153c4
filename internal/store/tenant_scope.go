package store

import (
	"errors"

	"property-service/pkg/apperr"

	"gorm.io/gorm"
)

// TenantScoped wraps data access for a single entity type so that every
// read and write is filtered by (id, tenant_id) rather than id alone. A row
// that exists under a different tenant is indistinguishable from a row that
// does not exist.
type TenantScoped[T any] struct {
	db *gorm.DB
}

// NewTenantScoped returns a tenant-scoped store for the entity type T.
func NewTenantScoped[T any](db *gorm.DB) *TenantScoped[T] {
	return &TenantScoped[T]{db: db}
}

// ListByTenant returns all rows belonging to the tenant.
func (s *TenantScoped[T]) ListByTenant(tenantID uint) ([]T, error) {
	var entities []T
	result := s.db.Where("tenant_id = ?", tenantID).Order("id").Find(&entities)
	if result.Error != nil {
		return nil, apperr.Internal("failed to list records", result.Error)
	}
	return entities, nil
}

// FindByIDAndTenant looks up a row by id within the tenant. A cross-tenant
// id hit returns the same not-found error as a missing row.
func (s *TenantScoped[T]) FindByIDAndTenant(id, tenantID uint) (*T, error) {
	var entity T
	result := s.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&entity)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("record not found")
		}
		return nil, apperr.Internal("failed to look up record", result.Error)
	}
	return &entity, nil
}

// ExistsByIDAndTenant reports whether a row with the id exists in the tenant.
func (s *TenantScoped[T]) ExistsByIDAndTenant(id, tenantID uint) (bool, error) {
	var count int64
	var entity T
	result := s.db.Model(&entity).Where("id = ? AND tenant_id = ?", id, tenantID).Count(&count)
	if result.Error != nil {
		return false, apperr.Internal("failed to check record existence", result.Error)
	}
	return count > 0, nil
}

// Save inserts or updates a row. The caller is responsible for having set
// the tenant id from the ambient identity before saving.
func (s *TenantScoped[T]) Save(entity *T) error {
	if result := s.db.Save(entity); result.Error != nil {
		return apperr.Internal("failed to save record", result.Error)
	}
	return nil
}

// DeleteByID removes a row by primary key. Callers must have verified tenant
// ownership via ExistsByIDAndTenant or FindByIDAndTenant first.
func (s *TenantScoped[T]) DeleteByID(id uint) error {
	var entity T
	if result := s.db.Delete(&entity, id); result.Error != nil {
		return apperr.Internal("failed to delete record", result.Error)
	}
	return nil
}
