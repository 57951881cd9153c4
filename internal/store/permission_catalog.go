package store

import (
	"errors"

	"property-service/internal/model"
	"property-service/pkg/apperr"

	"gorm.io/gorm"
)

// PermissionCatalog provides access to the fixed set of permission rows.
type PermissionCatalog struct {
	db *gorm.DB
}

// NewPermissionCatalog returns a catalog backed by the given database.
func NewPermissionCatalog(db *gorm.DB) *PermissionCatalog {
	return &PermissionCatalog{db: db}
}

// FindByName looks up a single permission by its unique name.
func (c *PermissionCatalog) FindByName(name string) (*model.Permission, error) {
	var perm model.Permission
	result := c.db.Where("name = ?", name).First(&perm)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("permission not found")
		}
		return nil, apperr.Internal("failed to look up permission", result.Error)
	}
	return &perm, nil
}

// FindAllByNameIn returns the permissions matching the given names. Names
// with no matching row are simply absent from the result; the caller decides
// whether that is an error.
func (c *PermissionCatalog) FindAllByNameIn(names []string) ([]model.Permission, error) {
	var perms []model.Permission
	result := c.db.Where("name IN ?", names).Find(&perms)
	if result.Error != nil {
		return nil, apperr.Internal("failed to look up permissions", result.Error)
	}
	return perms, nil
}

// FindAll returns the entire permission catalog.
func (c *PermissionCatalog) FindAll() ([]model.Permission, error) {
	var perms []model.Permission
	result := c.db.Order("id").Find(&perms)
	if result.Error != nil {
		return nil, apperr.Internal("failed to list permissions", result.Error)
	}
	return perms, nil
}

// Ensure finds a permission by name, creating it when missing. The unique
// index on name makes this safe under concurrent or repeated execution: a
// lost insert race falls back to reading the winner's row.
func (c *PermissionCatalog) Ensure(name string) (*model.Permission, error) {
	var perm model.Permission
	result := c.db.Where("name = ?", name).First(&perm)
	if result.Error == nil {
		return &perm, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("failed to look up permission", result.Error)
	}

	perm = model.Permission{Name: name}
	if createResult := c.db.Create(&perm); createResult.Error != nil {
		// Another writer may have created the row in between.
		var existing model.Permission
		if retry := c.db.Where("name = ?", name).First(&existing); retry.Error == nil {
			return &existing, nil
		}
		return nil, apperr.Internal("failed to create permission", createResult.Error)
	}
	return &perm, nil
}
