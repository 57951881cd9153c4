package auth

import (
	"errors"
	"strings"

	"property-service/internal/model"
	"property-service/internal/store"
	"property-service/pkg/apperr"

	"gorm.io/gorm"
)

// The very first registration in the system creates a tenant named after the
// registrant's email domain. Every later registration lands in the default
// tenant below. See DESIGN.md: this mirrors the placeholder single-tenant
// onboarding of the original system on purpose.
const defaultTenantID = 1

// Register creates a new user, assigning it to a tenant and granting its
// initial permission set. The whole operation runs in one transaction; the
// unique index on username resolves concurrent registrations of the same
// address in favor of exactly one of them.
func Register(db *gorm.DB, username, password string) (*model.User, error) {
	hashed, err := HashPassword(password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	var created *model.User
	err = db.Transaction(func(tx *gorm.DB) error {
		var existing model.User
		result := tx.Where("username = ?", username).First(&existing)
		if result.Error == nil {
			return apperr.Conflict("username already registered")
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return apperr.Internal("failed to check existing user", result.Error)
		}

		tenant, tenantCreated, err := assignTenant(tx, username)
		if err != nil {
			return err
		}

		var userCount int64
		if result := tx.Model(&model.User{}).Count(&userCount); result.Error != nil {
			return apperr.Internal("failed to count users", result.Error)
		}

		permissions, err := initialPermissions(tx, userCount == 0 || tenantCreated)
		if err != nil {
			return err
		}

		user := model.User{
			Username:    username,
			Password:    hashed,
			TenantID:    tenant.ID,
			Permissions: permissions,
		}
		if result := tx.Create(&user); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("username already registered")
			}
			return apperr.Internal("failed to create user", result.Error)
		}

		created = &user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// assignTenant picks the tenant for a new registration. The first-ever
// registration creates (or reuses) a tenant named after the email domain;
// everything after that goes to the default tenant.
func assignTenant(tx *gorm.DB, username string) (*model.Tenant, bool, error) {
	var tenantCount int64
	if result := tx.Model(&model.Tenant{}).Count(&tenantCount); result.Error != nil {
		return nil, false, apperr.Internal("failed to count tenants", result.Error)
	}

	if tenantCount == 0 {
		name := tenantNameFromEmail(username)
		var tenant model.Tenant
		result := tx.Where("name = ?", name).First(&tenant)
		if result.Error == nil {
			return &tenant, false, nil
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, false, apperr.Internal("failed to look up tenant", result.Error)
		}

		tenant = model.Tenant{Name: name}
		if result := tx.Create(&tenant); result.Error != nil {
			return nil, false, apperr.Internal("failed to create tenant", result.Error)
		}
		return &tenant, true, nil
	}

	var tenant model.Tenant
	if result := tx.First(&tenant, defaultTenantID); result.Error != nil {
		return nil, false, apperr.Internal("default tenant not found", result.Error)
	}
	return &tenant, false, nil
}

// initialPermissions grants PERMISSION_READ_OWN_DATA unconditionally and the
// whole catalog when the registrant is an implicit administrator (first user
// system-wide, or first user of a freshly created tenant).
func initialPermissions(tx *gorm.DB, grantAll bool) ([]model.Permission, error) {
	catalog := store.NewPermissionCatalog(tx)

	base, err := catalog.Ensure(string(PermReadOwnData))
	if err != nil {
		return nil, err
	}
	if !grantAll {
		return []model.Permission{*base}, nil
	}

	all, err := catalog.FindAll()
	if err != nil {
		return nil, err
	}
	return all, nil
}

// tenantNameFromEmail derives a tenant name from the registrant's email
// domain: "alice@acme.example" becomes "Acme Tenant".
func tenantNameFromEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 0 || at == len(email)-1 {
		return "DefaultTenant"
	}
	domain := email[at+1:]
	namePart := strings.Split(domain, ".")[0]
	if namePart == "" {
		return "DefaultTenant"
	}
	return strings.ToUpper(namePart[:1]) + namePart[1:] + " Tenant"
}
