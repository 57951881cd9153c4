package store

import (
	"testing"

	"property-service/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Tenant{},
		&model.Permission{},
		&model.User{},
		&model.Property{},
		&model.Vendor{},
		&model.WorkOrder{},
	))

	return db
}

// twoTenants creates two tenants and returns their ids.
func twoTenants(t *testing.T, db *gorm.DB) (uint, uint) {
	t.Helper()

	a := model.Tenant{Name: "Tenant A"}
	b := model.Tenant{Name: "Tenant B"}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)
	return a.ID, b.ID
}
