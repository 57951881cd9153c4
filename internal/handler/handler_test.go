package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"property-service/internal/auth"
	"property-service/internal/middleware"
	"property-service/internal/model"
	"property-service/internal/store"
	"property-service/pkg/config"
	"property-service/pkg/database"
	"property-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestServer boots an in-memory database and an echo instance wired the
// same way as main: public auth routes plus the authenticated /api group.
func newTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
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

	catalog := store.NewPermissionCatalog(db)
	for _, name := range auth.Catalog() {
		_, err := catalog.Ensure(string(name))
		require.NoError(t, err)
	}

	database.DB = db
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	e := echo.New()
	e.Validator = NewValidator()

	authGroup := e.Group("/auth")
	authGroup.POST("/register", Register)
	authGroup.POST("/login", Login)

	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	properties := api.Group("/properties")
	properties.GET("", ListProperties)
	properties.POST("", CreateProperty)
	properties.GET("/:id", GetProperty)
	properties.PUT("/:id", UpdateProperty)
	properties.DELETE("/:id", DeleteProperty)

	vendors := api.Group("/vendors")
	vendors.GET("", ListVendors)
	vendors.POST("", CreateVendor)
	vendors.GET("/:id", GetVendor)
	vendors.PUT("/:id", UpdateVendor)
	vendors.DELETE("/:id", DeleteVendor)

	workOrders := api.Group("/workorders")
	workOrders.GET("", ListWorkOrders)
	workOrders.POST("", CreateWorkOrder)
	workOrders.GET("/:id", GetWorkOrder)
	workOrders.PUT("/:id", UpdateWorkOrder)
	workOrders.PATCH("/:id/status", UpdateWorkOrderStatus)
	workOrders.DELETE("/:id", DeleteWorkOrder)

	admin := api.Group("/admin")
	admin.GET("/users", ListUsers)
	admin.PUT("/users/:id/permissions", UpdateUserPermissions)

	return e, db
}

func doJSON(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// registerAndLogin creates a user over HTTP and returns a bearer token plus
// the user's id.
func registerAndLogin(t *testing.T, e *echo.Echo, username, password string) (string, uint) {
	t.Helper()

	rec := doJSON(e, http.MethodPost, "/auth/register", "",
		`{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var registered struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))

	rec = doJSON(e, http.MethodPost, "/auth/login", "",
		`{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var logged struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logged))
	require.NotEmpty(t, logged.Token)

	return logged.Token, registered.User.ID
}
