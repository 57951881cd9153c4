package handler

import (
	"net/http"
	"time"

	"property-service/internal/auth"
	"property-service/internal/model"
	"property-service/pkg/database"
	"property-service/pkg/jwtutil"
	"property-service/pkg/logger"
	"property-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LoginRequest is the credential payload for /auth/login
type LoginRequest struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the payload for /auth/register
type RegisterRequest struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Login checks the submitted credentials and mints a bearer token. Unknown
// username and wrong password produce the same response.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return httpError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	result := database.GetDB().Preload("Permissions").Where("username = ?", req.Username).First(&user)
	if result.Error != nil {
		log.Warn("Login failed, user not found", zap.String("username", req.Username))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		log.Warn("Login failed, invalid password", zap.String("username", req.Username))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := jwtutil.GenerateToken(user.Username, user.ID)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in",
		zap.String("username", user.Username),
		zap.Uint("tenant_id", user.TenantID))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"id":          user.ID,
			"username":    user.Username,
			"tenant_id":   user.TenantID,
			"permissions": user.PermissionNames(),
		},
	})
}

// refreshTenantGauges recomputes the tenant population gauges after a
// registration changed them.
func refreshTenantGauges(tenantID uint) {
	db := database.GetDB()

	var tenantCount int64
	if err := db.Model(&model.User{}).Distinct("tenant_id").Count(&tenantCount).Error; err == nil {
		prometheus.ActiveTenantsGauge.Set(float64(tenantCount))
	}

	var tenant model.Tenant
	if err := db.First(&tenant, tenantID).Error; err != nil {
		return
	}
	var userCount int64
	if err := db.Model(&model.User{}).Where("tenant_id = ?", tenantID).Count(&userCount).Error; err == nil {
		prometheus.UpdateUsersPerTenant(tenant.ID, tenant.Name, int(userCount))
	}
}

// Register creates a new user and assigns it to a tenant
func Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		prometheus.RecordAuthError("invalid_registration")
		return httpError(c, err)
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	user, err := auth.Register(database.GetDB(), req.Username, req.Password)
	if err != nil {
		log.Warn("Registration failed", zap.String("username", req.Username), zap.Error(err))
		prometheus.RecordAuthError("registration_failed")
		return httpError(c, err)
	}

	log.Info("User registered",
		zap.String("username", user.Username),
		zap.Uint("tenant_id", user.TenantID))
	refreshTenantGauges(user.TenantID)

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user": echo.Map{
			"id":          user.ID,
			"username":    user.Username,
			"tenant_id":   user.TenantID,
			"permissions": user.PermissionNames(),
		},
	})
}
