package main

import (
	"time"

	"property-service/internal/auth"
	"property-service/internal/handler"
	"property-service/internal/middleware"
	"property-service/internal/model"
	"property-service/internal/store"
	"property-service/pkg/config"
	"property-service/pkg/database"
	"property-service/pkg/jwtutil"
	"property-service/pkg/logger"
	"property-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting property management service...", cfg.LogConfig()...)

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize database and run migrations
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(
		&model.Tenant{},
		&model.Permission{},
		&model.User{},
		&model.Property{},
		&model.Vendor{},
		&model.WorkOrder{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed")

	// Ensure the permission catalog exists (create-if-missing by name)
	catalog := store.NewPermissionCatalog(db)
	for _, name := range auth.Catalog() {
		if _, err := catalog.Ensure(string(name)); err != nil {
			log.Fatal("Failed to seed permission catalog", zap.String("permission", string(name)), zap.Error(err))
		}
	}
	log.Info("Permission catalog ensured", zap.Int("permissions", len(auth.Catalog())))

	// Create Echo instance
	e := echo.New()
	e.Validator = handler.NewValidator()

	// Middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(prometheus.MetricsMiddleware())

	// Request logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			log := logger.FromContext(c)
			log.Info("HTTP Request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			)

			return err
		}
	})

	// Public routes
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes - these hand out access to the API
	authGroup := e.Group("/auth")
	authGroup.POST("/register", handler.Register)
	authGroup.POST("/login", handler.Login)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Property endpoints
	properties := api.Group("/properties")
	properties.GET("", handler.ListProperties)
	properties.POST("", handler.CreateProperty)
	properties.GET("/:id", handler.GetProperty)
	properties.PUT("/:id", handler.UpdateProperty)
	properties.DELETE("/:id", handler.DeleteProperty)

	// Vendor endpoints
	vendors := api.Group("/vendors")
	vendors.GET("", handler.ListVendors)
	vendors.POST("", handler.CreateVendor)
	vendors.GET("/:id", handler.GetVendor)
	vendors.PUT("/:id", handler.UpdateVendor)
	vendors.DELETE("/:id", handler.DeleteVendor)

	// Work order endpoints
	workOrders := api.Group("/workorders")
	workOrders.GET("", handler.ListWorkOrders)
	workOrders.POST("", handler.CreateWorkOrder)
	workOrders.GET("/:id", handler.GetWorkOrder)
	workOrders.PUT("/:id", handler.UpdateWorkOrder)
	workOrders.PATCH("/:id/status", handler.UpdateWorkOrderStatus)
	workOrders.DELETE("/:id", handler.DeleteWorkOrder)

	// Admin endpoints - user management within the acting tenant
	admin := api.Group("/admin")
	admin.GET("/users", handler.ListUsers)
	admin.PUT("/users/:id/permissions", handler.UpdateUserPermissions)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
