package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "propman_login_total",
			Help: "Total number of login attempts",
		},
	)

	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "propman_register_total",
			Help: "Total number of user registrations",
		},
	)

	AuthAttemptsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "propman_auth_attempts_total",
			Help: "Total number of authenticated requests attempted",
		},
	)

	AuthSuccessCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "propman_auth_success_total",
			Help: "Total number of successfully authenticated requests",
		},
	)

	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propman_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // "missing_token", "invalid_token", "unknown_subject", ...
	)

	PermissionDeniedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propman_permission_denied_total",
			Help: "Total number of requests denied for missing permissions",
		},
		[]string{"permission"},
	)

	EntityOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propman_entity_operations_total",
			Help: "Total number of entity operations",
		},
		[]string{"entity", "operation"}, // entity: "property", "vendor", "work_order"
	)

	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propman_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "propman_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "propman_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	ActiveTenantsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "propman_active_tenants",
			Help: "Number of tenants with at least one user",
		},
	)

	UsersPerTenantGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "propman_users_per_tenant",
			Help: "Number of users per tenant",
		},
		[]string{"tenant_id", "tenant_name"},
	)

	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "propman_info",
			Help: "Information about the property management service",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(AuthAttemptsCounter)
	prometheus.MustRegister(AuthSuccessCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(PermissionDeniedCounter)
	prometheus.MustRegister(EntityOperationCounter)
	prometheus.MustRegister(HTTPRequestCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(ActiveTenantsGauge)
	prometheus.MustRegister(UsersPerTenantGauge)
	prometheus.MustRegister(InfoGauge)

	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordPermissionDenied records a denied permission check
func RecordPermissionDenied(permission string) {
	PermissionDeniedCounter.With(prometheus.Labels{"permission": permission}).Inc()
}

// RecordEntityOperation records an operation on a tenant-scoped entity
func RecordEntityOperation(entity, operation string) {
	EntityOperationCounter.With(prometheus.Labels{"entity": entity, "operation": operation}).Inc()
}

// UpdateUsersPerTenant updates the per-tenant user count gauge
func UpdateUsersPerTenant(tenantID uint, tenantName string, count int) {
	UsersPerTenantGauge.With(prometheus.Labels{
		"tenant_id":   strconv.FormatUint(uint64(tenantID), 10),
		"tenant_name": tenantName,
	}).Set(float64(count))
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}
