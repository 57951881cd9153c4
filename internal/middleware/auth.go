package middleware

import (
	"net/http"
	"strings"

	"property-service/internal/auth"
	"property-service/pkg/database"
	"property-service/pkg/jwtutil"
	"property-service/pkg/logger"
	"property-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware is the per-request authentication gate. It extracts the
// bearer token, validates it and re-resolves the principal from the token
// subject on every call, so permission and tenant changes apply on the
// caller's very next request. Missing token, invalid token and a subject
// that no longer exists all produce the same response.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)
		prometheus.AuthAttemptsCounter.Inc()

		tokenString := c.Request().Header.Get("Authorization")
		if tokenString == "" {
			log.Warn("Missing authorization token")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}

		// Remove "Bearer " prefix if present
		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:7]) == "BEARER " {
			tokenString = tokenString[7:]
		}

		claims, err := jwtutil.ValidateToken(tokenString)
		if err != nil {
			log.Warn("Invalid or expired token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}

		principal, err := auth.ResolvePrincipal(database.GetDB(), claims.Username)
		if err != nil {
			// Deliberately the same response as an invalid token: callers
			// must not learn whether the subject ever existed.
			log.Warn("Token subject did not resolve", zap.String("username", claims.Username))
			prometheus.RecordAuthError("unknown_subject")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}

		prometheus.AuthSuccessCounter.Inc()
		auth.SetPrincipal(c, principal)

		c.Set("logger", log.With(
			zap.Uint("user_id", principal.UserID),
			zap.String("username", principal.Username),
			zap.Uint("tenant_id", principal.TenantID),
		))

		return next(c)
	}
}
