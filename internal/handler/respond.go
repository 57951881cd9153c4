package handler

import (
	"net/http"

	"property-service/pkg/apperr"
	"property-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// httpError maps an application error to its JSON response. Internal errors
// are logged with full context but surface as a generic failure.
func httpError(c echo.Context, err error) error {
	log := logger.FromContext(c)

	if appErr := apperr.As(err); appErr != nil {
		if appErr.Code == apperr.CodeInternal {
			log.Error("Internal error", zap.Error(appErr))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
		}
		return c.JSON(appErr.Status, echo.Map{"error": appErr.Message})
	}

	log.Error("Unexpected error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}
