package auth

import (
	"property-service/pkg/apperr"

	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

// SetPrincipal publishes the resolved identity into the request context for
// the remainder of the call's execution.
func SetPrincipal(c echo.Context, p *Principal) {
	c.Set(principalKey, p)
}

// CurrentPrincipal retrieves the identity published by the auth middleware.
func CurrentPrincipal(c echo.Context) (*Principal, error) {
	p, ok := c.Get(principalKey).(*Principal)
	if !ok || p == nil {
		return nil, apperr.Unauthorized(nil)
	}
	return p, nil
}

// CurrentTenantID derives the acting tenant from the ambient identity. Every
// data access is parameterized by this id, never by client-supplied input.
func CurrentTenantID(c echo.Context) (uint, error) {
	p, err := CurrentPrincipal(c)
	if err != nil {
		return 0, err
	}
	return p.TenantID, nil
}
