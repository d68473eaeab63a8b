package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/multidisease/platform-api/internal/core/domain"
)

// currentIdentity returns the caller attached by the Authenticate middleware.
// Handlers mounted without it get domain.ErrUnauthenticated.
func currentIdentity(c echo.Context) (*domain.Identity, error) {
	id, ok := domain.IdentityFrom(c.Request().Context())
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return id, nil
}
