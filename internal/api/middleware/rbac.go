package middleware

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/multidisease/platform-api/internal/api/metrics"
	"github.com/multidisease/platform-api/internal/core/domain"
)

// RequireRoles lets the request through when the authenticated caller holds
// any one of roles. It must run after Authenticate. Unknown roles are a
// programming error and panic at route registration.
func RequireRoles(log zerolog.Logger, roles ...domain.Role) echo.MiddlewareFunc {
	for _, r := range roles {
		if !r.Valid() {
			panic(fmt.Sprintf("middleware: unknown role %q", r))
		}
	}
	allowed := domain.NewRoleSet(roles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := checkRoles(c, allowed, log); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func checkRoles(c echo.Context, allowed domain.RoleSet, log zerolog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			metrics.AuthorizationsTotal.WithLabelValues("error").Inc()
			err = fmt.Errorf("%w: %v", domain.ErrAuthorizationFailed, r)
		}
	}()

	id, _ := domain.IdentityFrom(c.Request().Context())
	err = domain.Authorize(allowed, id)

	var perr *domain.PermissionError
	switch {
	case err == nil:
		metrics.AuthorizationsTotal.WithLabelValues("allow").Inc()
	case errors.As(err, &perr):
		metrics.AuthorizationsTotal.WithLabelValues("deny").Inc()
		log.Warn().
			Str("user_id", id.ID).
			Strs("roles", perr.Current.Strings()).
			Strs("required", perr.Required.Strings()).
			Str("endpoint", c.Request().URL.Path).
			Msgf("Access denied for user %s", id.ID)
	default:
		metrics.AuthorizationsTotal.WithLabelValues("unauthenticated").Inc()
	}
	return err
}
