package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/multidisease/platform-api/internal/api/metrics"
	"github.com/multidisease/platform-api/internal/core/domain"
	"github.com/multidisease/platform-api/internal/core/ports"
)

// Authenticate verifies the bearer token, loads the caller and attaches the
// resulting identity to the request context. Every failure stops the chain.
func Authenticate(auth ports.Authenticator, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			start := time.Now()
			id, err := authenticate(req.Context(), auth, req.Header.Get(echo.HeaderAuthorization))
			metrics.AuthenticationDuration.Observe(time.Since(start).Seconds())
			metrics.AuthenticationsTotal.WithLabelValues(authOutcome(err)).Inc()
			if err != nil {
				return err
			}

			log.Debug().Str("user_id", id.ID).Str("path", req.URL.Path).Msg("request authenticated")
			c.SetRequest(req.WithContext(domain.WithIdentity(req.Context(), id)))
			return next(c)
		}
	}
}

// authenticate runs verify then load. A panic in either stage is reported as
// domain.ErrAuthenticationFailed.
func authenticate(ctx context.Context, auth ports.Authenticator, header string) (id *domain.Identity, err error) {
	defer func() {
		if r := recover(); r != nil {
			id, err = nil, fmt.Errorf("%w: %v", domain.ErrAuthenticationFailed, r)
		}
	}()

	claims, err := auth.Verify(header)
	if err != nil {
		return nil, err
	}
	return auth.Load(ctx, claims)
}

func authOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, domain.ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(err, domain.ErrInvalidOrInactiveUser):
		return "inactive_user"
	case errors.Is(err, domain.ErrServerMisconfigured):
		return "misconfigured"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "error"
	}
}
