package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/multidisease/platform-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// permissionResponse is the 403 body; it echoes the role sets because the
// caller is already authenticated.
type permissionResponse struct {
	Error    string   `json:"error"`
	Required []string `json:"required"`
	Current  []string `json:"current"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps authentication, authorization and domain errors to fixed statuses and messages.
//   - Logs server-side failures without leaking details to the client.
//   - Renders a JSON envelope with an "error" key.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if errors.Is(err, context.Canceled) {
			log.Debug().Str("path", c.Request().URL.Path).Msg("request cancelled by client")
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, any) {
	var perr *domain.PermissionError
	if errors.As(err, &perr) {
		return http.StatusForbidden, permissionResponse{
			Error:    "Insufficient permissions",
			Required: perr.Required.Strings(),
			Current:  perr.Current.Strings(),
		}
	}

	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusUnauthorized, errorResponse{Error: "Access token required"}
	case errors.Is(err, domain.ErrInvalidCredential):
		return http.StatusUnauthorized, errorResponse{Error: "Invalid token"}
	case errors.Is(err, domain.ErrInvalidOrInactiveUser):
		return http.StatusUnauthorized, errorResponse{Error: "Invalid or inactive user"}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "Authentication required"}
	case errors.Is(err, domain.ErrServerMisconfigured):
		logServerError(log, c, err, "JWT secret not configured")
		return http.StatusInternalServerError, errorResponse{Error: "Server configuration error"}
	case errors.Is(err, domain.ErrAuthenticationFailed):
		logServerError(log, c, err, "authentication error")
		return http.StatusInternalServerError, errorResponse{Error: "Authentication failed"}
	case errors.Is(err, domain.ErrAuthorizationFailed):
		logServerError(log, c, err, "role check error")
		return http.StatusInternalServerError, errorResponse{Error: "Authorization failed"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "Invalid credentials"}
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, errorResponse{Error: "Too many requests from this IP, please try again later."}
	case errors.Is(err, domain.ErrInvalidUser):
		return http.StatusBadRequest, errorResponse{Error: "Invalid user"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "User already exists"}
	case errors.Is(err, domain.ErrOrganizationNotFound):
		return http.StatusNotFound, errorResponse{Error: "Organization not found"}
	case errors.Is(err, domain.ErrInvalidOrganization):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound {
			return he.Code, errorResponse{
				Error:   "Not Found",
				Message: fmt.Sprintf("Route %s not found", c.Request().URL.RequestURI()),
			}
		}
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	logServerError(log, c, err, "unhandled error")
	return http.StatusInternalServerError, errorResponse{Error: "Internal server error"}
}

func logServerError(log zerolog.Logger, c echo.Context, err error, msg string) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Request().URL.Path).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg(msg)
}
