package domain

import (
	"errors"
	"fmt"
)

// Authentication and authorization failures. Each maps to exactly one HTTP
// response in the API error handler.
var (
	ErrMissingCredential       = errors.New("access token required")
	ErrInvalidCredential       = errors.New("invalid token")
	ErrServerMisconfigured     = errors.New("server configuration error")
	ErrInvalidOrInactiveUser   = errors.New("invalid or inactive user")
	ErrUnauthenticated         = errors.New("authentication required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrAuthenticationFailed    = errors.New("authentication failed")
	ErrAuthorizationFailed     = errors.New("authorization failed")
)

// Account and resource errors.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrInvalidUser          = errors.New("invalid user")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrInvalidOrganization  = errors.New("invalid organization")
	ErrRateLimited          = errors.New("rate limit exceeded")
)

// PermissionError is returned by Authorize when the caller holds none of the
// required roles. It matches ErrInsufficientPermissions with errors.Is.
type PermissionError struct {
	Required RoleSet
	Current  RoleSet
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s: required %s, current %s", ErrInsufficientPermissions, e.Required, e.Current)
}

func (e *PermissionError) Is(target error) bool { return target == ErrInsufficientPermissions }
