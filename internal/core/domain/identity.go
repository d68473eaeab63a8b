package domain

import (
	"context"
	"time"
)

// Claims is the verified payload of a bearer token.
type Claims struct {
	UserID    string
	TokenID   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity is the authenticated caller of one request. It is built by the
// identity loader and read-only afterwards.
type Identity struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Roles RoleSet `json:"roles"`
}

type identityKey struct{}

// WithIdentity returns a child context carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	if id == nil {
		return ctx
	}
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity attached to ctx, if any.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}

// Authorize allows the caller when it holds at least one of the allowed roles.
// Roles are not hierarchical: SUPERADMIN passes only where it is listed.
func Authorize(allowed RoleSet, id *Identity) error {
	if id == nil {
		return ErrUnauthenticated
	}
	if !allowed.Intersects(id.Roles) {
		return &PermissionError{Required: allowed, Current: id.Roles}
	}
	return nil
}
