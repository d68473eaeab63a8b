package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/multidisease/platform-api/internal/core/domain"
	"github.com/multidisease/platform-api/internal/core/ports"
)

// IdentityLoader turns verified claims into the caller identity with one read
// of the user repository. Nothing is cached between calls.
type IdentityLoader struct {
	users ports.UserRepository
	log   zerolog.Logger
	now   func() time.Time
}

func NewIdentityLoader(users ports.UserRepository, log zerolog.Logger) *IdentityLoader {
	return &IdentityLoader{users: users, log: log, now: time.Now}
}

// Load resolves the user named by claims. Unknown and deactivated accounts
// both yield domain.ErrInvalidOrInactiveUser.
func (l *IdentityLoader) Load(ctx context.Context, claims *domain.Claims) (*domain.Identity, error) {
	if claims == nil || claims.UserID == "" {
		return nil, domain.ErrInvalidCredential
	}

	user, err := l.users.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidOrInactiveUser
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: load user: %w", domain.ErrAuthenticationFailed, err)
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrInvalidOrInactiveUser
	}

	roles, unknown := user.EffectiveRoles(l.now())
	if len(unknown) > 0 {
		l.log.Warn().
			Str("user_id", user.ID).
			Interface("unknown_roles", unknown).
			Msg("ignoring role assignments with unknown role names")
	}

	return &domain.Identity{
		ID:    user.ID,
		Email: user.Email,
		Roles: roles,
	}, nil
}

// Authenticator runs the verifier and the loader as one pipeline.
type Authenticator struct {
	*TokenVerifier
	*IdentityLoader
}

func NewAuthenticator(verifier *TokenVerifier, loader *IdentityLoader) *Authenticator {
	return &Authenticator{TokenVerifier: verifier, IdentityLoader: loader}
}
