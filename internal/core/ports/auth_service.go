package ports

import (
	"context"
	"time"

	"github.com/multidisease/platform-api/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresIn time.Duration
	User      *domain.User
}

// CreateUserInput carries the fields needed to open a new account.
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Roles     domain.RoleSet
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
}

// Authenticator resolves a raw Authorization header into the caller identity.
type Authenticator interface {
	Verify(authorizationHeader string) (*domain.Claims, error)
	Load(ctx context.Context, claims *domain.Claims) (*domain.Identity, error)
}
