package ports

import (
	"context"

	"github.com/multidisease/platform-api/internal/core/domain"
)

// UserRepository defines the persistence operations on user accounts.
// Lookups return domain.ErrUserNotFound when no account matches.
type UserRepository interface {
	// FindUserByID loads a user together with all of its role assignments.
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
}
