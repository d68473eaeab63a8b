package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/multidisease/platform-api/internal/core/domain"
	"github.com/multidisease/platform-api/internal/core/ports"
)

// AuthService implements login and account creation.
type AuthService struct {
	repo   ports.UserRepository
	issuer *TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, issuer *TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, issuer: issuer, log: log}
}

// Login checks the password of an active account and signs a token for it.
// Unknown, inactive and wrong-password cases are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.LoginResult{Token: token, ExpiresIn: s.issuer.TTL(), User: user}, nil
}

// CreateUser hashes the password and stores a new active account.
func (s *AuthService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" || in.Roles.IsEmpty() {
		return nil, domain.ErrInvalidUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidUser, err)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	assignments := make([]domain.RoleAssignment, 0, in.Roles.Len())
	for _, r := range in.Roles.Roles() {
		assignments = append(assignments, domain.RoleAssignment{Role: r, AssignedAt: now})
	}

	return s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsActive:     true,
		Roles:        assignments,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// EnsureSuperAdmin creates a SUPERADMIN account when the user store is empty.
// It does nothing when email or password is blank.
func (s *AuthService) EnsureSuperAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	user, err := s.CreateUser(ctx, ports.CreateUserInput{
		Email:     email,
		Password:  password,
		FirstName: "Super",
		LastName:  "Admin",
		Roles:     domain.NewRoleSet(domain.RoleSuperAdmin),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil
		}
		return err
	}

	s.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("bootstrap superadmin created")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
