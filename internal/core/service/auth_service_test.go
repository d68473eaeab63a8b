package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/multidisease/platform-api/internal/core/domain"
	"github.com/multidisease/platform-api/internal/core/ports"
)

const testSecret = "test-secret"

// stubUserRepo is an in-memory ports.UserRepository.
type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int
	err    error // returned by every call when set
	calls  int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.RoleAssignment(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindUserByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.users)), nil
}

// put stores u directly, bypassing hashing.
func (r *stubUserRepo) put(u *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = cloneUser(u)
}

func newAuthSvc(repo ports.UserRepository) *AuthService {
	return NewAuthService(repo, NewTokenIssuer(testSecret, "test", time.Hour), zerolog.Nop())
}

func seedUser(t *testing.T, svc *AuthService, email, password string, roles ...domain.Role) *domain.User {
	t.Helper()
	u, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		Email:    email,
		Password: password,
		Roles:    domain.NewRoleSet(roles...),
	})
	require.NoError(t, err)
	return u
}

func TestAuthService_CreateUser_HashesAndAssignsRoles(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	u := seedUser(t, svc, "  Doc@Example.com ", "s3cret-pass", domain.RoleDoctor, domain.RoleDoctor, domain.RolePatient)

	assert.Equal(t, "doc@example.com", u.Email)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")))
	require.Len(t, u.Roles, 2)
	assert.Equal(t, domain.RoleDoctor, u.Roles[0].Role)
	assert.Equal(t, domain.RolePatient, u.Roles[1].Role)
}

func TestAuthService_CreateUser_Validation(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	_, err := svc.CreateUser(context.Background(), ports.CreateUserInput{Email: "a@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidUser)

	_, err = svc.CreateUser(context.Background(), ports.CreateUserInput{Password: "x", Roles: domain.NewRoleSet(domain.RolePatient)})
	assert.ErrorIs(t, err, domain.ErrInvalidUser)
}

func TestAuthService_CreateUser_PasswordTooLong(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	// 37 runes, 74 bytes: bcrypt only sees bytes
	long := strings.Repeat("é", 37)
	_, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		Email: "a@example.com", Password: long, Roles: domain.NewRoleSet(domain.RolePatient),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidUser)
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAuthService_CreateUser_Duplicate(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())
	seedUser(t, svc, "a@example.com", "password1", domain.RolePatient)

	_, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		Email: "A@example.com", Password: "password2", Roles: domain.NewRoleSet(domain.RolePatient),
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)
	u := seedUser(t, svc, "alice@example.com", "password1", domain.RoleDoctor)

	res, err := svc.Login(context.Background(), "Alice@Example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)
	assert.Equal(t, time.Hour, res.ExpiresIn)

	claims, err := NewTokenVerifier(testSecret).Verify("Bearer " + res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "test", claims.Issuer)
	assert.NotEmpty(t, claims.TokenID)
}

func TestAuthService_Login_NoEnumeration(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)
	seedUser(t, svc, "alice@example.com", "password1", domain.RoleDoctor)
	inactive := seedUser(t, svc, "bob@example.com", "password1", domain.RoleDoctor)
	inactive.IsActive = false
	repo.put(inactive)

	cases := map[string][2]string{
		"wrong password": {"alice@example.com", "nope"},
		"unknown email":  {"nobody@example.com", "password1"},
		"inactive user":  {"bob@example.com", "password1"},
		"empty password": {"alice@example.com", ""},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), in[0], in[1])
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		})
	}
}

func TestAuthService_Login_RepoError(t *testing.T) {
	repo := newStubUserRepo()
	repo.err = errors.New("db down")
	svc := newAuthSvc(repo)

	_, err := svc.Login(context.Background(), "alice@example.com", "password1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_EnsureSuperAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)
	ctx := context.Background()

	require.NoError(t, svc.EnsureSuperAdmin(ctx, "root@example.com", "rootpass"))
	n, _ := repo.Count(ctx)
	require.EqualValues(t, 1, n)

	u, err := repo.FindByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	roles, _ := u.EffectiveRoles(time.Now())
	assert.Equal(t, domain.NewRoleSet(domain.RoleSuperAdmin), roles)

	// second call is a no-op
	require.NoError(t, svc.EnsureSuperAdmin(ctx, "other@example.com", "rootpass"))
	n, _ = repo.Count(ctx)
	assert.EqualValues(t, 1, n)
}

func TestAuthService_EnsureSuperAdmin_BlankIsNoop(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	require.NoError(t, svc.EnsureSuperAdmin(context.Background(), "", ""))
	n, _ := repo.Count(context.Background())
	assert.Zero(t, n)
}
