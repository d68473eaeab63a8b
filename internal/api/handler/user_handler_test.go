package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/multidisease/platform-api/internal/core/domain"
	"github.com/multidisease/platform-api/internal/core/ports"
)

func TestUserHandler_Me(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubAuthService{})

	id := &domain.Identity{ID: "u1", Email: "doc@example.com", Roles: domain.NewRoleSet(domain.RoleDoctor)}
	rec := httptest.NewRecorder()
	c := e.NewContext(withIdentity(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), id), rec)

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		ID    string   `json:"id"`
		Email string   `json:"email"`
		Roles []string `json:"roles"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "u1" || len(resp.Roles) != 1 || resp.Roles[0] != "DOCTOR" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Me_WithoutIdentity(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubAuthService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), httptest.NewRecorder())

	if err := h.Me(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestUserHandler_Roles_ListsCatalogue(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&stubAuthService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users/roles", nil), rec)

	if err := h.Roles(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp rolesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Roles) != len(domain.AllRoles) {
		t.Fatalf("expected %d roles, got %d", len(domain.AllRoles), len(resp.Roles))
	}
}

func TestUserHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		createUserFn: func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
			want := domain.NewRoleSet(domain.RoleDoctor, domain.RolePatient)
			if in.Roles != want {
				t.Fatalf("expected roles %s, got %s", want, in.Roles)
			}
			return &domain.User{
				ID:       "u2",
				Email:    in.Email,
				IsActive: true,
				Roles:    []domain.RoleAssignment{{Role: domain.RoleDoctor}, {Role: domain.RolePatient}},
			}, nil
		},
	}
	h := NewUserHandler(stub)

	body := `{"email":"new@example.com","password":"longenough","roles":["doctor","PATIENT"]}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/users", body), rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestUserHandler_Create_RejectsUnknownRole(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		createUserFn: func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	body := `{"email":"new@example.com","password":"longenough","roles":["NURSE"]}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/users", body), httptest.NewRecorder())

	if code := httpErrorCode(t, h.Create(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestUserHandler_Create_RejectsOverlongPassword(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		createUserFn: func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	body := `{"email":"new@example.com","password":"` + strings.Repeat("a", 73) + `","roles":["DOCTOR"]}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/users", body), httptest.NewRecorder())

	if code := httpErrorCode(t, h.Create(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}
