package handler

import (
	"time"

	"github.com/multidisease/platform-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	IsActive  bool      `json:"isActive"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"`
	User      userResponse `json:"user"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// --- Users ---

type createUserRequest struct {
	Email     string   `json:"email"     validate:"required,email"`
	Password  string   `json:"password"  validate:"required,min=8,max=72"`
	FirstName string   `json:"firstName" validate:"omitempty,max=100"`
	LastName  string   `json:"lastName"  validate:"omitempty,max=100"`
	Roles     []string `json:"roles"     validate:"required,min=1,dive,role"`
}

type rolesResponse struct {
	Roles []domain.RoleInfo `json:"roles"`
}

// --- Organizations ---

type listOrganizationsQuery struct {
	Type  string `query:"type"  validate:"omitempty,oneof=HOSPITAL SERVICE_DESK"`
	Page  int    `query:"page"  validate:"omitempty,min=1,max=1000000"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type createOrganizationRequest struct {
	Name          string         `json:"name"          validate:"required,min=2,max=100"`
	Type          string         `json:"type"          validate:"required,oneof=HOSPITAL SERVICE_DESK"`
	Address       map[string]any `json:"address"       validate:"required"`
	Phone         string         `json:"phone"         validate:"omitempty,e164"`
	Email         string         `json:"email"         validate:"omitempty,email"`
	Website       string         `json:"website"       validate:"omitempty,url"`
	ServiceDeskID string         `json:"serviceDeskId" validate:"required_if=Type HOSPITAL"`
}

type updateOrganizationRequest struct {
	Name          *string        `json:"name"          validate:"omitempty,min=2,max=100"`
	Address       map[string]any `json:"address"`
	Phone         *string        `json:"phone"         validate:"omitempty,e164"`
	Email         *string        `json:"email"         validate:"omitempty,email"`
	Website       *string        `json:"website"       validate:"omitempty,url"`
	ServiceDeskID *string        `json:"serviceDeskId"`
	IsActive      *bool          `json:"isActive"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type listOrganizationsResponse struct {
	Data       []*domain.Organization `json:"data"`
	Pagination paginationResponse     `json:"pagination"`
}

func toUserResponse(u *domain.User, roles domain.RoleSet) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		Roles:     roles.Strings(),
		CreatedAt: u.CreatedAt,
	}
}
