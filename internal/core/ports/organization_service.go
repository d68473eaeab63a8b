package ports

import (
	"context"

	"github.com/multidisease/platform-api/internal/core/domain"
)

// CreateOrganizationInput carries all data needed to register an organization.
type CreateOrganizationInput struct {
	Name          string
	Type          domain.OrganizationType
	Address       map[string]any
	Phone         string
	Email         string
	Website       string
	ServiceDeskID string
	CreatedBy     string
}

// ListOrganizationsResult is one page of organizations.
type ListOrganizationsResult struct {
	Items      []*domain.Organization
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// OrganizationService defines use-case operations for organizations.
type OrganizationService interface {
	CreateOrganization(ctx context.Context, input CreateOrganizationInput) (*domain.Organization, error)
	GetOrganization(ctx context.Context, id string) (*domain.Organization, error)
	UpdateOrganization(ctx context.Context, id string, update OrganizationUpdate) (*domain.Organization, error)
	ListOrganizations(ctx context.Context, filter ListOrganizationsFilter) (*ListOrganizationsResult, error)
	ListServiceDesks(ctx context.Context) ([]*domain.Organization, error)
}
