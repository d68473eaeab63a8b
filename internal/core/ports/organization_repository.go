package ports

import (
	"context"

	"github.com/multidisease/platform-api/internal/core/domain"
)

// ListOrganizationsFilter carries the query parameters for listing organizations.
type ListOrganizationsFilter struct {
	Type  domain.OrganizationType // empty = any type
	Page  int                     // 1-based
	Limit int
}

// OrganizationUpdate holds the fields of a partial update; nil means unchanged.
type OrganizationUpdate struct {
	Name          *string
	Address       map[string]any
	Phone         *string
	Email         *string
	Website       *string
	ServiceDeskID *string
	IsActive      *bool
}

// OrganizationRepository defines persistence operations for organizations.
type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) (*domain.Organization, error)
	FindByID(ctx context.Context, id string) (*domain.Organization, error)
	Update(ctx context.Context, id string, update OrganizationUpdate) (*domain.Organization, error)
	List(ctx context.Context, filter ListOrganizationsFilter) ([]*domain.Organization, int64, error)
}
