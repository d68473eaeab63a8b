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

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	// serviceDeskLimit bounds the single page returned by ListServiceDesks.
	serviceDeskLimit = 1000

	// maxPage keeps (page-1)*limit far from overflowing the skip offset.
	maxPage = 1_000_000
)

type organizationService struct {
	repo ports.OrganizationRepository
	log  zerolog.Logger
}

// NewOrganizationService returns an OrganizationService implementation.
func NewOrganizationService(repo ports.OrganizationRepository, log zerolog.Logger) ports.OrganizationService {
	return &organizationService{repo: repo, log: log}
}

func (s *organizationService) CreateOrganization(ctx context.Context, in ports.CreateOrganizationInput) (*domain.Organization, error) {
	now := time.Now().UTC()
	org := &domain.Organization{
		Name:          in.Name,
		Type:          in.Type,
		Address:       in.Address,
		Phone:         in.Phone,
		Email:         in.Email,
		Website:       in.Website,
		ServiceDeskID: in.ServiceDeskID,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := org.Validate(); err != nil {
		return nil, err
	}

	if org.Type == domain.OrganizationHospital {
		if err := s.checkServiceDesk(ctx, org.ServiceDeskID); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.Create(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}

	s.log.Info().
		Str("organization_id", created.ID).
		Str("type", string(created.Type)).
		Str("created_by", in.CreatedBy).
		Msg("organization created")
	return created, nil
}

func (s *organizationService) GetOrganization(ctx context.Context, id string) (*domain.Organization, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateOrganization applies a partial update. A serviceDeskId change is
// checked against the stored organization: hospitals must keep pointing at
// another, existing service desk and service desks cannot take one.
func (s *organizationService) UpdateOrganization(ctx context.Context, id string, update ports.OrganizationUpdate) (*domain.Organization, error) {
	if update.ServiceDeskID != nil {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}

		merged := *current
		merged.ServiceDeskID = *update.ServiceDeskID
		if err := merged.Validate(); err != nil {
			return nil, fmt.Errorf("%w: invalid serviceDeskId for %s", domain.ErrInvalidOrganization, merged.Type)
		}
		if merged.Type == domain.OrganizationHospital {
			if err := s.checkServiceDesk(ctx, merged.ServiceDeskID); err != nil {
				return nil, err
			}
		}
	}
	return s.repo.Update(ctx, id, update)
}

func (s *organizationService) ListOrganizations(ctx context.Context, filter ports.ListOrganizationsFilter) (*ports.ListOrganizationsResult, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, domain.ErrInvalidOrganization
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Page > maxPage {
		filter.Page = maxPage
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListOrganizationsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *organizationService) ListServiceDesks(ctx context.Context) ([]*domain.Organization, error) {
	items, _, err := s.repo.List(ctx, ports.ListOrganizationsFilter{
		Type:  domain.OrganizationServiceDesk,
		Page:  1,
		Limit: serviceDeskLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("list service desks: %w", err)
	}
	return items, nil
}

// checkServiceDesk makes sure a hospital points at an existing service desk.
func (s *organizationService) checkServiceDesk(ctx context.Context, id string) error {
	desk, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrOrganizationNotFound) {
			return fmt.Errorf("%w: service desk %s not found", domain.ErrInvalidOrganization, id)
		}
		return err
	}
	if desk.Type != domain.OrganizationServiceDesk {
		return fmt.Errorf("%w: %s is not a service desk", domain.ErrInvalidOrganization, id)
	}
	return nil
}
