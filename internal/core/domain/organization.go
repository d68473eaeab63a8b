package domain

import "time"

// OrganizationType distinguishes hospitals from the service desks that support them.
type OrganizationType string

const (
	OrganizationHospital    OrganizationType = "HOSPITAL"
	OrganizationServiceDesk OrganizationType = "SERVICE_DESK"
)

// Valid reports whether t is a known organization type.
func (t OrganizationType) Valid() bool {
	return t == OrganizationHospital || t == OrganizationServiceDesk
}

// Organization is a tenant of the platform.
type Organization struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Type          OrganizationType `json:"type"`
	Address       map[string]any   `json:"address"`
	Phone         string           `json:"phone,omitempty"`
	Email         string           `json:"email,omitempty"`
	Website       string           `json:"website,omitempty"`
	ServiceDeskID string           `json:"serviceDeskId,omitempty"`
	IsActive      bool             `json:"isActive"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// Validate enforces the cross-field rules of an organization.
func (o *Organization) Validate() error {
	if !o.Type.Valid() {
		return ErrInvalidOrganization
	}
	switch o.Type {
	case OrganizationHospital:
		if o.ServiceDeskID == "" || (o.ID != "" && o.ServiceDeskID == o.ID) {
			return ErrInvalidOrganization
		}
	case OrganizationServiceDesk:
		if o.ServiceDeskID != "" {
			return ErrInvalidOrganization
		}
	}
	return nil
}
