package domain

import "time"

// RoleAssignment links a user to a role. An assignment stops counting once it
// is revoked or past its expiry.
type RoleAssignment struct {
	Role       Role       `json:"role"`
	AssignedAt time.Time  `json:"assignedAt"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	RevokedAt  *time.Time `json:"revokedAt,omitempty"`
}

// ActiveAt reports whether the assignment grants its role at instant t.
func (a RoleAssignment) ActiveAt(t time.Time) bool {
	if a.RevokedAt != nil && !a.RevokedAt.After(t) {
		return false
	}
	if a.ExpiresAt != nil && !a.ExpiresAt.After(t) {
		return false
	}
	return true
}

// User models an account of the platform.
type User struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	PasswordHash string           `json:"-"`
	FirstName    string           `json:"firstName,omitempty"`
	LastName     string           `json:"lastName,omitempty"`
	IsActive     bool             `json:"isActive"`
	Roles        []RoleAssignment `json:"roles"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// EffectiveRoles returns the union of roles from the assignments active at t.
// Assignments naming unknown roles are skipped and returned separately.
func (u *User) EffectiveRoles(t time.Time) (RoleSet, []Role) {
	var (
		set     RoleSet
		unknown []Role
	)
	for _, a := range u.Roles {
		if !a.ActiveAt(t) {
			continue
		}
		if !a.Role.Valid() {
			unknown = append(unknown, a.Role)
			continue
		}
		set = set.Add(a.Role)
	}
	return set, unknown
}
