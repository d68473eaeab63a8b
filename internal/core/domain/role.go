package domain

import (
	"encoding/json"
	"strings"
)

// Role is one of the fixed permission classes a user can hold.
type Role string

const (
	RoleSuperAdmin              Role = "SUPERADMIN"
	RoleHealthcareProviderAdmin Role = "HEALTHCARE_PROVIDER_ADMIN"
	RoleServiceDeskAdmin        Role = "SERVICE_DESK_ADMIN"
	RoleDoctor                  Role = "DOCTOR"
	RoleServiceDeskEmployee     Role = "SERVICE_DESK_EMPLOYEE"
	RolePatient                 Role = "PATIENT"
)

// AllRoles lists every role in canonical order.
var AllRoles = []Role{
	RoleSuperAdmin,
	RoleHealthcareProviderAdmin,
	RoleServiceDeskAdmin,
	RoleDoctor,
	RoleServiceDeskEmployee,
	RolePatient,
}

// bit maps a role to its position in a RoleSet. Unknown roles map to 0.
func (r Role) bit() RoleSet {
	switch r {
	case RoleSuperAdmin:
		return 1 << 0
	case RoleHealthcareProviderAdmin:
		return 1 << 1
	case RoleServiceDeskAdmin:
		return 1 << 2
	case RoleDoctor:
		return 1 << 3
	case RoleServiceDeskEmployee:
		return 1 << 4
	case RolePatient:
		return 1 << 5
	default:
		return 0
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r.bit() != 0 }

func (r Role) String() string { return string(r) }

// ParseRole converts a stored or submitted role name into a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", false
	}
	return r, true
}

// RoleSet is a set of roles stored as a bitmask over the closed enumeration.
// Insertion order and duplicates do not matter.
type RoleSet uint8

const allRolesMask RoleSet = 1<<6 - 1

// NewRoleSet builds a set from roles. Unknown roles are ignored.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= r.bit()
	}
	return s
}

// Has reports whether r is in the set.
func (s RoleSet) Has(r Role) bool {
	b := r.bit()
	return b != 0 && s&b != 0
}

// Add returns the set with r included.
func (s RoleSet) Add(r Role) RoleSet { return s | r.bit() }

// Intersects reports whether the two sets share at least one role.
func (s RoleSet) Intersects(other RoleSet) bool { return s&other != 0 }

// IsEmpty reports whether the set holds no roles.
func (s RoleSet) IsEmpty() bool { return s&allRolesMask == 0 }

// Len returns the number of roles in the set.
func (s RoleSet) Len() int {
	n := 0
	for _, r := range AllRoles {
		if s.Has(r) {
			n++
		}
	}
	return n
}

// Roles returns the members in canonical order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(AllRoles))
	for _, r := range AllRoles {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Strings returns the member names in canonical order.
func (s RoleSet) Strings() []string {
	roles := s.Roles()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func (s RoleSet) String() string { return "[" + strings.Join(s.Strings(), ",") + "]" }

// MarshalJSON renders the set as an array of role names.
func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

// UnmarshalJSON accepts an array of role names. Unknown names are rejected.
func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	var set RoleSet
	for _, n := range names {
		r, ok := ParseRole(n)
		if !ok {
			return &UnknownRoleError{Name: n}
		}
		set = set.Add(r)
	}
	*s = set
	return nil
}

// UnknownRoleError is returned when a role name is outside the enumeration.
type UnknownRoleError struct {
	Name string
}

func (e *UnknownRoleError) Error() string { return "unknown role " + `"` + e.Name + `"` }

// RoleInfo describes a role for the role catalogue endpoint.
type RoleInfo struct {
	Name        Role     `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// RoleCatalogue returns the descriptions of every role in canonical order.
func RoleCatalogue() []RoleInfo {
	out := make([]RoleInfo, 0, len(AllRoles))
	for _, r := range AllRoles {
		out = append(out, describe(r))
	}
	return out
}

func describe(r Role) RoleInfo {
	switch r {
	case RoleSuperAdmin:
		return RoleInfo{r, "Full system access and configuration", []string{"*"}}
	case RoleHealthcareProviderAdmin:
		return RoleInfo{r, "Organization-level healthcare administration", []string{"manage_providers", "view_patients", "create_questionnaires"}}
	case RoleServiceDeskAdmin:
		return RoleInfo{r, "Service desk administration and support", []string{"manage_support", "create_questionnaires", "view_organizations"}}
	case RoleDoctor:
		return RoleInfo{r, "Patient care and treatment management", []string{"manage_patients", "assign_treatments", "view_data"}}
	case RoleServiceDeskEmployee:
		return RoleInfo{r, "Technical support and user assistance", []string{"provide_support", "view_tickets"}}
	case RolePatient:
		return RoleInfo{r, "Personal health data and self-monitoring", []string{"view_own_data", "submit_responses", "communicate"}}
	default:
		return RoleInfo{Name: r}
	}
}
