package domain

import "strings"

// Platform role names. RoleEndUser is the only non-staff role; every other
// role carries the staff capability to manage tickets.
const (
	RoleEndUser    = "End-App-User"
	RoleSupport    = "Support"
	RoleAdmin      = "Admin"
	RoleSuperAdmin = "SuperAdmin"
	RoleAgronomist = "Agronomist"
	RoleAnalyst    = "Analyst"
	RoleDeveloper  = "Developer"
	RoleBusiness   = "Business"
)

// NormalizeRole folds legacy spellings of the end-user role into the
// canonical name. Unknown roles pass through unchanged.
func NormalizeRole(role string) string {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(role))
	switch key {
	case "enduser", "endusers", "endappuser":
		return RoleEndUser
	}
	return role
}

// RoleSet is the capability set carried by a principal. Authorization checks
// go through HasAny rather than comparing against a single role enum, so new
// roles can be added without touching transition logic.
type RoleSet []string

// NewRoleSet builds a normalized role set.
func NewRoleSet(roles ...string) RoleSet {
	out := make(RoleSet, 0, len(roles))
	for _, role := range roles {
		if role == "" {
			continue
		}
		out = append(out, NormalizeRole(role))
	}
	return out
}

// Has reports whether the set contains the given role.
func (s RoleSet) Has(role string) bool {
	role = NormalizeRole(role)
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

// HasAny reports whether the set contains at least one of the given roles.
func (s RoleSet) HasAny(roles ...string) bool {
	for _, role := range roles {
		if s.Has(role) {
			return true
		}
	}
	return false
}

// IsStaff reports whether the set carries any role other than the end-user
// role.
func (s RoleSet) IsStaff() bool {
	for _, r := range s {
		if r != RoleEndUser {
			return true
		}
	}
	return false
}

// Primary returns the display role for the principal: the first staff role in
// the set, or the end-user role when the set holds nothing else.
func (s RoleSet) Primary() string {
	for _, r := range s {
		if r != RoleEndUser {
			return r
		}
	}
	if len(s) > 0 {
		return s[0]
	}
	return ""
}
