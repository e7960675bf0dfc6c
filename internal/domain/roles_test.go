package domain

import "testing"

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"enduser", RoleEndUser},
		{"End-App-User", RoleEndUser},
		{"end_users", RoleEndUser},
		{"End Users", RoleEndUser},
		{"Support", RoleSupport},
		{"Agronomist", RoleAgronomist},
		{"unknown-role", "unknown-role"},
	}
	for _, tc := range cases {
		if got := NormalizeRole(tc.in); got != tc.want {
			t.Errorf("NormalizeRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRoleSetIsStaff(t *testing.T) {
	cases := []struct {
		name  string
		roles []string
		staff bool
	}{
		{"end user only", []string{RoleEndUser}, false},
		{"empty", nil, false},
		{"support", []string{RoleSupport}, true},
		{"end user plus analyst", []string{RoleEndUser, RoleAnalyst}, true},
		{"legacy spelling only", []string{"enduser"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewRoleSet(tc.roles...).IsStaff(); got != tc.staff {
				t.Errorf("IsStaff() = %v, want %v", got, tc.staff)
			}
		})
	}
}

func TestRoleSetHas(t *testing.T) {
	set := NewRoleSet("enduser", RoleSupport)
	if !set.Has(RoleEndUser) {
		t.Error("normalized end-user role not found")
	}
	if !set.Has("Support") {
		t.Error("support role not found")
	}
	if set.Has(RoleAdmin) {
		t.Error("unexpected admin role")
	}
	if !set.HasAny(RoleAdmin, RoleSupport) {
		t.Error("HasAny missed support")
	}
}

func TestRoleSetPrimary(t *testing.T) {
	if got := NewRoleSet(RoleEndUser, RoleAgronomist).Primary(); got != RoleAgronomist {
		t.Errorf("Primary() = %q, want %q", got, RoleAgronomist)
	}
	if got := NewRoleSet(RoleEndUser).Primary(); got != RoleEndUser {
		t.Errorf("Primary() = %q, want %q", got, RoleEndUser)
	}
	if got := NewRoleSet().Primary(); got != "" {
		t.Errorf("Primary() = %q, want empty", got)
	}
}
