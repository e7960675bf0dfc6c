package service

import (
	"context"
	"testing"

	"github.com/agrilink/support-service/internal/domain"
	apperrors "github.com/agrilink/support-service/pkg/util"
)

func TestResolveRoles(t *testing.T) {
	users := newFakeUserRepo()
	user := &domain.User{ID: "u1", Name: "Amina", Email: "amina@example.com", Roles: []string{"enduser", domain.RoleAnalyst}, Active: true}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed: %v", err)
	}
	identity := NewIdentityService(users, nil, 0)

	roles, err := identity.Resolve(context.Background(), "u1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !roles.Has(domain.RoleEndUser) || !roles.Has(domain.RoleAnalyst) {
		t.Errorf("roles = %v", roles)
	}
	if !roles.IsStaff() {
		t.Error("analyst should carry the staff capability")
	}

	if _, err := identity.Resolve(context.Background(), "ghost"); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestUsersInRoleNormalizesLegacySpelling(t *testing.T) {
	users := newFakeUserRepo()
	if err := users.Create(context.Background(), &domain.User{ID: "u1", Name: "Amina", Email: "amina@example.com", Roles: []string{domain.RoleEndUser}, Active: true}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	identity := NewIdentityService(users, nil, 0)

	members, err := identity.UsersInRole(context.Background(), "end_users")
	if err != nil {
		t.Fatalf("users in role: %v", err)
	}
	if len(members) != 1 || members[0].ID != "u1" {
		t.Errorf("members = %v", members)
	}
}
