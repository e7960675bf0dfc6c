package service

import (
	"context"
	"testing"

	"github.com/agrilink/support-service/internal/config"
	"github.com/agrilink/support-service/internal/domain"
	apperrors "github.com/agrilink/support-service/pkg/util"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 15,
		BcryptCost:            4,
	}}
	return NewAuthService(cfg, users), users
}

func TestRegisterAssignsEndUserRole(t *testing.T) {
	svc, _ := newAuthFixture(t)

	user, token, _, err := svc.Register(context.Background(), "Amina Diallo", "AMINA@Example.com", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Error("no token issued")
	}
	if user.Email != "amina@example.com" {
		t.Errorf("email not lowercased: %q", user.Email)
	}
	if len(user.Roles) != 1 || user.Roles[0] != domain.RoleEndUser {
		t.Errorf("roles = %v, want end-user only", user.Roles)
	}
	if !user.Active {
		t.Error("new account not active")
	}

	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.SubjectID != user.ID {
		t.Errorf("token subject = %q, want %q", claims.SubjectID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)
	if _, _, _, err := svc.Register(context.Background(), "Amina", "amina@example.com", "hunter2"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, _, _, err := svc.Register(context.Background(), "Other", "amina@example.com", "secret"); !apperrors.IsCode(err, "CONFLICT") {
		t.Errorf("err = %v, want CONFLICT", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthFixture(t)
	if _, _, _, err := svc.Register(context.Background(), "", "a@b.c", "pw"); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("missing name: err = %v", err)
	}
	if _, _, _, err := svc.Register(context.Background(), "A", "a@b.c", ""); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("missing password: err = %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, users := newAuthFixture(t)
	registered, _, _, err := svc.Register(context.Background(), "Amina", "amina@example.com", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, token, _, err := svc.Login(context.Background(), "Amina@Example.com", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != registered.ID || token == "" {
		t.Errorf("login returned user %q", user.ID)
	}

	if _, _, _, err := svc.Login(context.Background(), "amina@example.com", "wrong"); !apperrors.IsCode(err, "UNAUTHORIZED") {
		t.Errorf("wrong password: err = %v, want UNAUTHORIZED", err)
	}
	if _, _, _, err := svc.Login(context.Background(), "ghost@example.com", "pw"); !apperrors.IsCode(err, "UNAUTHORIZED") {
		t.Errorf("unknown email: err = %v, want UNAUTHORIZED", err)
	}

	registered.Active = false
	if err := users.Update(context.Background(), registered); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if _, _, _, err := svc.Login(context.Background(), "amina@example.com", "hunter2"); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Errorf("suspended account: err = %v, want FORBIDDEN", err)
	}
}
