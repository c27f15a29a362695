package services

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/core"
)

func TestRegisterAndLogin(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewAuthService(repo)
	ctx := context.Background()

	u, err := svc.Register(ctx, "jo@example.com", "Jo", "correct horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.PasswordHash == "correct horse" {
		t.Fatal("password stored in clear")
	}

	got, err := svc.Login(ctx, "jo@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("login returned user %v, want %v", got.ID, u.ID)
	}

	// Wrong password and unknown email yield the same error.
	if _, err := svc.Login(ctx, "jo@example.com", "wrong"); !errors.Is(err, core.ErrUnauthorized) {
		t.Errorf("wrong password error = %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "correct horse"); !errors.Is(err, core.ErrUnauthorized) {
		t.Errorf("unknown email error = %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewAuthService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "jo@example.com", "Jo", "short"); err == nil {
		t.Error("short password accepted")
	}
	if _, err := svc.Register(ctx, "not-an-email", "Jo", "password123"); err == nil {
		t.Error("bad email accepted")
	}
	if _, err := svc.Register(ctx, "jo@example.com", "", "password123"); err == nil {
		t.Error("empty name accepted")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewAuthService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "jo@example.com", "Jo", "password123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "jo@example.com", "Jo Again", "password123"); !errors.Is(err, core.ErrConflict) {
		t.Errorf("duplicate email error = %v", err)
	}
}
