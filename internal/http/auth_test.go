package http

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

func TestTokenIssueAndVerify(t *testing.T) {
	issuer := newTokenIssuer("unit-test-secret-key", time.Hour)
	userID := uuid.New()

	raw, err := issuer.Issue(userID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	got, err := issuer.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != userID {
		t.Errorf("verified subject = %v, want %v", got, userID)
	}
}

func TestTokenVerifyFailures(t *testing.T) {
	issuer := newTokenIssuer("unit-test-secret-key", time.Hour)
	raw, err := issuer.Issue(uuid.New())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"tampered", raw + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.Verify(tt.token); !errors.Is(err, core.ErrUnauthorized) {
				t.Errorf("error = %v, want unauthorized", err)
			}
		})
	}

	// A token signed with a different secret is rejected.
	other := newTokenIssuer("a-completely-other-secret", time.Hour)
	if _, err := other.Verify(raw); !errors.Is(err, core.ErrUnauthorized) {
		t.Errorf("foreign secret error = %v, want unauthorized", err)
	}

	// An expired token is rejected.
	expired := newTokenIssuer("unit-test-secret-key", -time.Minute)
	raw, err = expired.Issue(uuid.New())
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}
	if _, err := issuer.Verify(raw); !errors.Is(err, core.ErrUnauthorized) {
		t.Errorf("expired token error = %v, want unauthorized", err)
	}
}
