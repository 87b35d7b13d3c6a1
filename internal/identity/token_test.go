package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/MarkoPoloResearchLab/tablebook/pkg/booking"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func issuedUser(t *testing.T) User {
	t.Helper()
	userID, err := booking.NewUserID("user-1")
	if err != nil {
		t.Fatalf("new user id: %v", err)
	}
	return User{
		ID:        userID,
		Email:     "ada@example.com",
		Name:      "Ada Lovelace",
		AvatarURL: "https://example.com/ada.png",
		Role:      RoleAdmin,
	}
}

func TestTokenIssueVerifyRoundTrip(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewTokenIssuer("unit-test-signing-key", "tablebook", time.Hour, fixedClock(now))
	if err != nil {
		t.Fatalf("new token issuer: %v", err)
	}

	signed, err := issuer.Issue(issuedUser(t))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := issuer.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	subject, role, err := PrincipalFromClaims(claims)
	if err != nil {
		t.Fatalf("principal from claims: %v", err)
	}
	if subject != "user-1" {
		t.Fatalf("expected subject user-1, got %q", subject)
	}
	if role != RoleAdmin {
		t.Fatalf("expected admin role, got %s", role)
	}
	if claims.GetUserEmail() != "ada@example.com" {
		t.Fatalf("expected email claim, got %q", claims.GetUserEmail())
	}
}

func TestTokenVerifyRejectsExpired(t *testing.T) {
	t.Parallel()
	issuedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	minting, err := NewTokenIssuer("unit-test-signing-key", "tablebook", time.Hour, fixedClock(issuedAt))
	if err != nil {
		t.Fatalf("new token issuer: %v", err)
	}
	signed, err := minting.Issue(issuedUser(t))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	later, err := NewTokenIssuer("unit-test-signing-key", "tablebook", time.Hour, fixedClock(issuedAt.Add(2*time.Hour)))
	if err != nil {
		t.Fatalf("new token issuer: %v", err)
	}
	if _, err := later.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired credential, got %v", err)
	}
}

func TestTokenVerifyRejectsWrongKey(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	minting, err := NewTokenIssuer("unit-test-signing-key", "tablebook", time.Hour, fixedClock(now))
	if err != nil {
		t.Fatalf("new token issuer: %v", err)
	}
	signed, err := minting.Issue(issuedUser(t))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other, err := NewTokenIssuer("another-signing-key", "tablebook", time.Hour, fixedClock(now))
	if err != nil {
		t.Fatalf("new token issuer: %v", err)
	}
	if _, err := other.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong key, got %v", err)
	}
}

func TestTokenVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	minting, err := NewTokenIssuer("unit-test-signing-key", "some-other-service", time.Hour, fixedClock(now))
	if err != nil {
		t.Fatalf("new token issuer: %v", err)
	}
	signed, err := minting.Issue(issuedUser(t))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	verifying, err := NewTokenIssuer("unit-test-signing-key", "tablebook", time.Hour, fixedClock(now))
	if err != nil {
		t.Fatalf("new token issuer: %v", err)
	}
	if _, err := verifying.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong issuer, got %v", err)
	}
}

func TestPrincipalFromClaimsRejectsMissingRole(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewTokenIssuer("unit-test-signing-key", "tablebook", time.Hour, fixedClock(now))
	if err != nil {
		t.Fatalf("new token issuer: %v", err)
	}
	user := issuedUser(t)
	user.Role = ""
	signed, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := issuer.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if _, _, err := PrincipalFromClaims(claims); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty role, got %v", err)
	}
}

func TestNewTokenIssuerRequiresKeyAndIssuer(t *testing.T) {
	t.Parallel()
	if _, err := NewTokenIssuer("", "tablebook", time.Hour, nil); !errors.Is(err, ErrInvalidServiceConfig) {
		t.Fatalf("expected ErrInvalidServiceConfig for empty key, got %v", err)
	}
	if _, err := NewTokenIssuer("unit-test-signing-key", "", time.Hour, nil); !errors.Is(err, ErrInvalidServiceConfig) {
		t.Fatalf("expected ErrInvalidServiceConfig for empty issuer, got %v", err)
	}
}
