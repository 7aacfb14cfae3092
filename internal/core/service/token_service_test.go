package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/convergex/campus-events/internal/core/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:    "64f1c0ffee0000000000aaaa",
		Name:  "Asha Nair",
		Email: "asha@tkmce.ac.in",
		Roles: []domain.Role{domain.RoleUser, domain.RoleAdmin},
	}
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Issue(testUser())
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("unexpected error validating token: %v", err)
	}
	if claims.Subject != "asha@tkmce.ac.in" {
		t.Errorf("expected subject %q, got %q", "asha@tkmce.ac.in", claims.Subject)
	}
	if claims.UserID != "64f1c0ffee0000000000aaaa" {
		t.Errorf("expected user id in claims, got %q", claims.UserID)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "ROLE_USER" {
		t.Errorf("unexpected roles snapshot: %v", claims.Roles)
	}
}

func TestTokenService_Validate_WrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := verifier.Validate(token); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_Validate_Expired(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	now := time.Now().UTC().Add(-2 * time.Hour)
	claims := TokenClaims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "asha@tkmce.ac.in",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Validate(token); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenService_Validate_WrongAlgorithm(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	// alg=none tokens must never pass.
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "asha@tkmce.ac.in"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Validate(token); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestTokenService_Validate_Garbage(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Validate(token); err != domain.ErrInvalidToken {
			t.Errorf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestTokenService_Validate_EmptySubject(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	now := time.Now().UTC()
	claims := TokenClaims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Validate(token); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for missing subject, got %v", err)
	}
}
