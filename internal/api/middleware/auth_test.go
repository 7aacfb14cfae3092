package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/convergex/campus-events/internal/core/domain"
	"github.com/convergex/campus-events/internal/core/service"
)

type stubUserRepo struct {
	byEmail map[string]*domain.User
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	return u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByID(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *stubUserRepo) UpdateProfile(context.Context, *domain.User) error { return nil }

func fixture(t *testing.T) (*service.TokenService, *stubUserRepo, *domain.User) {
	t.Helper()
	tokens := service.NewTokenService("test-secret", time.Hour)
	user := &domain.User{
		ID:    "u1",
		Name:  "Asha Nair",
		Email: "asha@tkmce.ac.in",
		Roles: []domain.Role{domain.RoleUser},
	}
	repo := &stubUserRepo{byEmail: map[string]*domain.User{user.Email: user}}
	return tokens, repo, user
}

func runAuthenticate(t *testing.T, tokens *service.TokenService, repo *stubUserRepo, authHeader string) (echo.Context, *domain.User, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var (
		got    *domain.User
		gotOK  bool
		called bool
	)
	handler := Authenticate(tokens, repo)(func(c echo.Context) error {
		called = true
		got, gotOK = Identity(c)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("next was not called")
	}
	return c, got, gotOK
}

func TestAuthenticate_ValidToken(t *testing.T) {
	tokens, repo, user := fixture(t)
	signed, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	_, got, ok := runAuthenticate(t, tokens, repo, "Bearer "+signed)
	if !ok {
		t.Fatal("expected identity to be attached")
	}
	if got.Email != user.Email {
		t.Errorf("expected %q, got %q", user.Email, got.Email)
	}
}

func TestAuthenticate_ReloadsLiveRoles(t *testing.T) {
	tokens, repo, user := fixture(t)
	signed, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	// Role granted after token issuance must show up on the next request.
	repo.byEmail[user.Email].Roles = []domain.Role{domain.RoleUser, domain.RoleAdmin}

	_, got, ok := runAuthenticate(t, tokens, repo, "Bearer "+signed)
	if !ok {
		t.Fatal("expected identity to be attached")
	}
	if !got.HasRole(domain.RoleAdmin) {
		t.Error("live role set must include the new grant")
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	tokens, repo, _ := fixture(t)

	_, _, ok := runAuthenticate(t, tokens, repo, "")
	if ok {
		t.Fatal("expected no identity without a token")
	}
}

func TestAuthenticate_MalformedHeaders(t *testing.T) {
	tokens, repo, user := fixture(t)
	signed, _ := tokens.Issue(user)

	for _, header := range []string{
		"Bearer",
		"Bearer ",
		"Token " + signed,
		signed,
	} {
		if _, _, ok := runAuthenticate(t, tokens, repo, header); ok {
			t.Errorf("header %q: expected no identity", header)
		}
	}
}

func TestAuthenticate_TamperedToken(t *testing.T) {
	tokens, repo, user := fixture(t)
	other := service.NewTokenService("other-secret", time.Hour)
	signed, _ := other.Issue(user)

	if _, _, ok := runAuthenticate(t, tokens, repo, "Bearer "+signed); ok {
		t.Fatal("expected no identity for a tampered token")
	}
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	tokens, repo, user := fixture(t)
	signed, _ := tokens.Issue(user)
	delete(repo.byEmail, user.Email)

	if _, _, ok := runAuthenticate(t, tokens, repo, "Bearer "+signed); ok {
		t.Fatal("expected no identity when the subject no longer exists")
	}
}

func TestAuthenticate_CaseInsensitiveScheme(t *testing.T) {
	tokens, repo, user := fixture(t)
	signed, _ := tokens.Issue(user)

	_, _, ok := runAuthenticate(t, tokens, repo, "bearer "+signed)
	if !ok {
		t.Fatal("scheme match must be case-insensitive")
	}
}
