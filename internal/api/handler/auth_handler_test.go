package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/convergex/campus-events/internal/core/domain"
	"github.com/convergex/campus-events/internal/core/ports"
)

type stubAuthService struct {
	signupFn func(ctx context.Context, in ports.SignupInput) (*domain.User, error)
	loginFn  func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signupFn: func(_ context.Context, in ports.SignupInput) (*domain.User, error) {
			if in.Email != "asha@tkmce.ac.in" || in.Name != "Asha Nair" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "u1", Email: in.Email, Name: in.Name, Roles: []domain.Role{domain.RoleUser}}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := postJSON(e, "/api/auth/signup", `{"name":"Asha Nair","email":"asha@tkmce.ac.in","password":"s3cretpass"}`)
	if err := handler.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message == "" {
		t.Fatal("expected message in response")
	}
}

// Domain errors pass through untouched so the central error handler can map
// them to status codes.
func TestAuthHandler_Signup_PropagatesDomainErrors(t *testing.T) {
	e := newTestEcho()

	for _, want := range []error{domain.ErrEmailDomainNotAllowed, domain.ErrUserExists} {
		stub := &stubAuthService{
			signupFn: func(context.Context, ports.SignupInput) (*domain.User, error) {
				return nil, want
			},
		}
		c, _ := postJSON(e, "/api/auth/signup", `{"name":"Asha","email":"asha@tkmce.ac.in","password":"s3cretpass"}`)
		if err := NewAuthHandler(stub).Signup(c); err != want {
			t.Errorf("expected %v to propagate, got %v", want, err)
		}
	}
}

func TestAuthHandler_Signup_ValidationFailure(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		signupFn: func(context.Context, ports.SignupInput) (*domain.User, error) {
			t.Fatal("service must not be called on invalid payload")
			return nil, nil
		},
	})

	for _, body := range []string{
		`{"email":"asha@tkmce.ac.in","password":"s3cretpass"}`,
		`{"name":"Asha","email":"not-an-email","password":"s3cretpass"}`,
		`{"name":"Asha","email":"asha@tkmce.ac.in","password":"tiny"}`,
	} {
		c, _ := postJSON(e, "/api/auth/signup", body)
		err := handler.Signup(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusUnprocessableEntity {
			t.Errorf("body %s: expected 422, got %v", body, err)
		}
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			if email != "asha@tkmce.ac.in" || password != "s3cretpass" {
				t.Fatalf("unexpected credentials %q %q", email, password)
			}
			return "signed-token", &domain.User{
				ID:    "u1",
				Email: email,
				Name:  "Asha Nair",
				Roles: []domain.Role{domain.RoleUser},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := postJSON(e, "/api/auth/login", `{"email":"asha@tkmce.ac.in","password":"s3cretpass"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "signed-token" || resp.Email != "asha@tkmce.ac.in" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(resp.Roles) != 1 || resp.Roles[0] != domain.RoleUser {
		t.Fatalf("unexpected roles: %v", resp.Roles)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := postJSON(e, "/api/auth/login", `{"email":"asha@tkmce.ac.in","password":"wrong"}`)
	if err := handler.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_Login_MalformedBody(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := postJSON(e, "/api/auth/login", `{"email":`)
	err := handler.Login(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
