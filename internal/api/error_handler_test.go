package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/convergex/campus-events/internal/core/domain"
)

func render(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error envelope: %v", err)
	}
	return rec.Code, resp.Error
}

func TestHTTPErrorHandler_DomainMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrEmailDomainNotAllowed, http.StatusBadRequest},
		{domain.ErrAlreadyAdmin, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrInvalidToken, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrRequestPendingExists, http.StatusConflict},
		{domain.ErrRequestAlreadyApproved, http.StatusConflict},
		{domain.ErrRequestExists, http.StatusConflict},
		{domain.ErrRequestNotPending, http.StatusConflict},
		{domain.ErrEventAlreadySaved, http.StatusConflict},
		{domain.ErrAlreadyRegistered, http.StatusConflict},
		{domain.ErrAlreadyFollowing, http.StatusConflict},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrRequestNotFound, http.StatusNotFound},
		{domain.ErrEventNotFound, http.StatusNotFound},
		{domain.ErrClubNotFound, http.StatusNotFound},
		{domain.ErrEventNotSaved, http.StatusNotFound},
		{domain.ErrNotFollowing, http.StatusNotFound},
		{domain.ErrRoleNotSeeded, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		code, _ := render(t, tc.err)
		if code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
	}
}

func TestHTTPErrorHandler_WrappedDomainError(t *testing.T) {
	code, _ := render(t, fmt.Errorf("approve request: %w", domain.ErrRequestNotPending))
	if code != http.StatusConflict {
		t.Fatalf("expected wrapped sentinel to map to 409, got %d", code)
	}
}

func TestHTTPErrorHandler_EchoHTTPErrorPassthrough(t *testing.T) {
	code, msg := render(t, echo.NewHTTPError(http.StatusUnprocessableEntity, "field required"))
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	if msg != "field required" {
		t.Fatalf("unexpected message %q", msg)
	}
}

// Auth failures must not reveal whether the account exists.
func TestHTTPErrorHandler_CredentialMessagesAreOpaque(t *testing.T) {
	for _, err := range []error{domain.ErrInvalidCredentials, domain.ErrInvalidToken} {
		_, msg := render(t, err)
		if msg != "invalid credentials" {
			t.Errorf("%v: expected opaque message, got %q", err, msg)
		}
	}
}

func TestHTTPErrorHandler_UnexpectedErrorIsGeneric(t *testing.T) {
	code, msg := render(t, errors.New("mongo: socket was unexpectedly closed"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if strings.Contains(msg, "mongo") {
		t.Fatalf("internal details leaked: %q", msg)
	}
}
