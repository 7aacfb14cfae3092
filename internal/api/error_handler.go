package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/convergex/campus-events/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	// Validation
	case errors.Is(err, domain.ErrEmailDomainNotAllowed),
		errors.Is(err, domain.ErrAlreadyAdmin):
		return http.StatusBadRequest, err.Error()

	// Authentication / authorization
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"

	// Conflicts
	case errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrRequestPendingExists),
		errors.Is(err, domain.ErrRequestAlreadyApproved),
		errors.Is(err, domain.ErrRequestExists),
		errors.Is(err, domain.ErrRequestNotPending),
		errors.Is(err, domain.ErrEventAlreadySaved),
		errors.Is(err, domain.ErrAlreadyRegistered),
		errors.Is(err, domain.ErrAlreadyFollowing):
		return http.StatusConflict, err.Error()

	// Not found
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrClubNotFound),
		errors.Is(err, domain.ErrEventNotSaved),
		errors.Is(err, domain.ErrNotFollowing):
		return http.StatusNotFound, err.Error()

	// Seeding invariant violation: fatal, never recoverable by the caller.
	case errors.Is(err, domain.ErrRoleNotSeeded):
		log.Error().Err(err).Msg("role seed invariant violated")
		return http.StatusInternalServerError, "internal server error"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
