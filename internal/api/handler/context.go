package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/convergex/campus-events/internal/api/middleware"
	"github.com/convergex/campus-events/internal/core/domain"
)

// currentUser extracts the identity attached by the Authenticate middleware.
// Handlers behind a role gate can assume it is present; the 401 here is a
// fast-fail guard for miswired routes, not a second authorization layer.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.Identity(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return user, nil
}
