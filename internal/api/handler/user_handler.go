package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/convergex/campus-events/internal/core/ports"
)

// UserHandler handles the caller's own profile and inbox.
type UserHandler struct {
	users  ports.UserService
	events ports.EventService
}

func NewUserHandler(users ports.UserService, events ports.EventService) *UserHandler {
	return &UserHandler{users: users, events: events}
}

type profileUpdateRequest struct {
	Name        string   `json:"name"          validate:"required,max=50"`
	PhoneNumber string   `json:"phone_number"  validate:"max=20"`
	Department  string   `json:"department"    validate:"max=100"`
	YearOfStudy string   `json:"year_of_study" validate:"max=20"`
	Interests   []string `json:"interests"     validate:"max=20,dive,max=50"`
}

// Me returns the caller's profile.
//
// @Summary      Get my profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe updates the caller's editable profile fields.
//
// @Summary      Update my profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileUpdateRequest  true  "Profile fields"
// @Success      200   {object}  domain.User
// @Failure      422   {object}  map[string]string
// @Router       /api/users/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req profileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	updated, err := h.users.UpdateProfile(c.Request().Context(), user, ports.ProfileUpdateInput{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Department:  req.Department,
		YearOfStudy: req.YearOfStudy,
		Interests:   req.Interests,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// MyPostedEvents lists the events the caller posted with registration counts.
//
// @Summary      List my posted events with stats
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.EventStats
// @Failure      403  {object}  map[string]string
// @Router       /api/users/me/my-events [get]
func (h *UserHandler) MyPostedEvents(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	stats, err := h.events.MyPostedEvents(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Notifications lists the caller's notifications, newest first.
//
// @Summary      List my notifications
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Notification
// @Router       /api/users/me/notifications [get]
func (h *UserHandler) Notifications(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	notifications, err := h.users.Notifications(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notifications)
}
