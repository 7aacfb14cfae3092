package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/convergex/campus-events/internal/core/ports"
)

// FollowHandler handles club follow/unfollow.
type FollowHandler struct {
	follows ports.FollowService
}

func NewFollowHandler(follows ports.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// Follow subscribes the caller to a club.
//
// @Summary      Follow a club
// @Tags         follows
// @Produce      json
// @Security     BearerAuth
// @Param        clubId  path      string  true  "Club ID"
// @Success      200     {object}  messageResponse
// @Failure      404     {object}  map[string]string
// @Failure      409     {object}  map[string]string
// @Router       /api/follow/{clubId} [post]
func (h *FollowHandler) Follow(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.follows.Follow(c.Request().Context(), user.ID, c.Param("clubId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "club followed"})
}

// Unfollow unsubscribes the caller from a club.
//
// @Summary      Unfollow a club
// @Tags         follows
// @Produce      json
// @Security     BearerAuth
// @Param        clubId  path      string  true  "Club ID"
// @Success      200     {object}  messageResponse
// @Failure      404     {object}  map[string]string
// @Router       /api/follow/{clubId} [delete]
func (h *FollowHandler) Unfollow(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.follows.Unfollow(c.Request().Context(), user.ID, c.Param("clubId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "club unfollowed"})
}
