package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/convergex/campus-events/internal/core/ports"
)

// AdminRequestHandler exposes the admin-request workflow.
type AdminRequestHandler struct {
	service ports.AdminRequestService
}

func NewAdminRequestHandler(service ports.AdminRequestService) *AdminRequestHandler {
	return &AdminRequestHandler{service: service}
}

// Submit files an admin request for the authenticated user.
//
// @Summary      Request admin access
// @Tags         admin-requests
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  messageResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/admin-requests [post]
func (h *AdminRequestHandler) Submit(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if _, err := h.service.Submit(c.Request().Context(), user); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: "request submitted"})
}

// Pending lists all pending admin requests for review.
//
// @Summary      List pending admin requests
// @Tags         admin-requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.PendingAdminRequest
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/admin-requests/pending [get]
func (h *AdminRequestHandler) Pending(c echo.Context) error {
	pending, err := h.service.ListPending(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pending)
}

// Approve approves a pending request, granting the admin role.
//
// @Summary      Approve an admin request
// @Tags         admin-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/admin-requests/{id}/approve [put]
func (h *AdminRequestHandler) Approve(c echo.Context) error {
	if err := h.service.Approve(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "request approved"})
}

// Reject rejects a pending request.
//
// @Summary      Reject an admin request
// @Tags         admin-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/admin-requests/{id}/reject [put]
func (h *AdminRequestHandler) Reject(c echo.Context) error {
	if err := h.service.Reject(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "request rejected"})
}
