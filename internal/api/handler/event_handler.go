package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/convergex/campus-events/internal/core/ports"
)

// EventHandler handles club event CRUD and the per-user save/register actions.
type EventHandler struct {
	events ports.EventService
}

func NewEventHandler(events ports.EventService) *EventHandler {
	return &EventHandler{events: events}
}

type eventRequest struct {
	Title       string   `json:"title"       validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	EventDate   string   `json:"event_date"  validate:"required"`
	EventTime   string   `json:"event_time"  validate:"required"`
	Location    string   `json:"location"    validate:"required,max=200"`
	ClubName    string   `json:"club_name"   validate:"required,max=100"`
	ImageURLs   []string `json:"image_urls"  validate:"dive,url"`
}

func (r eventRequest) toInput() ports.CreateEventInput {
	return ports.CreateEventInput{
		Title:       r.Title,
		Description: r.Description,
		EventDate:   r.EventDate,
		EventTime:   r.EventTime,
		Location:    r.Location,
		ClubName:    r.ClubName,
		ImageURLs:   r.ImageURLs,
	}
}

// List returns all events annotated for the caller.
//
// @Summary      List all events
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.EventDetails
// @Router       /api/events [get]
func (h *EventHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	details, err := h.events.List(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

// Feed returns only the events of clubs the caller follows.
//
// @Summary      Followed-clubs event feed
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.EventDetails
// @Router       /api/events/feed [get]
func (h *EventHandler) Feed(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	details, err := h.events.Feed(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

// Get returns a single event annotated for the caller.
//
// @Summary      Get an event by id
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  ports.EventDetails
// @Failure      404  {object}  map[string]string
// @Router       /api/events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	details, err := h.events.Get(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

// Search finds events by title. Public, no auth required.
//
// @Summary      Search events by title
// @Tags         events
// @Produce      json
// @Param        q    query    string  true  "Title query"
// @Success      200  {array}  domain.Event
// @Router       /api/events/search [get]
func (h *EventHandler) Search(c echo.Context) error {
	events, err := h.events.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// Create posts a new event under the caller's club.
//
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      eventRequest  true  "Event details"
// @Success      201   {object}  domain.Event
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/events [post]
func (h *EventHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	event, err := h.events.Create(c.Request().Context(), user, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, event)
}

// Update edits an event (owner or super admin).
//
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Event ID"
// @Param        body  body      eventRequest  true  "Event details"
// @Success      200   {object}  domain.Event
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	event, err := h.events.Update(c.Request().Context(), user, c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

// Delete removes an event (owner or super admin).
//
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.events.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "event deleted"})
}

// Save bookmarks an event for the caller.
//
// @Summary      Save an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/events/{id}/save [post]
func (h *EventHandler) Save(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.events.Save(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "event saved"})
}

// Unsave removes a bookmark.
//
// @Summary      Unsave an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/events/{id}/unsave [delete]
func (h *EventHandler) Unsave(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.events.Unsave(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "event unsaved"})
}

// Saved lists the caller's bookmarked events.
//
// @Summary      List saved events
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Event
// @Router       /api/events/saved [get]
func (h *EventHandler) Saved(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	events, err := h.events.SavedEvents(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// Register registers the caller for an event.
//
// @Summary      Register for an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/events/{id}/register [post]
func (h *EventHandler) Register(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.events.Register(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "registered for event"})
}

// MyRegisteredEvents lists the events the caller registered for.
//
// @Summary      List my registered events
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Event
// @Router       /api/registrations/my-events [get]
func (h *EventHandler) MyRegisteredEvents(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	events, err := h.events.RegisteredEvents(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}
