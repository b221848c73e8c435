package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"example.com/giradamata/services/admin/internal/models"
	"example.com/giradamata/services/admin/internal/service"
)

// EventsHandler handles event HTTP requests
type EventsHandler struct {
	events        *service.EventService
	registrations *service.RegistrationService
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(events *service.EventService, registrations *service.RegistrationService) *EventsHandler {
	return &EventsHandler{events: events, registrations: registrations}
}

// EventRequest is the payload for creating or updating an event
type EventRequest struct {
	Name       string     `json:"name" binding:"required"`
	Date       time.Time  `json:"date" binding:"required"`
	Location   string     `json:"location"`
	SitePrice  float64    `json:"sitePrice"`
	BusPrice   float64    `json:"busPrice"`
	PixKey     string     `json:"pixKey"`
	Deadline   *time.Time `json:"deadline"`
	IsArchived bool       `json:"isArchived"`
}

// List returns all active events
func (h *EventsHandler) List(c *gin.Context) {
	events, err := h.events.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// Create creates an event
func (h *EventsHandler) Create(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := &models.Event{
		Name:       req.Name,
		Date:       req.Date,
		Location:   req.Location,
		SitePrice:  req.SitePrice,
		BusPrice:   req.BusPrice,
		PixKey:     req.PixKey,
		Deadline:   req.Deadline,
		IsArchived: req.IsArchived,
	}

	created, err := h.events.Create(c.Request.Context(), event, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update rewrites an event, including its archived flag
func (h *EventsHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.events.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	event.Name = req.Name
	event.Date = req.Date
	event.Location = req.Location
	event.SitePrice = req.SitePrice
	event.BusPrice = req.BusPrice
	event.PixKey = req.PixKey
	event.Deadline = req.Deadline
	event.IsArchived = req.IsArchived

	updated, err := h.events.Update(c.Request.Context(), event, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete soft-deletes an event
func (h *EventsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.events.Delete(c.Request.Context(), id, actorFrom(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Registrations lists the active registrations of an event for listing and
// reports
func (h *EventsHandler) Registrations(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	registrations, err := h.registrations.FindByEvent(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, registrations)
}

// RegistrationCount returns the active registration count of an event, used
// to warn the operator before a destructive deletion
func (h *EventsHandler) RegistrationCount(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	count, err := h.events.RegistrationCount(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
