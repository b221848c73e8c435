package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"example.com/giradamata/services/admin/internal/models"
	"example.com/giradamata/services/admin/internal/service"
)

// RegistrationsHandler handles registration HTTP requests
type RegistrationsHandler struct {
	registrations *service.RegistrationService
}

// NewRegistrationsHandler creates a new registrations handler
func NewRegistrationsHandler(registrations *service.RegistrationService) *RegistrationsHandler {
	return &RegistrationsHandler{registrations: registrations}
}

// RegistrationRequest is the payload for creating or updating a registration
type RegistrationRequest struct {
	EventID       uuid.UUID          `json:"eventId" binding:"required"`
	PersonID      uuid.UUID          `json:"personId" binding:"required"`
	PackageType   models.PackageType `json:"packageType" binding:"required"`
	Payment       models.Payment     `json:"payment"`
	BusAssignment *string            `json:"busAssignment"`
	Notes         string             `json:"notes"`
}

// Create registers a person to an event
func (h *RegistrationsHandler) Create(c *gin.Context) {
	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	registration := &models.Registration{
		EventID:       req.EventID,
		PersonID:      req.PersonID,
		PackageType:   req.PackageType,
		Payment:       req.Payment,
		BusAssignment: req.BusAssignment,
		Notes:         req.Notes,
	}

	created, err := h.registrations.Create(c.Request.Context(), registration, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update rewrites a registration, including its payment value
func (h *RegistrationsHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	registration, err := h.registrations.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	registration.EventID = req.EventID
	registration.PersonID = req.PersonID
	registration.PackageType = req.PackageType
	registration.Payment = req.Payment
	registration.BusAssignment = req.BusAssignment
	registration.Notes = req.Notes

	updated, err := h.registrations.Update(c.Request.Context(), registration, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete soft-deletes a registration
func (h *RegistrationsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.registrations.Delete(c.Request.Context(), id, actorFrom(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ToggleExemption flips a registration's payment between EXEMPT and PENDING
func (h *RegistrationsHandler) ToggleExemption(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	updated, err := h.registrations.ToggleExemption(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
