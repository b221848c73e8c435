package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"example.com/giradamata/services/admin/internal/service"
)

// RecoveryHandler handles payment-drift recovery HTTP requests
type RecoveryHandler struct {
	recovery *service.RecoveryService
}

// NewRecoveryHandler creates a new recovery handler
func NewRecoveryHandler(recovery *service.RecoveryService) *RecoveryHandler {
	return &RecoveryHandler{recovery: recovery}
}

// Scan returns the deduplicated candidate list for operator selection
func (h *RecoveryHandler) Scan(c *gin.Context) {
	candidates, err := h.recovery.Scan(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

// RestoreRequest selects the registrations to correct
type RestoreRequest struct {
	RegistrationIDs []uuid.UUID `json:"registrationIds" binding:"required"`
}

// Restore corrects the selected registrations back to PAID. Partial failure
// is reported as such: each registration's correction is independent.
func (h *RecoveryHandler) Restore(c *gin.Context) {
	var req RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.recovery.Restore(c.Request.Context(), req.RegistrationIDs, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusOK
	if len(result.Failed) > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, result)
}
