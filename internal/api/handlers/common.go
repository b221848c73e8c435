package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/giradamata/services/admin/internal/repository"
	"example.com/giradamata/services/admin/internal/service"
)

// ActorHeader and LocationHeader carry best-effort attribution from the
// front end. Neither is authoritative.
const (
	ActorHeader    = "X-Actor"
	LocationHeader = "X-Location-Info"
)

// actorFrom builds the attribution context of a request
func actorFrom(c *gin.Context) service.ActorContext {
	return service.ActorContext{
		Actor:        c.GetHeader(ActorHeader),
		IPAddress:    c.ClientIP(),
		LocationInfo: c.GetHeader(LocationHeader),
	}
}

// parseID parses the :id path parameter, writing a 400 on failure
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps domain errors onto HTTP responses. Precondition failures
// get precise statuses; everything else is a generic 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, repository.ErrPersonInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "person has active registrations"})
	case errors.Is(err, service.ErrInvalidCredential):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credential"})
	case errors.Is(err, service.ErrAlreadyUndone):
		c.JSON(http.StatusConflict, gin.H{"error": "action already undone"})
	case errors.Is(err, service.ErrNotUndoable):
		c.JSON(http.StatusConflict, gin.H{"error": "action cannot be undone"})
	case errors.Is(err, service.ErrSearchUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit search is not available"})
	default:
		log.Error().Err(err).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
