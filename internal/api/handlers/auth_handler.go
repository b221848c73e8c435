package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/giradamata/services/admin/internal/auth"
)

// AuthHandler handles session login against the shared secret
type AuthHandler struct {
	gate *auth.Gate
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(gate *auth.Gate) *AuthHandler {
	return &AuthHandler{gate: gate}
}

// LoginRequest carries the shared secret
type LoginRequest struct {
	Secret string `json:"secret" binding:"required"`
}

// Login validates the shared secret and opens the session
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.gate.Login(req.Secret) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
