package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/giradamata/services/admin/internal/auth"
)

// AdminSecretHeader carries the shared administrative secret on protected
// requests
const AdminSecretHeader = "X-Admin-Secret"

// RequireSecret gates protected routes on the shared administrative secret.
// There is no per-user identity behind it.
func RequireSecret(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := c.GetHeader(AdminSecretHeader)
		if secret == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing admin secret"})
			c.Abort()
			return
		}
		if !gate.Confirm(secret) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid admin secret"})
			c.Abort()
			return
		}
		c.Next()
	}
}
