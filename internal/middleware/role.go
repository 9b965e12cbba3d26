package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photoshare/internal/pkg/access"
	"photoshare/internal/pkg/response"
)

// RequireRoles lets the request through only when the principal's role is in gate.
func RequireRoles(gate access.RoleGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := Principal(c)
		if principal == nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
			c.Abort()
			return
		}

		if !gate.Allows(principal) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Forbidden operation")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRoles(access.Admins)
}
