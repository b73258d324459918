package middleware

import (
	"net/http"

	"staysphere/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	RoleGuest = "GUEST"
	RoleOwner = "OWNER"
	RoleAdmin = "ADMIN"
)

// RequireRole ensures that the authenticated user has one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" {
			response.Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "role not found in token")
			c.Abort()
			return
		}

		if !allowed[role] {
			response.Fail(c, http.StatusForbidden, "FORBIDDEN", "access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(RoleAdmin)
}

// OwnerOnly lets property owners and admins through.
func OwnerOnly() gin.HandlerFunc {
	return RequireRole(RoleOwner, RoleAdmin)
}
