package middleware

import (
	"context"
	"net/http"

	"ecogrow/internal/domain"

	"github.com/gin-gonic/gin"
)

// RoleChecker answers false on lookup errors.
type RoleChecker interface {
	CheckRole(ctx context.Context, userID string, role domain.Role) bool
}

// RequireRole must run after JWT. Anything but a confirmed grant is a 403.
func RequireRole(checker RoleChecker, role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		if sess == nil || !checker.CheckRole(c.Request.Context(), sess.UserID, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
