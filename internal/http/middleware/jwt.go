package middleware

import (
	"net/http"
	"strings"

	"ecogrow/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	sessionKey = "session"
	userIDKey  = "user_id"
)

// JWT requires a valid, non-revoked bearer token and stores the Session in
// the gin context.
func JWT(sessions *service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := sessions.Current(c.Request.Context(), bearerToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrNotAuthenticated.Error()})
			return
		}
		c.Set(sessionKey, sess)
		c.Set(userIDKey, sess.UserID)
		c.Next()
	}
}

// OptionalJWT attaches a Session when a valid token is present and lets the
// request through either way.
func OptionalJWT(sessions *service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if sess, err := sessions.Current(c.Request.Context(), token); err == nil {
				c.Set(sessionKey, sess)
				c.Set(userIDKey, sess.UserID)
			}
		}
		c.Next()
	}
}

// SessionFrom returns the Session set by JWT, or nil.
func SessionFrom(c *gin.Context) *service.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*service.Session)
	return sess
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
