package handlers

import (
	"net/http"

	"ecogrow/internal/domain"
	"ecogrow/internal/shell"

	"github.com/gin-gonic/gin"
)

// Navigation resolves ?view= for the caller. The token is optional.
func (h *Handler) Navigation(c *gin.Context) {
	state := shell.State{Requested: shell.View(c.Query("view"))}
	if sess := session(c); sess != nil {
		state.Authenticated = true
		ctx := c.Request.Context()
		if _, err := h.Profiles.LoadProfile(ctx, sess.UserID); err == nil {
			state.HasProfile = true
			state.IsAdmin = h.Profiles.CheckRole(ctx, sess.UserID, domain.RoleAdmin)
		}
	}

	resp := gin.H{"view": shell.Resolve(state)}
	if state.Authenticated && state.HasProfile {
		resp["menu"] = shell.Menu(state.IsAdmin)
	} else {
		resp["menu"] = []shell.MenuItem{}
	}
	c.JSON(http.StatusOK, resp)
}
