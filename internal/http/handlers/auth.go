package handlers

import (
	"net/http"

	"ecogrow/internal/service"

	"github.com/gin-gonic/gin"
)

type DevSignInRequest struct {
	FullName string  `json:"full_name"`
	Location *string `json:"location"`
}

// DevSignIn creates a throwaway profile. Only routed in DEV_MODE.
func (h *Handler) DevSignIn(c *gin.Context) {
	var req DevSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	res, err := h.Auth.DevSignIn(c.Request.Context(), req.FullName, req.Location, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) SignOut(c *gin.Context) {
	if err := h.Auth.SignOut(c.Request.Context(), session(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": service.MsgLoggedOut})
}
