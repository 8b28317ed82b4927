package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	me, err := h.Profiles.Me(c.Request.Context(), session(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, me)
}

type UpdateProfileRequest struct {
	FullName string  `json:"full_name"`
	Location *string `json:"location"`
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	p, err := h.Profiles.UpdateProfile(c.Request.Context(), session(c), req.FullName, req.Location)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}
