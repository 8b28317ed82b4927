package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetLeaderboard returns every profile by balance. Load failures are logged
// by the service and show up here as an empty list.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"leaderboard": h.Leaderboard.Leaderboard(c.Request.Context()),
	})
}

// GetMyRank returns the caller's rank; rank is null when it could not be
// computed.
func (h *Handler) GetMyRank(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"rank": h.Leaderboard.Rank(c.Request.Context(), session(c).UserID),
	})
}
