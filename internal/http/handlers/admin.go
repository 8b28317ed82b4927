package handlers

import (
	"net/http"
	"strconv"

	"ecogrow/internal/domain"
	"ecogrow/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListOrders supports ?status=all|pending|approved|on the way|delivered|cancelled.
func (h *Handler) AdminListOrders(c *gin.Context) {
	listing, err := h.Admin.ListOrders(c.Request.Context(), c.Query("status"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	o, err := h.Admin.UpdateOrderStatus(c.Request.Context(), session(c), c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order":   o,
		"message": service.MsgStatusUpdated + string(o.Status),
	})
}

func (h *Handler) AdminListItems(c *gin.Context) {
	items, err := h.Admin.ListItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load marketplace items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) AdminCreateItem(c *gin.Context) {
	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// a malformed price is still "fields not filled correctly"
		fail(c, service.ErrInvalidItem)
		return
	}

	item, err := h.Admin.CreateItem(c.Request.Context(), session(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item, "message": service.MsgItemCreated})
}

func (h *Handler) AdminDeleteItem(c *gin.Context) {
	if err := h.Admin.DeleteItem(c.Request.Context(), session(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": service.MsgItemDeleted})
}

func (h *Handler) AdminListUsers(c *gin.Context) {
	users, err := h.Admin.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) AdminToggleAdmin(c *gin.Context) {
	isAdmin, err := h.Admin.ToggleAdmin(c.Request.Context(), session(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update admin role"})
		return
	}
	msg := service.MsgAdminRevoked
	if isAdmin {
		msg = service.MsgAdminGranted
	}
	c.JSON(http.StatusOK, gin.H{"user_id": c.Param("id"), "is_admin": isAdmin, "message": msg})
}

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// AdminAuditLogs returns recent audit entries, optionally for one user.
func (h *Handler) AdminAuditLogs(c *gin.Context) {
	limit := defaultAuditLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			badRequest(c)
			return
		}
		limit = min(n, maxAuditLimit)
	}

	ctx := c.Request.Context()
	var (
		logs []*domain.AuditLog
		err  error
	)
	if userID := c.Query("user_id"); userID != "" {
		logs, err = h.Audit.GetUserAuditLogs(ctx, userID, limit)
	} else {
		logs, err = h.Audit.GetRecentLogs(ctx, limit)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
