package handlers

import (
	"net/http"

	"ecogrow/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.Orders.ListItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req service.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	res, err := h.Orders.PlaceOrder(c.Request.Context(), session(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) MyOrders(c *gin.Context) {
	orders, err := h.Orders.ListMyOrders(c.Request.Context(), session(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
