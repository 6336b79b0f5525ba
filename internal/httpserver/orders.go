package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todecor/internal/domain"
)

// listOrders returns the authenticated user's order history.
func (h *handlers) listOrders(c *gin.Context) {
	user, err := h.deps.Identity.Current(c.Request.Context(), requestToken(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	orders, err := h.deps.Orders.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Printf("list orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list orders"})
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// getOrder loads one order scoped to the authenticated user; other users'
// orders come back as 404, never 403.
func (h *handlers) getOrder(c *gin.Context) {
	user, err := h.deps.Identity.Current(c.Request.Context(), requestToken(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	order, err := h.deps.Orders.GetForUser(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		h.logger.Printf("get order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
