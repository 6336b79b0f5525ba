package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todecor/internal/checkout"
)

// beginCheckout opens the checkout page: it gates on authentication and a
// non-empty cart, and prefills the form from the saved profile.
func (h *handlers) beginCheckout(c *gin.Context) {
	s := currentSession(c)
	form, err := s.Checkout.Begin(c.Request.Context(), requestToken(c), s.Cart)
	if err != nil {
		h.checkoutError(c, err)
		return
	}
	lines := s.Cart.Lines()
	c.JSON(http.StatusOK, gin.H{
		"state":  s.Checkout.State(),
		"form":   form,
		"items":  lines,
		"totals": h.deps.Pricing.Totals(lines),
	})
}

func (h *handlers) submitCheckout(c *gin.Context) {
	var form checkout.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checkout form"})
		return
	}
	s := currentSession(c)
	order, err := s.Checkout.Submit(c.Request.Context(), requestToken(c), s.Cart, form)
	if err != nil {
		h.checkoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"order":    order,
		"redirect": "/order-confirmation/" + order.ID,
	})
}

// checkoutError maps checkout sentinels onto status codes and the client
// redirects the storefront expects.
func (h *handlers) checkoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":    "not authenticated",
			"redirect": "/auth/login?redirect=/checkout",
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusConflict, gin.H{
			"error":    "cart is empty",
			"redirect": "/produits",
		})
	case errors.Is(err, checkout.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "submission already in progress"})
	case errors.Is(err, checkout.ErrCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "checkout already completed"})
	case errors.Is(err, checkout.ErrInvalidForm):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Printf("checkout: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "order could not be placed"})
	}
}
