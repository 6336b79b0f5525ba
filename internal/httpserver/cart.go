package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todecor/internal/cart"
	"todecor/internal/domain"
	"todecor/internal/pricing"
)

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// Quantity is a pointer so an explicit zero (remove the line) survives the
// required binding.
type updateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type cartResponse struct {
	Items []cart.Line `json:"items"`
	pricing.Totals
}

func (h *handlers) cartJSON(c *gin.Context, status int, s *Session) {
	lines := s.Cart.Lines()
	c.JSON(status, cartResponse{Items: lines, Totals: h.deps.Pricing.Totals(lines)})
}

func (h *handlers) getCart(c *gin.Context) {
	h.cartJSON(c, http.StatusOK, currentSession(c))
}

// addCartItem snapshots the product's current price, name and image into a
// cart line. Quantity defaults to 1; lines sharing product and size merge.
func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	product, err := h.deps.Products.GetByID(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Printf("add cart item: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add item"})
		return
	}

	s := currentSession(c)
	s.Cart.Add(cart.Line{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  req.Quantity,
		Size:      req.Size,
		Color:     req.Color,
		ImageURL:  product.ImageURL,
	})
	h.cartJSON(c, http.StatusCreated, s)
}

func (h *handlers) updateCartItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}
	s := currentSession(c)
	s.Cart.SetQuantity(c.Param("id"), *req.Quantity)
	h.cartJSON(c, http.StatusOK, s)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	s := currentSession(c)
	s.Cart.Remove(c.Param("id"))
	h.cartJSON(c, http.StatusOK, s)
}

func (h *handlers) clearCart(c *gin.Context) {
	s := currentSession(c)
	s.Cart.Clear()
	h.cartJSON(c, http.StatusOK, s)
}
