package httpserver

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"todecor/internal/domain"
	"todecor/internal/invoice"
)

type productRequest struct {
	Name          string          `json:"name" binding:"required"`
	Slug          string          `json:"slug" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category" binding:"required"`
	Material      string          `json:"material"`
	Color         string          `json:"color"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      string          `json:"image_url"`
	GalleryURLs   []string        `json:"gallery_urls"`
	SizeOptions   []string        `json:"size_options"`
	IsPopular     bool            `json:"is_popular"`
}

func (r productRequest) toDomain(id string) domain.Product {
	return domain.Product{
		ID:            id,
		Name:          r.Name,
		Slug:          r.Slug,
		Description:   r.Description,
		Price:         r.Price,
		Category:      r.Category,
		Material:      r.Material,
		Color:         r.Color,
		StockQuantity: r.StockQuantity,
		ImageURL:      r.ImageURL,
		GalleryURLs:   r.GalleryURLs,
		SizeOptions:   r.SizeOptions,
		IsPopular:     r.IsPopular,
	}
}

func (h *handlers) adminCreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, slug and category are required"})
		return
	}
	product, err := h.deps.Products.Create(c.Request.Context(), req.toDomain(""))
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "a product with this slug already exists"})
			return
		}
		h.logger.Printf("create product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create product"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

func (h *handlers) adminUpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, slug and category are required"})
		return
	}
	product, err := h.deps.Products.Update(c.Request.Context(), req.toDomain(c.Param("id")))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Printf("update product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *handlers) adminDeleteProduct(c *gin.Context) {
	if err := h.deps.Products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Printf("delete product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete product"})
		return
	}
	c.Status(http.StatusNoContent)
}

// adminUpload stores a product image and returns its public URL.
func (h *handlers) adminUpload(c *gin.Context) {
	if h.deps.Objects == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "uploads not configured"})
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := header.Open()
	if err != nil {
		h.logger.Printf("upload: open %q: %v", header.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		h.logger.Printf("upload: read %q: %v", header.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
		return
	}
	url, err := h.deps.Objects.Upload(c.Request.Context(), "products", filepath.Base(header.Filename), data)
	if err != nil {
		h.logger.Printf("upload: store %q: %v", header.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store upload"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

func (h *handlers) adminListOrders(c *gin.Context) {
	orders, err := h.deps.Orders.List(c.Request.Context())
	if err != nil {
		h.logger.Printf("admin list orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list orders"})
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

var orderStatuses = map[string]bool{
	domain.OrderStatusPending:   true,
	domain.OrderStatusConfirmed: true,
	domain.OrderStatusShipped:   true,
	domain.OrderStatusDelivered: true,
	domain.OrderStatusCancelled: true,
}

func (h *handlers) adminUpdateOrderStatus(c *gin.Context) {
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !orderStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown order status"})
		return
	}
	if err := h.deps.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		h.logger.Printf("update order status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// adminOrderInvoice renders the printable invoice for an order. Product names
// are looked up live; a product deleted since the order falls back to its id.
func (h *handlers) adminOrderInvoice(c *gin.Context) {
	ctx := c.Request.Context()
	order, err := h.deps.Orders.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		h.logger.Printf("invoice: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load order"})
		return
	}

	names := make(map[string]string, len(order.Lines))
	for _, l := range order.Lines {
		if p, err := h.deps.Products.GetByID(ctx, l.ProductID); err == nil {
			names[l.ProductID] = p.Name
		}
	}

	company := invoice.Company{Name: "ToDecor"}
	currency := "DT"
	if s, err := h.deps.Settings.Get(ctx); err == nil {
		company = invoice.Company{
			Name:    s.SiteName,
			Address: s.Address,
			Phone:   s.Phone,
			Email:   s.Email,
		}
		if s.Currency != "" {
			currency = s.Currency
		}
	}

	html, err := invoice.Render(*order, names, company, currency)
	if err != nil {
		h.logger.Printf("invoice render: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render invoice"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *handlers) adminUpdateSettings(c *gin.Context) {
	var req domain.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
		return
	}
	settings, err := h.deps.Settings.Update(c.Request.Context(), req)
	if err != nil {
		h.logger.Printf("update settings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *handlers) adminListMessages(c *gin.Context) {
	messages, err := h.deps.Messages.List(c.Request.Context())
	if err != nil {
		h.logger.Printf("list messages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list messages"})
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *handlers) adminMarkMessageRead(c *gin.Context) {
	if err := h.deps.Messages.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		h.logger.Printf("mark message read: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update message"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) adminListTestimonials(c *gin.Context) {
	testimonials, err := h.deps.Testimonials.List(c.Request.Context())
	if err != nil {
		h.logger.Printf("admin list testimonials: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list testimonials"})
		return
	}
	if testimonials == nil {
		testimonials = []domain.Testimonial{}
	}
	c.JSON(http.StatusOK, gin.H{"testimonials": testimonials})
}

func (h *handlers) adminApproveTestimonial(c *gin.Context) {
	if err := h.deps.Testimonials.Approve(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "testimonial not found"})
			return
		}
		h.logger.Printf("approve testimonial: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not approve testimonial"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) adminDeleteTestimonial(c *gin.Context) {
	if err := h.deps.Testimonials.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "testimonial not found"})
			return
		}
		h.logger.Printf("delete testimonial: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete testimonial"})
		return
	}
	c.Status(http.StatusNoContent)
}
