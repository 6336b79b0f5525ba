package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todecor/internal/domain"
	productrepo "todecor/internal/repository/product"
)

func (h *handlers) listProducts(c *gin.Context) {
	filter := productrepo.ListFilter{
		Category:    c.Query("category"),
		PopularOnly: c.Query("popular") == "true",
	}
	products, err := h.deps.Products.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Printf("list products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list products"})
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *handlers) getProduct(c *gin.Context) {
	product, err := h.deps.Products.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Printf("get product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *handlers) getSettings(c *gin.Context) {
	settings, err := h.deps.Settings.Get(c.Request.Context())
	if err != nil {
		h.logger.Printf("get settings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

type messageRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

func (h *handlers) createMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and message are required"})
		return
	}
	msg, err := h.deps.Messages.Create(c.Request.Context(), domain.Message{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   req.Phone,
		Subject: req.Subject,
		Body:    req.Message,
	})
	if err != nil {
		h.logger.Printf("create message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send message"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

func (h *handlers) listTestimonials(c *gin.Context) {
	testimonials, err := h.deps.Testimonials.ListApproved(c.Request.Context())
	if err != nil {
		h.logger.Printf("list testimonials: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list testimonials"})
		return
	}
	if testimonials == nil {
		testimonials = []domain.Testimonial{}
	}
	c.JSON(http.StatusOK, gin.H{"testimonials": testimonials})
}

type testimonialRequest struct {
	Author string `json:"author" binding:"required"`
	Body   string `json:"body" binding:"required"`
	Rating int    `json:"rating" binding:"required"`
}

// createTestimonial stores the review unapproved; it shows up publicly only
// after an admin approves it.
func (h *handlers) createTestimonial(c *gin.Context) {
	var req testimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "author, body and rating are required"})
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
		return
	}
	testimonial, err := h.deps.Testimonials.Create(c.Request.Context(), domain.Testimonial{
		Author: strings.TrimSpace(req.Author),
		Body:   req.Body,
		Rating: req.Rating,
	})
	if err != nil {
		h.logger.Printf("create testimonial: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save testimonial"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"testimonial": testimonial})
}
