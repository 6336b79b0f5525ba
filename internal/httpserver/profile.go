package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todecor/internal/domain"
)

// getProfile returns the caller's saved checkout details. A user who has
// never checked out gets an email-only profile back.
func (h *handlers) getProfile(c *gin.Context) {
	user, err := h.deps.Identity.Current(c.Request.Context(), requestToken(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	profile, err := h.deps.Profiles.GetByID(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"profile": domain.Profile{UserID: user.ID, Email: user.Email}})
			return
		}
		h.logger.Printf("get profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

type profileRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

func (h *handlers) updateProfile(c *gin.Context) {
	user, err := h.deps.Identity.Current(c.Request.Context(), requestToken(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile payload"})
		return
	}
	profile := domain.Profile{
		UserID:     user.ID,
		Email:      user.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
	}
	if err := h.deps.Profiles.Upsert(c.Request.Context(), profile); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		h.logger.Printf("update profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
