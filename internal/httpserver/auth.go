package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todecor/internal/domain"
	"todecor/internal/identity"
)

// TokenCookie mirrors the Authorization header for browser clients.
const TokenCookie = "todecor_token"

const tokenCookieMaxAge = 60 * 60 * 48

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// requestToken pulls the access token from the Authorization header, falling
// back to the token cookie.
func requestToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if tok, err := c.Cookie(TokenCookie); err == nil {
		return tok
	}
	return ""
}

func setTokenCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, token, maxAge, "/", "", false, true)
}

func (h *handlers) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}
	user, token, err := h.deps.Identity.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "an account with this email already exists"})
		case errors.Is(err, identity.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Printf("signup: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		}
		return
	}
	setTokenCookie(c, token, tokenCookieMaxAge)
	c.JSON(http.StatusCreated, authResponse{User: user, Token: token})
}

func (h *handlers) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}
	user, token, err := h.deps.Identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		h.logger.Printf("login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	setTokenCookie(c, token, tokenCookieMaxAge)
	c.JSON(http.StatusOK, authResponse{User: user, Token: token})
}

func (h *handlers) logout(c *gin.Context) {
	if token := requestToken(c); token != "" {
		if err := h.deps.Identity.SignOut(c.Request.Context(), token); err != nil {
			h.logger.Printf("logout: %v", err)
		}
	}
	setTokenCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

func (h *handlers) me(c *gin.Context) {
	token := requestToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	user, err := h.deps.Identity.Current(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// adminRequired gates the back-office routes on the is_admin profile flag.
func adminRequired(identitySvc IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := requestToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		admin, err := identitySvc.IsAdmin(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		if !admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
