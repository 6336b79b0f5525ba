package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"todecor/internal/domain"
	"todecor/internal/objectstore"
	"todecor/internal/pricing"
	messagerepo "todecor/internal/repository/message"
	orderrepo "todecor/internal/repository/order"
	productrepo "todecor/internal/repository/product"
	profilerepo "todecor/internal/repository/profile"
	settingsrepo "todecor/internal/repository/settings"
	testimonialrepo "todecor/internal/repository/testimonial"
)

// IdentityService is the slice of the identity service the handlers use.
type IdentityService interface {
	Signup(ctx context.Context, email, password string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Current(ctx context.Context, token string) (*domain.User, error)
	IsAdmin(ctx context.Context, token string) (bool, error)
	SignOut(ctx context.Context, token string) error
}

// Deps carries the collaborators the router needs.
type Deps struct {
	Identity     IdentityService
	Products     productrepo.Repository
	Orders       orderrepo.Repository
	Profiles     profilerepo.Repository
	Settings     settingsrepo.Repository
	Messages     messagerepo.Repository
	Testimonials testimonialrepo.Repository
	Objects      objectstore.Store
	Pricing      *pricing.Engine
	Sessions     *SessionManager
	UploadDir    string
}

func (d Deps) validate() error {
	switch {
	case d.Identity == nil:
		return errors.New("httpserver: Identity is required")
	case d.Products == nil:
		return errors.New("httpserver: Products is required")
	case d.Orders == nil:
		return errors.New("httpserver: Orders is required")
	case d.Profiles == nil:
		return errors.New("httpserver: Profiles is required")
	case d.Settings == nil:
		return errors.New("httpserver: Settings is required")
	case d.Messages == nil:
		return errors.New("httpserver: Messages is required")
	case d.Testimonials == nil:
		return errors.New("httpserver: Testimonials is required")
	case d.Pricing == nil:
		return errors.New("httpserver: Pricing is required")
	case d.Sessions == nil:
		return errors.New("httpserver: Sessions is required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsCfg.AllowCredentials = false
	corsCfg.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	if deps.UploadDir != "" {
		router.Static("/uploads", deps.UploadDir)
	}

	h := &handlers{deps: deps, logger: logger}

	api := router.Group("/api")
	api.Use(sessionMiddleware(deps.Sessions))

	api.POST("/auth/signup", h.signup)
	api.POST("/auth/login", h.login)
	api.POST("/auth/logout", h.logout)
	api.GET("/auth/me", h.me)
	api.GET("/profile", h.getProfile)
	api.PUT("/profile", h.updateProfile)

	api.GET("/products", h.listProducts)
	api.GET("/products/:slug", h.getProduct)
	api.GET("/settings", h.getSettings)
	api.POST("/messages", h.createMessage)
	api.GET("/testimonials", h.listTestimonials)
	api.POST("/testimonials", h.createTestimonial)

	api.GET("/cart", h.getCart)
	api.POST("/cart/items", h.addCartItem)
	api.PATCH("/cart/items/:id", h.updateCartItem)
	api.DELETE("/cart/items/:id", h.removeCartItem)
	api.DELETE("/cart", h.clearCart)

	api.GET("/checkout", h.beginCheckout)
	api.POST("/checkout", h.submitCheckout)

	api.GET("/orders", h.listOrders)
	api.GET("/orders/:id", h.getOrder)

	admin := api.Group("/admin")
	admin.Use(adminRequired(deps.Identity))
	admin.POST("/products", h.adminCreateProduct)
	admin.PUT("/products/:id", h.adminUpdateProduct)
	admin.DELETE("/products/:id", h.adminDeleteProduct)
	admin.POST("/uploads", h.adminUpload)
	admin.GET("/orders", h.adminListOrders)
	admin.PATCH("/orders/:id/status", h.adminUpdateOrderStatus)
	admin.GET("/orders/:id/invoice", h.adminOrderInvoice)
	admin.PUT("/settings", h.adminUpdateSettings)
	admin.GET("/messages", h.adminListMessages)
	admin.POST("/messages/:id/read", h.adminMarkMessageRead)
	admin.GET("/testimonials", h.adminListTestimonials)
	admin.POST("/testimonials/:id/approve", h.adminApproveTestimonial)
	admin.DELETE("/testimonials/:id", h.adminDeleteTestimonial)

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *log.Logger
}
