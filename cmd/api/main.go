package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"todecor/internal/cart"
	"todecor/internal/checkout"
	"todecor/internal/config"
	"todecor/internal/db"
	"todecor/internal/httpserver"
	"todecor/internal/identity"
	"todecor/internal/objectstore"
	"todecor/internal/pricing"
	messagerepo "todecor/internal/repository/message"
	orderrepo "todecor/internal/repository/order"
	productrepo "todecor/internal/repository/product"
	profilerepo "todecor/internal/repository/profile"
	settingsrepo "todecor/internal/repository/settings"
	testimonialrepo "todecor/internal/repository/testimonial"
	tokenrepo "todecor/internal/repository/token"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	profileRepo := profilerepo.NewPostgres(dbpool)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool)
	settingsRepo := settingsrepo.NewPostgres(dbpool)
	messageRepo := messagerepo.NewPostgres(dbpool)
	testimonialRepo := testimonialrepo.NewPostgres(dbpool)

	identitySvc := identity.New(profileRepo, tokenRepo)
	engine := pricing.New()

	persistence, err := cartPersistence(cfg, logger)
	if err != nil {
		logger.Fatalf("cart backend: %v", err)
	}
	sessions := httpserver.NewSessionManager(
		persistence,
		func() *checkout.Checkout {
			return checkout.New(identitySvc, profileRepo, orderRepo, engine, logger)
		},
		logger,
	)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Identity:     identitySvc,
		Products:     productRepo,
		Orders:       orderRepo,
		Profiles:     profileRepo,
		Settings:     settingsRepo,
		Messages:     messageRepo,
		Testimonials: testimonialRepo,
		Objects:      objectstore.NewDisk(cfg.UploadDir, cfg.FileURLHost),
		Pricing:      engine,
		Sessions:     sessions,
		UploadDir:    cfg.UploadDir,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

// cartPersistence picks the per-session cart backend from configuration.
func cartPersistence(cfg config.Config, logger *log.Logger) (httpserver.PersistenceFactory, error) {
	switch cfg.CartBackend {
	case config.CartBackendFile:
		logger.Printf("cart backend: file (%s)", cfg.CartDir)
		return func(sessionID string) cart.Persistence {
			return cart.NewFilePersistence(cfg.CartDir, sessionID)
		}, nil
	case config.CartBackendRedis:
		logger.Printf("cart backend: redis (%s)", cfg.RedisAddr)
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return func(sessionID string) cart.Persistence {
			return cart.NewRedisPersistence(client, sessionID)
		}, nil
	default:
		return nil, errors.New("unknown CART_BACKEND " + cfg.CartBackend)
	}
}
