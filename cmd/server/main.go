package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/inkwell/backend/internal/auth"
	"github.com/anonto42/inkwell/backend/internal/handlers"
	"github.com/anonto42/inkwell/backend/internal/router"
	"github.com/anonto42/inkwell/backend/pkg/config"
	"github.com/anonto42/inkwell/backend/pkg/firebase"
	"github.com/anonto42/inkwell/backend/pkg/media"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	config.InitLogger(cfg)
	cfg.LogNotices()

	ctx := context.Background()

	// Initialize database connection for the configured driver
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("Failed to initialize database")
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	deps := router.Dependencies{
		Repositories: db.Repositories(),
		Tokens:       auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		Passwords:    auth.NewPasswordHasher(cfg.BcryptCost),
		Cookie:       handlers.SessionCookie{Name: cfg.CookieName, Secure: cfg.CookieSecure},
	}

	// Google sign-in is optional
	authClient, err := firebase.NewAuthClient(ctx, cfg.Firebase)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Firebase")
	}
	if authClient != nil {
		deps.Google = authClient
	}

	// Direct image uploads are optional
	if cfg.Media.Enabled() {
		presigner, err := media.NewPresigner(ctx, cfg.Media)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		deps.Presigner = presigner
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	config.SetupMiddleware(e, cfg)
	router.SetupRoutes(e, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.StorageDriver).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// Block until a signal is received
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
