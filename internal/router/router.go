package router

import (
	"github.com/anonto42/inkwell/backend/internal/auth"
	"github.com/anonto42/inkwell/backend/internal/handlers"
	"github.com/anonto42/inkwell/backend/internal/middleware"
	"github.com/anonto42/inkwell/backend/internal/repositories"
	"github.com/anonto42/inkwell/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Dependencies are created once at startup and shared by every handler.
// Google and Presigner are optional; their routes are only registered when set.
type Dependencies struct {
	Repositories repositories.Repositories
	Tokens       *auth.TokenManager
	Passwords    *auth.PasswordHasher
	Cookie       handlers.SessionCookie
	Google       handlers.IDTokenVerifier
	Presigner    handlers.UploadPresigner
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	repos := deps.Repositories
	requireToken := middleware.JWTAuthMiddleware(deps.Tokens, deps.Cookie.Name)

	authHandler := handlers.NewAuthHandler(repos.Users, deps.Tokens, deps.Passwords, deps.Cookie, deps.Google)
	authHandler.RegisterAuthRoutes(e.Group("/api/auth"))
	log.Info().Bool("google", deps.Google != nil).Msg("Auth routes configured.")

	userHandler := handlers.NewUserHandler(repos.Users, deps.Passwords, deps.Cookie)
	userHandler.RegisterUserRoutes(e.Group("/api/user"), requireToken)
	log.Info().Msg("User routes configured.")

	postHandler := handlers.NewPostHandler(repos.Posts)
	postHandler.RegisterPostRoutes(e.Group("/api/post"), requireToken)
	log.Info().Msg("Post routes configured.")

	commentHandler := handlers.NewCommentHandler(repos.Comments, repos.Posts)
	commentHandler.RegisterCommentRoutes(e.Group("/api/comment"), requireToken)
	log.Info().Msg("Comment routes configured.")

	contactHandler := handlers.NewContactHandler(repos.Contacts)
	contactHandler.RegisterContactRoutes(e.Group("/api/contact"), requireToken)
	log.Info().Msg("Contact routes configured.")

	if deps.Presigner != nil {
		mediaHandler := handlers.NewMediaHandler(deps.Presigner)
		mediaHandler.RegisterMediaRoutes(e.Group("/api/media"), requireToken)
		log.Info().Msg("Media routes configured.")
	}

	log.Info().Msg("All routes configured.")
}
