package handlers

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/anonto42/inkwell/backend/internal/apperror"
	"github.com/anonto42/inkwell/backend/internal/auth"
	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/anonto42/inkwell/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// IDTokenVerifier verifies Google ID tokens. *fbauth.Client satisfies it.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// SessionCookie describes the httpOnly cookie that carries the session token
type SessionCookie struct {
	Name   string
	Secure bool
}

func (s SessionCookie) set(c echo.Context, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     s.Name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s SessionCookie) clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	tokens         *auth.TokenManager
	passwords      *auth.PasswordHasher
	cookie         SessionCookie
	google         IDTokenVerifier
}

// NewAuthHandler creates a new AuthHandler. google may be nil, in which case
// the Google sign-in route is not registered.
func NewAuthHandler(userRepo repositories.UserRepository, tokens *auth.TokenManager, passwords *auth.PasswordHasher, cookie SessionCookie, google IDTokenVerifier) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		tokens:         tokens,
		passwords:      passwords,
		cookie:         cookie,
		google:         google,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
	if h.google != nil {
		g.POST("/google", h.Google)
	}
}

// Signup handles local user registration with username, email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	if _, err := h.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return apperror.Conflict("Username already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return apperror.Internal(err)
	}

	if _, err := h.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return apperror.Conflict("Email already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return apperror.Internal(err)
	}

	hashed, err := h.passwords.Hash(req.Password)
	if err != nil {
		return apperror.Internal(err)
	}

	user := &models.User{
		Username:   req.Username,
		Email:      req.Email,
		Password:   hashed,
		ProfilePic: models.DefaultProfilePic,
	}

	// The lookups above race with concurrent signups; the unique indexes decide.
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return storageError(err, "", "Username or email already exists")
	}

	return c.JSON(http.StatusOK, user)
}

// Login handles email/password authentication and sets the session cookie
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperror.Validation("User not found")
		}
		return apperror.Internal(err)
	}

	if !h.passwords.Compare(user.Password, req.Password) {
		return apperror.Validation("Invalid password")
	}

	return h.startSession(c, user)
}

// Google signs in with a Firebase-issued Google ID token, creating the
// account on first use.
func (h *AuthHandler) Google(c echo.Context) error {
	var req models.GoogleLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	token, err := h.google.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		log.Debug().Err(err).Msg("google id token rejected")
		return apperror.Unauthorized("Unauthorized: Invalid token")
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return apperror.Validation("Google account has no email address")
	}

	user, err := h.userRepository.GetUserByEmail(ctx, email)
	if err == nil {
		return h.startSession(c, user)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return apperror.Internal(err)
	}

	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)
	if picture == "" {
		picture = models.DefaultProfilePic
	}

	// The account never logs in with a password; a random one keeps the column non-empty.
	hashed, err := h.passwords.Hash(uuid.NewString())
	if err != nil {
		return apperror.Internal(err)
	}

	for attempt := 0; attempt < 3; attempt++ {
		user = &models.User{
			Username:   generatedUsername(name),
			Email:      email,
			Password:   hashed,
			ProfilePic: picture,
		}
		err = h.userRepository.CreateUser(ctx, user)
		if !errors.Is(err, repositories.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return storageError(err, "", "Username or email already exists")
	}

	return h.startSession(c, user)
}

func (h *AuthHandler) startSession(c echo.Context, user *models.User) error {
	token, expiresAt, err := h.tokens.Issue(user)
	if err != nil {
		return apperror.Internal(err)
	}
	h.cookie.set(c, token, expiresAt)
	return c.JSON(http.StatusOK, user)
}

// generatedUsername lowercases the display name, drops characters a username
// may not contain and appends four random digits.
func generatedUsername(displayName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(displayName) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if len(base) > 16 {
		base = base[:16]
	}
	if base == "" {
		base = "user"
	}
	return fmt.Sprintf("%s%04d", base, rand.IntN(10000))
}
