package middleware

import (
	"github.com/anonto42/inkwell/backend/internal/apperror"
	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/labstack/echo/v4"
)

const userContextKey = "user"

// TokenParser verifies a signed session token and returns its claims
type TokenParser interface {
	Parse(token string) (*models.JwtCustomClaims, error)
}

// JWTAuthMiddleware reads the session token from the named cookie, verifies
// it and stores the claims in the echo context.
func JWTAuthMiddleware(tokens TokenParser, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return apperror.Unauthorized("Unauthorized: No token provided")
			}

			claims, err := tokens.Parse(cookie.Value)
			if err != nil {
				return apperror.Unauthorized("Unauthorized: Invalid token")
			}

			// Store user claims in context
			c.Set(userContextKey, claims)

			return next(c)
		}
	}
}

// CurrentUser returns the claims stored by JWTAuthMiddleware
func CurrentUser(c echo.Context) (*models.JwtCustomClaims, bool) {
	claims, ok := c.Get(userContextKey).(*models.JwtCustomClaims)
	return claims, ok && claims != nil
}
