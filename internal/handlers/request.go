package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/anonto42/inkwell/backend/internal/apperror"
	"github.com/anonto42/inkwell/backend/internal/middleware"
	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/labstack/echo/v4"
)

const (
	maxPageSize = 100
	// lastMonthWindow is the trailing window behind the lastMonth* dashboard counters
	lastMonthWindow = 30 * 24 * time.Hour
)

// MessageResponse is returned by operations that have no entity to show
type MessageResponse struct {
	Message string `json:"message"`
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperror.Validation("Invalid request payload")
	}
	return c.Validate(req)
}

// listOptions reads startIndex, limit and order (alias sort) from the query.
// Malformed or negative values fall back to the defaults.
func listOptions(c echo.Context, defaultLimit int64) models.ListOptions {
	opts := models.ListOptions{Limit: defaultLimit}

	if v, err := strconv.ParseInt(c.QueryParam("startIndex"), 10, 64); err == nil && v > 0 {
		opts.Skip = v
	}
	if v, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64); err == nil && v > 0 {
		opts.Limit = min(v, maxPageSize)
	}

	order := c.QueryParam("order")
	if order == "" {
		order = c.QueryParam("sort")
	}
	opts.Ascending = order == "asc"
	return opts
}

// allTime as a count lower bound counts every record
var allTime time.Time

func lastMonth() time.Time {
	return time.Now().UTC().Add(-lastMonthWindow)
}

// currentUser returns the verified caller. Routes reaching it always run
// behind the token middleware, so a miss is treated as unauthenticated.
func currentUser(c echo.Context) (*models.JwtCustomClaims, error) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, apperror.Unauthorized("Unauthorized: No token provided")
	}
	return claims, nil
}

// requireAdmin returns the caller when it carries the admin flag and a
// Forbidden error with message otherwise.
func requireAdmin(c echo.Context, message string) (*models.JwtCustomClaims, error) {
	claims, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	if !claims.IsAdmin {
		return nil, apperror.Forbidden(message)
	}
	return claims, nil
}

func respondMessage(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: message})
}
