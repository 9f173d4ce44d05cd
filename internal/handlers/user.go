package handlers

import (
	"net/http"

	"github.com/anonto42/inkwell/backend/internal/apperror"
	"github.com/anonto42/inkwell/backend/internal/auth"
	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/anonto42/inkwell/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository repositories.UserRepository
	passwords      *auth.PasswordHasher
	cookie         SessionCookie
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, passwords *auth.PasswordHasher, cookie SessionCookie) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		passwords:      passwords,
		cookie:         cookie,
	}
}

// RegisterUserRoutes registers user routes. requireToken guards every
// route except the public profile lookup.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, requireToken echo.MiddlewareFunc) {
	g.PUT("/update/:userId", h.UpdateProfile, requireToken)
	g.DELETE("/delete/:userId", h.DeleteUser, requireToken)
	g.POST("/signout", h.Signout, requireToken)
	g.GET("/get-users", h.GetUsers, requireToken)
	g.GET("/:userId", h.GetUser)
}

// UpdateProfile applies the whitelisted profile fields to the caller's own account
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	claims, err := currentUser(c)
	if err != nil {
		return err
	}
	userID := c.Param("userId")
	if claims.UserID != userID {
		return apperror.Forbidden("You are not allowed to update this profile")
	}

	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	var update models.UserUpdate
	if req.Username != "" {
		update.Username = &req.Username
	}
	if req.Email != "" {
		update.Email = &req.Email
	}
	if req.ProfilePic != "" {
		update.ProfilePic = &req.ProfilePic
	}
	if req.Password != "" {
		hashed, err := h.passwords.Hash(req.Password)
		if err != nil {
			return apperror.Internal(err)
		}
		update.Password = &hashed
	}

	user, err := h.userRepository.UpdateUser(c.Request().Context(), userID, update)
	if err != nil {
		return storageError(err, "User not found", "Username or email already exists")
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser deletes the caller's own account. Posts and comments are kept.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	claims, err := currentUser(c)
	if err != nil {
		return err
	}
	userID := c.Param("userId")
	if claims.UserID != userID {
		return apperror.Forbidden("You are not allowed to delete this User")
	}

	if err := h.userRepository.DeleteUser(c.Request().Context(), userID); err != nil {
		return storageError(err, "User not found", "")
	}
	return respondMessage(c, "User deleted successfully!!")
}

// Signout clears the session cookie
func (h *UserHandler) Signout(c echo.Context) error {
	h.cookie.clear(c)
	return respondMessage(c, "User has been signed out")
}

// GetUsers lists users for the admin dashboard
func (h *UserHandler) GetUsers(c echo.Context) error {
	if _, err := requireAdmin(c, "You are not allowed to see all users"); err != nil {
		return err
	}
	ctx := c.Request().Context()

	users, err := h.userRepository.ListUsers(ctx, listOptions(c, 9))
	if err != nil {
		return apperror.Internal(err)
	}
	total, err := h.userRepository.CountUsers(ctx, allTime)
	if err != nil {
		return apperror.Internal(err)
	}
	recent, err := h.userRepository.CountUsers(ctx, lastMonth())
	if err != nil {
		return apperror.Internal(err)
	}

	return c.JSON(http.StatusOK, models.UsersPage{
		Users:          users,
		TotalUsers:     total,
		LastMonthUsers: recent,
	})
}

// GetUser returns the public representation of one user
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return storageError(err, "User not found", "")
	}
	return c.JSON(http.StatusOK, user)
}
